package services

import (
	"context"
	"errors"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/repositories"
	"go.uber.org/zap"
)

// ProjectRepository is the interface that wraps methods for project record data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int) (*models.Project, error)
	GetAll(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, id int, name, deliveryDate *string, contractID *int) error
	AddMembers(ctx context.Context, projectID int, emails []string) error
	RemoveMembers(ctx context.Context, projectID int, emails []string) error
	SetMembers(ctx context.Context, projectID int, emails []string) error
	Delete(ctx context.Context, id int) error
}

// projectService owns project CRUD and the project-member association
type projectService struct {
	projectRepo  ProjectRepository
	contractRepo ContractRepository
	logger       *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo ProjectRepository, contractRepo ContractRepository, logger *zap.Logger) *projectService {
	return &projectService{
		projectRepo:  projectRepo,
		contractRepo: contractRepo,
		logger:       logger,
	}
}

// CreateProject creates a project bound to an existing contract, resolved by
// title, and associates the initial developer set
func (s *projectService) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" || req.DeliveryDate == "" || req.ContractTitle == "" {
		return nil, apperrors.InvalidParam("Características de projeto incompletas!")
	}

	contract, err := s.contractRepo.GetByTitle(ctx, req.ContractTitle)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Nao existe um contrato com o nome selecionado!")
	}
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:         req.Name,
		DeliveryDate: req.DeliveryDate,
		ContractID:   contract.ID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	if len(req.Developers) > 0 {
		if err := s.projectRepo.AddMembers(ctx, project.ID, req.Developers); err != nil {
			return nil, err
		}
		for _, email := range req.Developers {
			project.Members = append(project.Members, models.ProjectMember{Email: email})
		}
	}

	return project, nil
}

// GetByID returns a single project with its members
func (s *projectService) GetByID(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Não foi possível encontrar um projeto com o id recebido!")
	}
	if err != nil {
		return nil, err
	}

	return project, nil
}

// GetAll returns every project. An empty store is a query-level error.
func (s *projectService) GetAll(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projectRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(projects) == 0 {
		return nil, apperrors.NotFound("Nenhum projeto foi encontrado!")
	}

	return projects, nil
}

// UpdateProject applies a partial update. A contract change is resolved by
// title; a developer list replaces the member set wholesale.
func (s *projectService) UpdateProject(ctx context.Context, id int, patch *models.ProjectPatch) error {
	_, err := s.projectRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Não foi possível encontrar um projeto com o id recebido!")
	}
	if err != nil {
		return err
	}

	var contractID *int
	if patch.ContractTitle != nil {
		contract, err := s.contractRepo.GetByTitle(ctx, *patch.ContractTitle)
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Nao existe um contrato com o nome selecionado!")
		}
		if err != nil {
			return err
		}
		contractID = &contract.ID
	}

	if err := s.projectRepo.Update(ctx, id, patch.Name, patch.DeliveryDate, contractID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Não foi possível encontrar um projeto com o id recebido!")
		}
		return err
	}

	if patch.Developers != nil {
		return s.projectRepo.SetMembers(ctx, id, patch.Developers)
	}

	return nil
}

// AddMembers associates developers with an existing project
func (s *projectService) AddMembers(ctx context.Context, id int, emails []string) error {
	_, err := s.projectRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Não foi possível encontrar um projeto com o id recebido!")
	}
	if err != nil {
		return err
	}

	return s.projectRepo.AddMembers(ctx, id, emails)
}

// RemoveMembers removes developers from an existing project
func (s *projectService) RemoveMembers(ctx context.Context, id int, emails []string) error {
	_, err := s.projectRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Não foi possível encontrar um projeto com o id recebido!")
	}
	if err != nil {
		return err
	}

	return s.projectRepo.RemoveMembers(ctx, id, emails)
}

// RemoveProject destroys a project; member associations cascade
func (s *projectService) RemoveProject(ctx context.Context, id int) error {
	err := s.projectRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Não foi possível encontrar um projeto com o id recebido!")
	}
	return err
}
