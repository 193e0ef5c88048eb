package services

import (
	"context"
	"testing"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockProjectRepository is a mock implementation of ProjectRepository
type mockProjectRepository struct {
	project        *models.Project
	getErr         error
	createErr      error
	projects       []models.Project
	getAllErr      error
	updateErr      error
	membersErr     error
	deleteErr      error
	created        *models.Project
	addedMembers   []string
	removedMembers []string
	setMembers     []string
	deletedID      int
}

func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	project.ID = 1
	m.created = project
	return nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.project, nil
}

func (m *mockProjectRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.projects, nil
}

func (m *mockProjectRepository) Update(ctx context.Context, id int, name, deliveryDate *string, contractID *int) error {
	return m.updateErr
}

func (m *mockProjectRepository) AddMembers(ctx context.Context, projectID int, emails []string) error {
	if m.membersErr != nil {
		return m.membersErr
	}
	m.addedMembers = emails
	return nil
}

func (m *mockProjectRepository) RemoveMembers(ctx context.Context, projectID int, emails []string) error {
	if m.membersErr != nil {
		return m.membersErr
	}
	m.removedMembers = emails
	return nil
}

func (m *mockProjectRepository) SetMembers(ctx context.Context, projectID int, emails []string) error {
	if m.membersErr != nil {
		return m.membersErr
	}
	m.setMembers = emails
	return nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func newTestProjectService(projects *mockProjectRepository, contracts *mockContractRepository) *projectService {
	logger, _ := zap.NewDevelopment()
	return NewProjectService(projects, contracts, logger)
}

func TestProjectService_CreateProject(t *testing.T) {
	req := &models.CreateProjectRequest{
		Name:          "Portal do cliente",
		DeliveryDate:  "2024-12-01",
		ContractTitle: "Site institucional",
		Developers:    []string{"a@ijunior.com.br", "b@ijunior.com.br"},
	}

	t.Run("success", func(t *testing.T) {
		projects := &mockProjectRepository{}
		contracts := &mockContractRepository{byTitle: &models.Contract{ID: 7, Title: "Site institucional"}}
		svc := newTestProjectService(projects, contracts)

		project, err := svc.CreateProject(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 7, project.ContractID)
		assert.Equal(t, []string{"a@ijunior.com.br", "b@ijunior.com.br"}, projects.addedMembers)
	})

	t.Run("unknown contract title", func(t *testing.T) {
		projects := &mockProjectRepository{}
		contracts := &mockContractRepository{byTitleErr: repositories.ErrNotFound}
		svc := newTestProjectService(projects, contracts)

		_, err := svc.CreateProject(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Nao existe um contrato com o nome selecionado!")
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newTestProjectService(&mockProjectRepository{}, &mockContractRepository{})

		_, err := svc.CreateProject(context.Background(), &models.CreateProjectRequest{Name: "x"})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidParam, apperrors.KindOf(err))
	})
}

func TestProjectService_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		projects := &mockProjectRepository{project: &models.Project{ID: 4, Name: "Portal"}}
		svc := newTestProjectService(projects, &mockContractRepository{})

		project, err := svc.GetByID(context.Background(), 4)

		require.NoError(t, err)
		assert.Equal(t, "Portal", project.Name)
	})

	t.Run("not found", func(t *testing.T) {
		projects := &mockProjectRepository{getErr: repositories.ErrNotFound}
		svc := newTestProjectService(projects, &mockContractRepository{})

		_, err := svc.GetByID(context.Background(), 4)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Não foi possível encontrar um projeto com o id recebido!")
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestProjectService_GetAll(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		svc := newTestProjectService(&mockProjectRepository{}, &mockContractRepository{})

		_, err := svc.GetAll(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Nenhum projeto foi encontrado!")
	})

	t.Run("success", func(t *testing.T) {
		projects := &mockProjectRepository{projects: []models.Project{{ID: 1}, {ID: 2}}}
		svc := newTestProjectService(projects, &mockContractRepository{})

		got, err := svc.GetAll(context.Background())

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	newName := "Portal v2"
	contractTitle := "Outro contrato"
	developers := []string{"c@ijunior.com.br"}

	t.Run("rename only", func(t *testing.T) {
		projects := &mockProjectRepository{project: &models.Project{ID: 4}}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.UpdateProject(context.Background(), 4, &models.ProjectPatch{Name: &newName})

		require.NoError(t, err)
		assert.Nil(t, projects.setMembers)
	})

	t.Run("contract change resolved by title", func(t *testing.T) {
		projects := &mockProjectRepository{project: &models.Project{ID: 4}}
		contracts := &mockContractRepository{byTitle: &models.Contract{ID: 9, Title: contractTitle}}
		svc := newTestProjectService(projects, contracts)

		err := svc.UpdateProject(context.Background(), 4, &models.ProjectPatch{ContractTitle: &contractTitle})

		require.NoError(t, err)
	})

	t.Run("unknown contract title", func(t *testing.T) {
		projects := &mockProjectRepository{project: &models.Project{ID: 4}}
		contracts := &mockContractRepository{byTitleErr: repositories.ErrNotFound}
		svc := newTestProjectService(projects, contracts)

		err := svc.UpdateProject(context.Background(), 4, &models.ProjectPatch{ContractTitle: &contractTitle})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Nao existe um contrato com o nome selecionado!")
	})

	t.Run("developer list replaces member set", func(t *testing.T) {
		projects := &mockProjectRepository{project: &models.Project{ID: 4}}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.UpdateProject(context.Background(), 4, &models.ProjectPatch{Developers: developers})

		require.NoError(t, err)
		assert.Equal(t, developers, projects.setMembers)
	})

	t.Run("project not found", func(t *testing.T) {
		projects := &mockProjectRepository{getErr: repositories.ErrNotFound}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.UpdateProject(context.Background(), 4, &models.ProjectPatch{Name: &newName})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestProjectService_Members(t *testing.T) {
	emails := []string{"a@ijunior.com.br"}

	t.Run("add members", func(t *testing.T) {
		projects := &mockProjectRepository{project: &models.Project{ID: 4}}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.AddMembers(context.Background(), 4, emails)

		require.NoError(t, err)
		assert.Equal(t, emails, projects.addedMembers)
	})

	t.Run("remove members", func(t *testing.T) {
		projects := &mockProjectRepository{project: &models.Project{ID: 4}}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.RemoveMembers(context.Background(), 4, emails)

		require.NoError(t, err)
		assert.Equal(t, emails, projects.removedMembers)
	})

	t.Run("unknown project", func(t *testing.T) {
		projects := &mockProjectRepository{getErr: repositories.ErrNotFound}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.AddMembers(context.Background(), 4, emails)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestProjectService_RemoveProject(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		projects := &mockProjectRepository{}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.RemoveProject(context.Background(), 4)

		require.NoError(t, err)
		assert.Equal(t, 4, projects.deletedID)
	})

	t.Run("not found", func(t *testing.T) {
		projects := &mockProjectRepository{deleteErr: repositories.ErrNotFound}
		svc := newTestProjectService(projects, &mockContractRepository{})

		err := svc.RemoveProject(context.Background(), 4)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}
