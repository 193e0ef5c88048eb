package services

import (
	"context"
	"errors"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/repositories"
	"go.uber.org/zap"
)

// ContractRepository is the interface that wraps methods for contract record data access
type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id int) (*models.Contract, error)
	GetByTitle(ctx context.Context, title string) (*models.Contract, error)
	GetAll(ctx context.Context) ([]models.Contract, error)
	Update(ctx context.Context, id int, patch *models.ContractPatch) error
	Delete(ctx context.Context, id int) error
}

// FileStore removes uploaded files from object storage
type FileStore interface {
	Delete(ctx context.Context, fileURL string) error
}

// contractService owns contract CRUD and the attached document lifecycle
type contractService struct {
	contractRepo ContractRepository
	files        FileStore
	logger       *zap.Logger
}

// NewContractService creates a new contract service
func NewContractService(contractRepo ContractRepository, files FileStore, logger *zap.Logger) *contractService {
	return &contractService{
		contractRepo: contractRepo,
		files:        files,
		logger:       logger,
	}
}

// CreateContract creates a contract. Titles are unique.
func (s *contractService) CreateContract(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error) {
	if req.Title == "" || req.ClientName == "" || req.SoldAt == "" {
		return nil, apperrors.InvalidParam("Características de contrato incompletas!")
	}

	_, err := s.contractRepo.GetByTitle(ctx, req.Title)
	if err == nil {
		return nil, apperrors.InvalidParam("Ja existe um contrato com esse titulo!")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	contract := &models.Contract{
		Title:      req.Title,
		ClientName: req.ClientName,
		Price:      req.Price,
		SoldAt:     req.SoldAt,
		FileURL:    req.FileURL,
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	return contract, nil
}

// GetByID returns a single contract
func (s *contractService) GetByID(ctx context.Context, id int) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("O contrato com o id recebido nao existe!")
	}
	if err != nil {
		return nil, err
	}

	return contract, nil
}

// GetAll returns every contract. An empty store is a query-level error.
func (s *contractService) GetAll(ctx context.Context) ([]models.Contract, error) {
	contracts, err := s.contractRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(contracts) == 0 {
		return nil, apperrors.NotFound("Nao ha nenhum contrato cadastrado no sistema!")
	}

	return contracts, nil
}

// UpdateContract applies a partial update. A title change must not collide
// with another contract.
func (s *contractService) UpdateContract(ctx context.Context, id int, patch *models.ContractPatch) error {
	if patch.Title != nil {
		existing, err := s.contractRepo.GetByTitle(ctx, *patch.Title)
		if err == nil && existing.ID != id {
			return apperrors.InvalidParam("Ja existe um contrato com esse titulo!")
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
	}

	err := s.contractRepo.Update(ctx, id, patch)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("O contrato com o id recebido nao existe!")
	}
	return err
}

// RemoveContract destroys a contract and its stored document, if any.
// A storage failure is logged but does not block record removal.
func (s *contractService) RemoveContract(ctx context.Context, id int) error {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("O contrato com o id recebido nao existe!")
	}
	if err != nil {
		return err
	}

	if contract.FileURL != "" && s.files != nil {
		if err := s.files.Delete(ctx, contract.FileURL); err != nil {
			s.logger.Warn("failed to delete contract file", zap.Error(err), zap.Int("id", id))
		}
	}

	return s.contractRepo.Delete(ctx, id)
}
