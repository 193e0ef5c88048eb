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

// mockContractRepository is a mock implementation of ContractRepository
type mockContractRepository struct {
	contract     *models.Contract
	byTitle      *models.Contract
	getErr       error
	byTitleErr   error
	createErr    error
	contracts    []models.Contract
	getAllErr    error
	updateErr    error
	deleteErr    error
	created      *models.Contract
	appliedPatch *models.ContractPatch
	deletedID    int
}

func (m *mockContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	if m.createErr != nil {
		return m.createErr
	}
	contract.ID = 1
	m.created = contract
	return nil
}

func (m *mockContractRepository) GetByID(ctx context.Context, id int) (*models.Contract, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.contract, nil
}

func (m *mockContractRepository) GetByTitle(ctx context.Context, title string) (*models.Contract, error) {
	if m.byTitleErr != nil {
		return nil, m.byTitleErr
	}
	return m.byTitle, nil
}

func (m *mockContractRepository) GetAll(ctx context.Context) ([]models.Contract, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.contracts, nil
}

func (m *mockContractRepository) Update(ctx context.Context, id int, patch *models.ContractPatch) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.appliedPatch = patch
	return nil
}

func (m *mockContractRepository) Delete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

// mockFileStore is a mock implementation of FileStore
type mockFileStore struct {
	err        error
	deletedURL string
}

func (m *mockFileStore) Delete(ctx context.Context, fileURL string) error {
	if m.err != nil {
		return m.err
	}
	m.deletedURL = fileURL
	return nil
}

func newTestContractService(repo *mockContractRepository, files FileStore) *contractService {
	logger, _ := zap.NewDevelopment()
	return NewContractService(repo, files, logger)
}

func validContractRequest() *models.CreateContractRequest {
	return &models.CreateContractRequest{
		Title:      "Site institucional",
		ClientName: "ACME",
		Price:      5000,
		SoldAt:     "2024-03-01",
	}
}

func TestContractService_CreateContract(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &mockContractRepository{byTitleErr: repositories.ErrNotFound}
		svc := newTestContractService(repo, nil)

		contract, err := svc.CreateContract(context.Background(), validContractRequest())

		require.NoError(t, err)
		assert.Equal(t, 1, contract.ID)
		assert.Equal(t, "Site institucional", repo.created.Title)
	})

	t.Run("duplicate title", func(t *testing.T) {
		repo := &mockContractRepository{byTitle: &models.Contract{ID: 7, Title: "Site institucional"}}
		svc := newTestContractService(repo, nil)

		_, err := svc.CreateContract(context.Background(), validContractRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Ja existe um contrato com esse titulo!")
		assert.Equal(t, apperrors.KindInvalidParam, apperrors.KindOf(err))
	})

	t.Run("missing fields", func(t *testing.T) {
		repo := &mockContractRepository{}
		svc := newTestContractService(repo, nil)

		req := validContractRequest()
		req.Title = ""
		_, err := svc.CreateContract(context.Background(), req)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidParam, apperrors.KindOf(err))
	})
}

func TestContractService_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &mockContractRepository{contract: &models.Contract{ID: 3, Title: "App mobile"}}
		svc := newTestContractService(repo, nil)

		contract, err := svc.GetByID(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, "App mobile", contract.Title)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockContractRepository{getErr: repositories.ErrNotFound}
		svc := newTestContractService(repo, nil)

		_, err := svc.GetByID(context.Background(), 3)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "O contrato com o id recebido nao existe!")
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestContractService_GetAll(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		repo := &mockContractRepository{}
		svc := newTestContractService(repo, nil)

		_, err := svc.GetAll(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Nao ha nenhum contrato cadastrado no sistema!")
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("success", func(t *testing.T) {
		repo := &mockContractRepository{contracts: []models.Contract{{ID: 1}, {ID: 2}}}
		svc := newTestContractService(repo, nil)

		contracts, err := svc.GetAll(context.Background())

		require.NoError(t, err)
		assert.Len(t, contracts, 2)
	})
}

func TestContractService_UpdateContract(t *testing.T) {
	newTitle := "Novo titulo"

	t.Run("success", func(t *testing.T) {
		repo := &mockContractRepository{byTitleErr: repositories.ErrNotFound}
		svc := newTestContractService(repo, nil)

		err := svc.UpdateContract(context.Background(), 3, &models.ContractPatch{Title: &newTitle})

		require.NoError(t, err)
		assert.NotNil(t, repo.appliedPatch)
	})

	t.Run("title collision with another contract", func(t *testing.T) {
		repo := &mockContractRepository{byTitle: &models.Contract{ID: 9, Title: newTitle}}
		svc := newTestContractService(repo, nil)

		err := svc.UpdateContract(context.Background(), 3, &models.ContractPatch{Title: &newTitle})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Ja existe um contrato com esse titulo!")
	})

	t.Run("renaming to own title is allowed", func(t *testing.T) {
		repo := &mockContractRepository{byTitle: &models.Contract{ID: 3, Title: newTitle}}
		svc := newTestContractService(repo, nil)

		err := svc.UpdateContract(context.Background(), 3, &models.ContractPatch{Title: &newTitle})

		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockContractRepository{updateErr: repositories.ErrNotFound}
		svc := newTestContractService(repo, nil)

		err := svc.UpdateContract(context.Background(), 3, &models.ContractPatch{})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestContractService_RemoveContract(t *testing.T) {
	t.Run("removes stored document", func(t *testing.T) {
		repo := &mockContractRepository{contract: &models.Contract{ID: 3, FileURL: "https://bucket.s3.amazonaws.com/contracts/3.pdf"}}
		files := &mockFileStore{}
		svc := newTestContractService(repo, files)

		err := svc.RemoveContract(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, 3, repo.deletedID)
		assert.Equal(t, "https://bucket.s3.amazonaws.com/contracts/3.pdf", files.deletedURL)
	})

	t.Run("storage failure does not block removal", func(t *testing.T) {
		repo := &mockContractRepository{contract: &models.Contract{ID: 3, FileURL: "https://bucket.s3.amazonaws.com/contracts/3.pdf"}}
		files := &mockFileStore{err: assert.AnError}
		svc := newTestContractService(repo, files)

		err := svc.RemoveContract(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, 3, repo.deletedID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockContractRepository{getErr: repositories.ErrNotFound}
		svc := newTestContractService(repo, nil)

		err := svc.RemoveContract(context.Background(), 3)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}
