package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupContractTestRepository creates a contract repository with a mock database
func setupContractTestRepository(t *testing.T) (*contractRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()
	repo := NewContractRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func contractColumns() []string {
	return []string{"id", "title", "client_name", "price", "sold_at", "file_url", "created_at", "updated_at"}
}

func TestContractRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO contracts`).
					WithArgs("Site institucional", "ACME", 5000.0, "2024-03-01", "").
					WillReturnResult(sqlmock.NewResult(3, 1))
			},
			expectedID: 3,
		},
		{
			name: "duplicate title",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO contracts`).
					WithArgs("Site institucional", "ACME", 5000.0, "2024-03-01", "").
					WillReturnError(errors.New("Error 1062: Duplicate entry 'Site institucional' for key 'uniq_contracts_title'"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupContractTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			contract := &models.Contract{
				Title:      "Site institucional",
				ClientName: "ACME",
				Price:      5000,
				SoldAt:     "2024-03-01",
			}
			err := repo.Create(context.Background(), contract)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, contract.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContractRepository_GetByID(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupContractTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(contractColumns()).
			AddRow(3, "Site institucional", "ACME", 5000.0, "2024-03-01", "", now, now)
		mock.ExpectQuery(`SELECT .+ FROM contracts`).
			WithArgs(3).
			WillReturnRows(rows)

		contract, err := repo.GetByID(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, "Site institucional", contract.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, cleanup := setupContractTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .+ FROM contracts`).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(contractColumns()))

		_, err := repo.GetByID(context.Background(), 3)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContractRepository_GetByTitle(t *testing.T) {
	now := time.Now()
	repo, mock, cleanup := setupContractTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows(contractColumns()).
		AddRow(3, "Site institucional", "ACME", 5000.0, "2024-03-01", "", now, now)
	mock.ExpectQuery(`SELECT .+ FROM contracts`).
		WithArgs("Site institucional").
		WillReturnRows(rows)

	contract, err := repo.GetByTitle(context.Background(), "Site institucional")

	require.NoError(t, err)
	assert.Equal(t, 3, contract.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepository_Update(t *testing.T) {
	newTitle := "Novo titulo"
	newPrice := 7500.0

	t.Run("partial update", func(t *testing.T) {
		repo, mock, cleanup := setupContractTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE contracts SET title = \?, price = \? WHERE id = \?`).
			WithArgs(newTitle, newPrice, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), 3, &models.ContractPatch{Title: &newTitle, Price: &newPrice})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching contract", func(t *testing.T) {
		repo, mock, cleanup := setupContractTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE contracts SET title = \? WHERE id = \?`).
			WithArgs(newTitle, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), 99, &models.ContractPatch{Title: &newTitle})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContractRepository_Delete(t *testing.T) {
	repo, mock, cleanup := setupContractTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM contracts WHERE id = \?`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 3)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
