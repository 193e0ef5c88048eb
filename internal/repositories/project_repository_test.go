package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupProjectTestRepository creates a project repository with a mock database
func setupProjectTestRepository(t *testing.T) (*projectRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()
	repo := NewProjectRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func projectColumns() []string {
	return []string{"id", "name", "delivery_date", "contract_id", "created_at", "updated_at"}
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupProjectTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO projects`).
		WithArgs("Portal do cliente", "2024-12-01", 7).
		WillReturnResult(sqlmock.NewResult(4, 1))

	project := &models.Project{
		Name:         "Portal do cliente",
		DeliveryDate: "2024-12-01",
		ContractID:   7,
	}
	err := repo.Create(context.Background(), project)

	require.NoError(t, err)
	assert.Equal(t, 4, project.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetByID(t *testing.T) {
	now := time.Now()

	t.Run("success with members", func(t *testing.T) {
		repo, mock, cleanup := setupProjectTestRepository(t)
		defer cleanup()

		rows := sqlmock.NewRows(projectColumns()).
			AddRow(4, "Portal do cliente", "2024-12-01", 7, now, now)
		mock.ExpectQuery(`SELECT .+ FROM projects`).
			WithArgs(4).
			WillReturnRows(rows)

		memberRows := sqlmock.NewRows([]string{"email", "name"}).
			AddRow("a@ijunior.com.br", "A").
			AddRow("b@ijunior.com.br", "B")
		mock.ExpectQuery(`SELECT .+ FROM project_users`).
			WithArgs(4).
			WillReturnRows(memberRows)

		project, err := repo.GetByID(context.Background(), 4)

		require.NoError(t, err)
		assert.Equal(t, "Portal do cliente", project.Name)
		require.Len(t, project.Members, 2)
		assert.Equal(t, "a@ijunior.com.br", project.Members[0].Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, cleanup := setupProjectTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .+ FROM projects`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows(projectColumns()))

		_, err := repo.GetByID(context.Background(), 4)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_AddMembers(t *testing.T) {
	t.Run("multi-value insert", func(t *testing.T) {
		repo, mock, cleanup := setupProjectTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT IGNORE INTO project_users`).
			WithArgs(4, "a@ijunior.com.br", 4, "b@ijunior.com.br").
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.AddMembers(context.Background(), 4, []string{"a@ijunior.com.br", "b@ijunior.com.br"})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		repo, mock, cleanup := setupProjectTestRepository(t)
		defer cleanup()

		err := repo.AddMembers(context.Background(), 4, nil)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_RemoveMembers(t *testing.T) {
	repo, mock, cleanup := setupProjectTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM project_users WHERE project_id = \? AND user_email IN`).
		WithArgs(4, "a@ijunior.com.br").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RemoveMembers(context.Background(), 4, []string{"a@ijunior.com.br"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_SetMembers(t *testing.T) {
	repo, mock, cleanup := setupProjectTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM project_users WHERE project_id = \?`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT IGNORE INTO project_users`).
		WithArgs(4, "c@ijunior.com.br").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetMembers(context.Background(), 4, []string{"c@ijunior.com.br"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Update(t *testing.T) {
	newName := "Portal v2"
	contractID := 9

	repo, mock, cleanup := setupProjectTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE projects SET name = \?, contract_id = \? WHERE id = \?`).
		WithArgs(newName, contractID, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 4, &newName, nil, &contractID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	repo, mock, cleanup := setupProjectTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM projects WHERE id = \?`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 4)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
