package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"go.uber.org/zap"
)

// projectRepository implements project record storage, including the
// project-member association table
type projectRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB, logger *zap.Logger) *projectRepository {
	return &projectRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new project and sets its generated ID
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (name, delivery_date, contract_id)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, project.Name, project.DeliveryDate, project.ContractID)
	if err != nil {
		r.logger.Error("failed to create project", zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	project.ID = int(id)
	return nil
}

// GetByID retrieves a project with its members
func (r *projectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	query := `
		SELECT id, name, delivery_date, contract_id, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.DeliveryDate,
		&project.ContractID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get project by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get project by id: %w", err)
	}

	members, err := r.getMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Members = members

	return project, nil
}

// GetAll retrieves all projects with their members
func (r *projectRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	query := `
		SELECT id, name, delivery_date, contract_id, created_at, updated_at
		FROM projects
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.DeliveryDate, &p.ContractID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			r.logger.Error("failed to scan project row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}

	for i := range projects {
		members, err := r.getMembers(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Members = members
	}

	return projects, nil
}

// getMembers loads the member email+name pairs for a project
func (r *projectRepository) getMembers(ctx context.Context, projectID int) ([]models.ProjectMember, error) {
	query := `
		SELECT u.email, u.name
		FROM project_users pu
		JOIN users u ON u.email = pu.user_email
		WHERE pu.project_id = ?
		ORDER BY u.email
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		r.logger.Error("failed to list project members", zap.Error(err), zap.Int("project_id", projectID))
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer rows.Close()

	var members []models.ProjectMember
	for rows.Next() {
		var m models.ProjectMember
		if err := rows.Scan(&m.Email, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan project member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project member rows: %w", err)
	}

	return members, nil
}

// Update applies a partial update to a project. Nil patch fields are skipped;
// member changes go through AddMembers/RemoveMembers/SetMembers.
func (r *projectRepository) Update(ctx context.Context, id int, name, deliveryDate *string, contractID *int) error {
	var sets []string
	var args []any

	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if deliveryDate != nil {
		sets = append(sets, "delivery_date = ?")
		args = append(args, *deliveryDate)
	}
	if contractID != nil {
		sets = append(sets, "contract_id = ?")
		args = append(args, *contractID)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = ?", strings.Join(sets, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update project", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// AddMembers associates users with a project. Existing associations are kept.
func (r *projectRepository) AddMembers(ctx context.Context, projectID int, emails []string) error {
	if len(emails) == 0 {
		return nil
	}

	query := `INSERT IGNORE INTO project_users (project_id, user_email) VALUES `
	var placeholders []string
	var args []any
	for _, email := range emails {
		placeholders = append(placeholders, "(?, ?)")
		args = append(args, projectID, email)
	}
	query += strings.Join(placeholders, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to add project members", zap.Error(err), zap.Int("project_id", projectID))
		return fmt.Errorf("failed to add project members: %w", err)
	}

	return nil
}

// RemoveMembers removes user associations from a project
func (r *projectRepository) RemoveMembers(ctx context.Context, projectID int, emails []string) error {
	if len(emails) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(emails)), ", ")
	query := fmt.Sprintf("DELETE FROM project_users WHERE project_id = ? AND user_email IN (%s)", placeholders)

	args := make([]any, 0, len(emails)+1)
	args = append(args, projectID)
	for _, email := range emails {
		args = append(args, email)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to remove project members", zap.Error(err), zap.Int("project_id", projectID))
		return fmt.Errorf("failed to remove project members: %w", err)
	}

	return nil
}

// SetMembers replaces the member set of a project
func (r *projectRepository) SetMembers(ctx context.Context, projectID int, emails []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_users WHERE project_id = ?`, projectID); err != nil {
		r.logger.Error("failed to clear project members", zap.Error(err), zap.Int("project_id", projectID))
		return fmt.Errorf("failed to clear project members: %w", err)
	}

	return r.AddMembers(ctx, projectID, emails)
}

// Delete destroys a project record; the association rows cascade
func (r *projectRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM projects WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete project", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
