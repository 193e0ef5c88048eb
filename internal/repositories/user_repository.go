// Package repositories implements data access over database/sql (MySQL)
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

// userRepository implements user record storage
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, birth_date, phone, photo_url, role, reset_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.BirthDate,
		user.Phone,
		user.PhotoURL,
		user.Role,
		models.ResetTokenUnset,
	)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves the full user record by its primary key
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT email, name, password_hash, birth_date, phone, photo_url, role, reset_token, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.BirthDate,
		&user.Phone,
		&user.PhotoURL,
		&user.Role,
		&user.ResetToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByResetToken retrieves a user by an active password-reset ticket.
// The unset sentinel never matches.
func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT email, name, password_hash, birth_date, phone, photo_url, role, reset_token, created_at, updated_at
		FROM users
		WHERE reset_token = ? AND reset_token != ?
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, token, models.ResetTokenUnset).Scan(
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.BirthDate,
		&user.Phone,
		&user.PhotoURL,
		&user.Role,
		&user.ResetToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by reset token", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// GetAll retrieves all user projections. PasswordHash and ResetToken are
// excluded at the query level.
func (r *userRepository) GetAll(ctx context.Context) ([]models.UserProjection, error) {
	query := `
		SELECT email, name, birth_date, phone, photo_url, role
		FROM users
		ORDER BY email
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.UserProjection
	for rows.Next() {
		var u models.UserProjection
		if err := rows.Scan(&u.Email, &u.Name, &u.BirthDate, &u.Phone, &u.PhotoURL, &u.Role); err != nil {
			r.logger.Error("failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// Update applies a partial update to a user. Nil patch fields are skipped.
// The Password field is expected to carry the bcrypt digest by the time it
// reaches the repository.
func (r *userRepository) Update(ctx context.Context, email string, patch *models.UserPatch) error {
	var sets []string
	var args []any

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Password != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *patch.Password)
	}
	if patch.BirthDate != nil {
		sets = append(sets, "birth_date = ?")
		args = append(args, *patch.BirthDate)
	}
	if patch.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *patch.Phone)
	}
	if patch.PhotoURL != nil {
		sets = append(sets, "photo_url = ?")
		args = append(args, *patch.PhotoURL)
	}
	if patch.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *patch.Role)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE email = ?", strings.Join(sets, ", "))
	args = append(args, email)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to update user: %w", err)
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

// UpdatePasswordHash replaces the password hash for a user
func (r *userRepository) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE email = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		r.logger.Error("failed to update password hash", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to update password hash: %w", err)
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

// UpdateRole replaces the role for a user
func (r *userRepository) UpdateRole(ctx context.Context, email string, role models.Role) error {
	query := `UPDATE users SET role = ? WHERE email = ?`

	result, err := r.db.ExecContext(ctx, query, role, email)
	if err != nil {
		r.logger.Error("failed to update role", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to update role: %w", err)
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

// UpdateResetToken replaces the password-reset ticket for a user
func (r *userRepository) UpdateResetToken(ctx context.Context, email, token string) error {
	query := `UPDATE users SET reset_token = ? WHERE email = ?`

	result, err := r.db.ExecContext(ctx, query, token, email)
	if err != nil {
		r.logger.Error("failed to update reset token", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to update reset token: %w", err)
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

// Delete destroys a user record
func (r *userRepository) Delete(ctx context.Context, email string) error {
	query := `DELETE FROM users WHERE email = ?`

	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to delete user: %w", err)
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
