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

// contractRepository implements contract record storage
type contractRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *sql.DB, logger *zap.Logger) *contractRepository {
	return &contractRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new contract and sets its generated ID
func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (title, client_name, price, sold_at, file_url)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		contract.Title,
		contract.ClientName,
		contract.Price,
		contract.SoldAt,
		contract.FileURL,
	)
	if err != nil {
		r.logger.Error("failed to create contract", zap.Error(err))
		return fmt.Errorf("failed to create contract: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	contract.ID = int(id)
	return nil
}

// GetByID retrieves a contract by ID
func (r *contractRepository) GetByID(ctx context.Context, id int) (*models.Contract, error) {
	query := `
		SELECT id, title, client_name, price, sold_at, file_url, created_at, updated_at
		FROM contracts
		WHERE id = ?
	`

	contract := &models.Contract{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contract.ID,
		&contract.Title,
		&contract.ClientName,
		&contract.Price,
		&contract.SoldAt,
		&contract.FileURL,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get contract by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get contract by id: %w", err)
	}

	return contract, nil
}

// GetByTitle retrieves a contract by its unique title
func (r *contractRepository) GetByTitle(ctx context.Context, title string) (*models.Contract, error) {
	query := `
		SELECT id, title, client_name, price, sold_at, file_url, created_at, updated_at
		FROM contracts
		WHERE title = ?
	`

	contract := &models.Contract{}
	err := r.db.QueryRowContext(ctx, query, title).Scan(
		&contract.ID,
		&contract.Title,
		&contract.ClientName,
		&contract.Price,
		&contract.SoldAt,
		&contract.FileURL,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get contract by title", zap.Error(err), zap.String("title", title))
		return nil, fmt.Errorf("failed to get contract by title: %w", err)
	}

	return contract, nil
}

// GetAll retrieves all contracts
func (r *contractRepository) GetAll(ctx context.Context) ([]models.Contract, error) {
	query := `
		SELECT id, title, client_name, price, sold_at, file_url, created_at, updated_at
		FROM contracts
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list contracts", zap.Error(err))
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		var c models.Contract
		if err := rows.Scan(&c.ID, &c.Title, &c.ClientName, &c.Price, &c.SoldAt, &c.FileURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			r.logger.Error("failed to scan contract row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan contract row: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contract rows: %w", err)
	}

	return contracts, nil
}

// Update applies a partial update to a contract. Nil patch fields are skipped.
func (r *contractRepository) Update(ctx context.Context, id int, patch *models.ContractPatch) error {
	var sets []string
	var args []any

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.ClientName != nil {
		sets = append(sets, "client_name = ?")
		args = append(args, *patch.ClientName)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.SoldAt != nil {
		sets = append(sets, "sold_at = ?")
		args = append(args, *patch.SoldAt)
	}
	if patch.FileURL != nil {
		sets = append(sets, "file_url = ?")
		args = append(args, *patch.FileURL)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE contracts SET %s WHERE id = ?", strings.Join(sets, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update contract", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update contract: %w", err)
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

// Delete destroys a contract record
func (r *contractRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM contracts WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete contract", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete contract: %w", err)
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
