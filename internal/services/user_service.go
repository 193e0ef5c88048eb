// Package services implements the business logic of the application
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/repositories"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for user record data access
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail retrieves the full user record by its primary key.
	// Returns repositories.ErrNotFound when no such user exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByResetToken retrieves a user by an active password-reset ticket.
	// Returns repositories.ErrNotFound when no record matches.
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	// ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// GetAll retrieves all user projections (password hash and reset token excluded).
	GetAll(ctx context.Context) ([]models.UserProjection, error)
	// Update applies a partial update. Returns repositories.ErrNotFound when
	// the user does not exist.
	Update(ctx context.Context, email string, patch *models.UserPatch) error
	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, email, passwordHash string) error
	// UpdateRole replaces the stored role.
	UpdateRole(ctx context.Context, email string, role models.Role) error
	// UpdateResetToken replaces the stored password-reset ticket.
	UpdateResetToken(ctx context.Context, email, token string) error
	// Delete destroys the user record.
	Delete(ctx context.Context, email string) error
}

// Notifier is the external notification collaborator used to deliver
// password-reset tickets
type Notifier interface {
	Send(to, subject, body string) error
}

// userService owns the user lifecycle: creation, approval, updates,
// password changes, and reset-ticket issuance/redemption
type userService struct {
	userRepo UserRepository
	hasher   *auth.PasswordHasher
	notifier Notifier
	logger   *zap.Logger
}

// NewUserService creates a new user lifecycle service
func NewUserService(
	userRepo UserRepository,
	hasher *auth.PasswordHasher,
	notifier Notifier,
	logger *zap.Logger,
) *userService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateUser creates a new account in the PENDING role
func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.BirthDate == "" {
		return apperrors.InvalidParam("Características de usuário incompletas!")
	}

	return s.createWithRole(ctx, req, models.RolePending)
}

// CreateAdminUser creates a new account directly in the ADMIN role
func (s *userService) CreateAdminUser(ctx context.Context, req *models.CreateUserRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.BirthDate == "" {
		return apperrors.InvalidParam("Caracteristicas de usuário incompletas")
	}

	return s.createWithRole(ctx, req, models.RoleAdmin)
}

func (s *userService) createWithRole(ctx context.Context, req *models.CreateUserRequest, role models.Role) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.InvalidParam("E-mail já registrado!")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		BirthDate:    req.BirthDate,
		Phone:        req.Phone,
		PhotoURL:     req.PhotoURL,
		Role:         role,
		ResetToken:   models.ResetTokenUnset,
	}

	return s.userRepo.Create(ctx, user)
}

// ApproveUser moves a PENDING user to its assigned role. PENDING is a one-way
// gate: a user that already left it cannot be approved again.
func (s *userService) ApproveUser(ctx context.Context, email string, newRole models.Role) error {
	pendingUser, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Usuario nao encontrado")
	}
	if err != nil {
		return err
	}

	if pendingUser.Role != models.RolePending {
		return apperrors.InvalidRoute("Esse usuario ja foi aprovado")
	}

	if !newRole.Valid() {
		return apperrors.InvalidParam("O cargo selecionado nao faz parte dos cargos registrados no sistema!")
	}

	return s.userRepo.UpdateRole(ctx, email, newRole)
}

// Update applies a partial update to a user on behalf of actingIdentity.
// Checks run in a fixed order; the first failing check wins:
// target existence, edit permission, email immutability, role-change permission.
func (s *userService) Update(ctx context.Context, email string, patch *models.UserPatch, actingIdentity auth.Identity) error {
	originalUser, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return err
	}

	if actingIdentity.Role != models.RoleAdmin && actingIdentity.Email != email {
		return apperrors.Permission("Você não tem permissão para editar informações de outro usuário!")
	}

	if patch.Email != nil && *patch.Email != originalUser.Email {
		return apperrors.InvalidParam("Você não pode alterar seu próprio email!")
	}

	if patch.Role != nil && *patch.Role != originalUser.Role && actingIdentity.Role != models.RoleAdmin {
		return apperrors.Permission("Você não pode alterar um cargo se não for um administrador!")
	}

	if patch.Password != nil {
		passwordHash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		patch.Password = &passwordHash
	}

	return s.userRepo.Update(ctx, email, patch)
}

// ChangePassword replaces a user's password. The new password must differ
// from the current one, compared through the hasher.
func (s *userService) ChangePassword(ctx context.Context, email, newPassword string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Usuário não encontrado!")
	}
	if err != nil {
		return err
	}

	if s.hasher.Verify(newPassword, user.PasswordHash) {
		return apperrors.InvalidParam("A senha nova não pode ser igual a anterior!")
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePasswordHash(ctx, email, passwordHash)
}

// SendResetToken issues a password-reset ticket, persists it on the record,
// and dispatches it through the notification collaborator. A new call
// overwrites a prior unredeemed ticket. The ticket is returned for
// testability; external callers only ever see it by email.
func (s *userService) SendResetToken(ctx context.Context, email string) (string, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.NotFound("Usuario nao encontrado")
	}
	if err != nil {
		return "", err
	}

	token, err := auth.NewResetToken(auth.ResetTokenLength)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateResetToken(ctx, email, token); err != nil {
		return "", err
	}

	// Dispatch is fire-and-forget: a delivery failure is logged, not surfaced,
	// so the ticket stays redeemable once the mail eventually arrives.
	go func() {
		body := fmt.Sprintf("Your token is: %s", token)
		if err := s.notifier.Send(email, "Password reset", body); err != nil {
			s.logger.Warn("failed to send reset token email", zap.String("email", email), zap.Error(err))
		}
	}()

	return token, nil
}

// RedeemResetToken looks up the user holding an active reset ticket
func (s *userService) RedeemResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" || token == models.ResetTokenUnset {
		return nil, apperrors.NotFound("Token nao encontrado")
	}

	user, err := s.userRepo.GetByResetToken(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Token nao encontrado")
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ResetPassword redeems a ticket, changes the password, and consumes the
// ticket by resetting it to the unset sentinel
func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.RedeemResetToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.ChangePassword(ctx, user.Email, newPassword); err != nil {
		return err
	}

	return s.userRepo.UpdateResetToken(ctx, user.Email, models.ResetTokenUnset)
}

// RemoveUser destroys a user record
func (s *userService) RemoveUser(ctx context.Context, email string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return err
	}

	return s.userRepo.Delete(ctx, email)
}

// GetAll returns projections of every user. An empty store is a query-level
// error, not an empty success.
func (s *userService) GetAll(ctx context.Context) ([]models.UserProjection, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, apperrors.NotFound("Nao ha usuarios cadastrados")
	}

	return users, nil
}

// GetByEmail returns the projection of a single user
func (s *userService) GetByEmail(ctx context.Context, email string) (*models.UserProjection, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return nil, err
	}

	return &models.UserProjection{
		Email:     user.Email,
		Name:      user.Name,
		BirthDate: user.BirthDate,
		Phone:     user.Phone,
		PhotoURL:  user.PhotoURL,
		Role:      user.Role,
	}, nil
}
