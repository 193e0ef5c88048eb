package services

import (
	"context"
	"errors"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/repositories"
	"go.uber.org/zap"
)

// sessionService authenticates credentials and issues session tokens
type sessionService struct {
	userRepo UserRepository
	hasher   *auth.PasswordHasher
	codec    *auth.TokenCodec
	logger   *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	userRepo UserRepository,
	hasher *auth.PasswordHasher,
	codec *auth.TokenCodec,
	logger *zap.Logger,
) *sessionService {
	return &sessionService{
		userRepo: userRepo,
		hasher:   hasher,
		codec:    codec,
		logger:   logger,
	}
}

// Login verifies the credential pair and returns a signed session token.
// Unknown account and wrong password are distinct failures.
func (s *sessionService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.NotAuthorized("Usuário incorreto!")
	}
	if err != nil {
		return "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", apperrors.NotAuthorized("Senha incorreta!")
	}

	token, err := s.codec.Sign(auth.Identity{Email: user.Email, Role: user.Role})
	if err != nil {
		s.logger.Error("failed to sign session token", zap.Error(err), zap.String("email", email))
		return "", err
	}

	return token, nil
}
