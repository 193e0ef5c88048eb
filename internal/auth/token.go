// Package auth provides the credential primitives of the service: the signed
// session token codec, the password hasher, and the password-reset token
// generator.
package auth

import (
	"fmt"
	"time"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the decoded content of a session credential: who the caller is
// and which role they held at login time. It is attached to the request context
// by the session middleware and never re-fetched during the request.
type Identity struct {
	Email string
	Role  models.Role
}

// TokenCodec signs and verifies session tokens
type TokenCodec struct {
	secret string
	expiry time.Duration
}

// NewTokenCodec creates a token codec with a process-wide secret and lifetime
func NewTokenCodec(secret string, expiry time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: secret,
		expiry: expiry,
	}
}

// Sign produces a compact signed token embedding the identity and an expiry
func (c *TokenCodec) Sign(ident Identity) (string, error) {
	claims := jwt.MapClaims{
		"email": ident.Email,
		"role":  string(ident.Role),
		"exp":   time.Now().Add(c.expiry).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(c.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify validates a token and returns the embedded identity.
// Any failure (bad signature, expiry, malformed claims, unexpected signing
// method) yields an InvalidCredential error; Verify never fails open.
func (c *TokenCodec) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(c.secret), nil
	})

	if err != nil {
		return Identity{}, apperrors.InvalidCredential("token inválido ou expirado")
	}

	if !token.Valid {
		return Identity{}, apperrors.InvalidCredential("token inválido ou expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperrors.InvalidCredential("token inválido ou expirado")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Identity{}, apperrors.InvalidCredential("token inválido ou expirado")
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return Identity{}, apperrors.InvalidCredential("token inválido ou expirado")
	}

	role := models.Role(roleStr)
	if !role.Valid() {
		return Identity{}, apperrors.InvalidCredential("token inválido ou expirado")
	}

	return Identity{Email: email, Role: role}, nil
}
