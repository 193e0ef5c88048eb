// Package middleware implements the session middleware chain: credential
// extraction from the session cookie, identity attachment, the pre-login
// guard, and the role gate.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
)

// SessionCookieName is the HTTP-only cookie carrying the signed session credential
const SessionCookieName = "jwt"

type contextKey string

const identityKey contextKey = "identity"

// ExtractCredential reads the session credential from the request cookie.
// Returns an empty string when no credential is present.
func ExtractCredential(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Auth validates the session credential and attaches the decoded identity to
// the request context. A missing cookie and a failed decode collapse to the
// same outcome: the request proceeds with no identity and is rejected here.
func Auth(codec *auth.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractCredential(r)
			if token == "" {
				respondError(w, apperrors.NotAuthorized("Você precisa logar primeiro!"))
				return
			}

			ident, err := codec.Verify(token)
			if err != nil {
				// Expired or tampered credential: same rejection as no credential
				respondError(w, apperrors.NotAuthorized("Você precisa logar primeiro!"))
				return
			}

			ctx := WithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CheckIfLoggedIn is the pre-login guard: it rejects requests that already
// carry a session credential, preventing double login.
func CheckIfLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ExtractCredential(r) != "" {
			respondError(w, apperrors.InvalidParam("Você já está logado no sistema!"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a context carrying the authenticated identity
func WithIdentity(ctx context.Context, ident auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// GetIdentity retrieves the authenticated identity from the context.
// The second return is false when no identity was attached.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(auth.Identity)
	return ident, ok
}

// respondError writes the error message with the status its kind maps to
func respondError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.Status(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
