package middleware

import (
	"net/http"
	"slices"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
)

// CheckRole authorizes an already-authenticated identity against an
// allow-list of roles. It does not re-validate the credential.
func CheckRole(ident auth.Identity, allowed []models.Role) error {
	if !slices.Contains(allowed, ident.Role) {
		return apperrors.NotAuthorized("Voce não está autorizado a fazer isto")
	}
	return nil
}

// RequireRole gates a route on the authenticated identity's role. It must run
// strictly after Auth; a request that reaches it without an attached identity
// is rejected as unauthenticated, not as a role failure.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := GetIdentity(r.Context())
			if !ok {
				respondError(w, apperrors.NotAuthorized("Você precisa logar primeiro!"))
				return
			}

			if err := CheckRole(ident, allowed); err != nil {
				respondError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
