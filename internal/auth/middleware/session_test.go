package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	expiredCodec := auth.NewTokenCodec("test-secret", -time.Minute)

	validToken, err := codec.Sign(auth.Identity{Email: "a@x.com", Role: models.RoleMember})
	require.NoError(t, err)
	expiredToken, err := expiredCodec.Sign(auth.Identity{Email: "a@x.com", Role: models.RoleMember})
	require.NoError(t, err)

	tests := []struct {
		name           string
		cookie         *http.Cookie
		expectedStatus int
	}{
		{
			name:           "valid credential",
			cookie:         &http.Cookie{Name: SessionCookieName, Value: validToken},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no credential",
			cookie:         nil,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "expired credential",
			cookie:         &http.Cookie{Name: SessionCookieName, Value: expiredToken},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "tampered credential",
			cookie:         &http.Cookie{Name: SessionCookieName, Value: validToken + "x"},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIdentity *auth.Identity
			handler := Auth(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ident, ok := GetIdentity(r.Context()); ok {
					gotIdentity = &ident
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, gotIdentity)
				assert.Equal(t, "a@x.com", gotIdentity.Email)
				assert.Equal(t, models.RoleMember, gotIdentity.Role)
			} else {
				assert.Nil(t, gotIdentity)
				assert.Contains(t, rec.Body.String(), "Você precisa logar primeiro!")
			}
		})
	}
}

func TestCheckIfLoggedIn(t *testing.T) {
	tests := []struct {
		name           string
		cookie         *http.Cookie
		expectedStatus int
	}{
		{
			name:           "no session",
			cookie:         nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "already logged in",
			cookie:         &http.Cookie{Name: SessionCookieName, Value: "some-token"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CheckIfLoggedIn(okHandler(t))

			req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, rec.Body.String(), "Você já está logado no sistema!")
			}
		})
	}
}

func TestExtractCredential(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractCredential(req))

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc"})
	assert.Equal(t, "abc", ExtractCredential(req))
}
