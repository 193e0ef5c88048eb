package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	mw "github.com/Vipigal/ijunior-api-capacitacao/internal/auth/middleware"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionService is the interface that wraps methods for session business logic
type SessionService interface {
	// Login verifies the credential pair and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, error)
}

// UserService is the interface that wraps methods for user lifecycle business logic
type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) error
	CreateAdminUser(ctx context.Context, req *models.CreateUserRequest) error
	ApproveUser(ctx context.Context, email string, newRole models.Role) error
	Update(ctx context.Context, email string, patch *models.UserPatch, actingIdentity auth.Identity) error
	ChangePassword(ctx context.Context, email, newPassword string) error
	SendResetToken(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	RemoveUser(ctx context.Context, email string) error
	GetAll(ctx context.Context) ([]models.UserProjection, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProjection, error)
}

// Uploader stores an uploaded file and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, folder, contentType string, body io.Reader) (string, error)
}

// UserHandler handles user and session HTTP requests
type UserHandler struct {
	BaseHandler
	userService    UserService
	sessionService SessionService
	files          Uploader
	codec          *auth.TokenCodec
	cookieMaxAge   int
}

// NewUserHandler creates a new user handler. files may be nil when object
// storage is not configured; photo uploads are then rejected.
func NewUserHandler(
	userService UserService,
	sessionService SessionService,
	files Uploader,
	codec *auth.TokenCodec,
	cookieMaxAge int,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		userService:    userService,
		sessionService: sessionService,
		files:          files,
		codec:          codec,
		cookieMaxAge:   cookieMaxAge,
	}
}

// RegisterRoutes registers all user handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	authed := mw.Auth(h.codec)
	adminOnly := mw.RequireRole(models.RoleAdmin)
	adminOrMember := mw.RequireRole(models.RoleAdmin, models.RoleMember)

	r.Route("/users", func(r chi.Router) {
		r.With(mw.CheckIfLoggedIn).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/", h.Create)
		r.Post("/forgotPassword", h.ForgotPassword)
		r.Put("/resetPassword", h.ResetPassword)

		r.With(authed, adminOnly).Post("/admin", h.CreateAdmin)
		r.With(authed, adminOrMember).Get("/", h.GetAll)
		r.With(authed).Get("/myAccount", h.MyAccount)
		r.With(authed).Put("/myAccount", h.UpdateMyAccount)
		r.With(authed).Put("/password", h.ChangePassword)
		r.With(authed, adminOnly).Put("/approve", h.Approve)
		r.With(authed, adminOrMember).Get("/{email}", h.GetByEmail)
		r.With(authed, adminOnly).Put("/{email}", h.Update)
		r.With(authed, adminOnly).Delete("/{email}", h.Delete)
	})
}

// Login handles POST /users/login
// @Summary Login
// @Description Authenticate with email and password. Sets the session token as an HTTP-only cookie.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} map[string]string "Login successful"
// @Failure 403 {object} map[string]string "Invalid credentials"
// @Router /users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.sessionService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Login bem sucedido!"})
}

// Logout handles POST /users/logout
// @Summary Logout
// @Description Clear the session cookie. Fails when no session cookie is present.
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Failure 404 {object} map[string]string "No active session"
// @Router /users/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if mw.ExtractCredential(r) == "" {
		h.RespondAppError(w, apperrors.Token("Você não está logado no sistema!"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Logout bem sucedido!"})
}

// Create handles POST /users
// @Summary Create a user
// @Description Create a new account in the PENDING role. Accepts JSON or multipart form with an optional photo.
// @Tags users
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body models.CreateUserRequest true "User data"
// @Success 201 {object} map[string]string "User created"
// @Failure 400 {object} map[string]string "Incomplete data or duplicate email"
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseCreateRequest(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.userService.CreateUser(r.Context(), req); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("O usuario %s foi criado com sucesso!", req.Name),
	})
}

// CreateAdmin handles POST /users/admin
// @Summary Create an admin user
// @Description Create a new account directly in the ADMIN role. Admin only.
// @Tags users
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body models.CreateUserRequest true "User data"
// @Success 201 {object} map[string]string "Admin user created"
// @Failure 400 {object} map[string]string "Incomplete data or duplicate email"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /users/admin [post]
func (h *UserHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseCreateRequest(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.userService.CreateAdminUser(r.Context(), req); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("O usuario administrador %s foi criado com sucesso!", req.Name),
	})
}

// GetAll handles GET /users
// @Summary List users
// @Description List every registered user. Password hash and reset token are never included.
// @Tags users
// @Produce json
// @Success 200 {array} models.UserProjection
// @Failure 400 {object} map[string]string "No users registered"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /users [get]
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAll(r.Context())
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// MyAccount handles GET /users/myAccount
// @Summary Get own account
// @Description Return the account of the logged-in user.
// @Tags users
// @Produce json
// @Success 200 {object} models.UserProjection
// @Failure 403 {object} map[string]string "Not authenticated"
// @Router /users/myAccount [get]
func (h *UserHandler) MyAccount(w http.ResponseWriter, r *http.Request) {
	ident, ok := mw.GetIdentity(r.Context())
	if !ok {
		h.RespondAppError(w, apperrors.NotAuthorized("Você precisa logar primeiro!"))
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), ident.Email)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// GetByEmail handles GET /users/{email}
// @Summary Get a user
// @Description Return a single user by email.
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} models.UserProjection
// @Failure 400 {object} map[string]string "User not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /users/{email} [get]
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// ForgotPassword handles POST /users/forgotPassword
// @Summary Request a password reset
// @Description Issue a password-reset token and send it to the user's email.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Account email"
// @Success 200 {object} map[string]string "Token sent"
// @Failure 400 {object} map[string]string "User not found"
// @Router /users/forgotPassword [post]
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.userService.SendResetToken(r.Context(), req.Email); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("O token foi enviado para o email %s com sucesso!", req.Email),
	})
}

// ResetPassword handles PUT /users/resetPassword
// @Summary Reset password with a token
// @Description Redeem a reset token and set a new password. The token is consumed.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{token=string,password=string} true "Reset token and new password"
// @Success 202 {object} map[string]string "Password changed"
// @Failure 400 {object} map[string]string "Unknown token"
// @Router /users/resetPassword [put]
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusAccepted, map[string]string{"message": "Senha alterada com sucesso"})
}

// ChangePassword handles PUT /users/password
// @Summary Change password
// @Description Change a password without a reset token. Requires an active session.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Account email and new password"
// @Success 200 {object} map[string]string "Password changed"
// @Failure 400 {object} map[string]string "Same password or user not found"
// @Router /users/password [put]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), req.Email, req.Password); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Senha alterada com sucesso"})
}

// Approve handles PUT /users/approve
// @Summary Approve a pending user
// @Description Move a PENDING user to its assigned role. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{email=string,role=string} true "User email and new role"
// @Success 200 {object} map[string]string "User approved"
// @Failure 400 {object} map[string]string "Unknown user, role, or user already approved"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /users/approve [put]
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string      `json:"email"`
		Role  models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.ApproveUser(r.Context(), req.Email, req.Role); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "O usuario foi aprovado com sucesso"})
}

// UpdateMyAccount handles PUT /users/myAccount
// @Summary Update own account
// @Description Partially update the logged-in user's account. Accepts JSON or multipart form with an optional photo.
// @Tags users
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]string "Account updated"
// @Failure 400 {object} map[string]string "Email change rejected"
// @Failure 403 {object} map[string]string "Role change rejected"
// @Router /users/myAccount [put]
func (h *UserHandler) UpdateMyAccount(w http.ResponseWriter, r *http.Request) {
	ident, ok := mw.GetIdentity(r.Context())
	if !ok {
		h.RespondAppError(w, apperrors.NotAuthorized("Você precisa logar primeiro!"))
		return
	}

	patch, err := h.parsePatchRequest(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.userService.Update(r.Context(), ident.Email, patch, ident); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Sua conta foi alterada com sucesso!"})
}

// Update handles PUT /users/{email}
// @Summary Update a user
// @Description Partially update any user. Admin only.
// @Tags users
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} map[string]string "User updated"
// @Failure 400 {object} map[string]string "User not found or email change rejected"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /users/{email} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := mw.GetIdentity(r.Context())
	if !ok {
		h.RespondAppError(w, apperrors.NotAuthorized("Você precisa logar primeiro!"))
		return
	}

	patch, err := h.parsePatchRequest(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	email := chi.URLParam(r, "email")
	if err := h.userService.Update(r.Context(), email, patch, ident); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "O usuario foi alterado com sucesso!"})
}

// Delete handles DELETE /users/{email}
// @Summary Delete a user
// @Description Destroy a user record. Admin only.
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} map[string]string "User deleted"
// @Failure 400 {object} map[string]string "User not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /users/{email} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.userService.RemoveUser(r.Context(), email); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("O usuario %s foi deletado com sucesso!", email),
	})
}

// parseCreateRequest decodes a user creation payload from JSON or a multipart
// form. A multipart "photo" file is uploaded and its URL set on the request.
func (h *UserHandler) parseCreateRequest(r *http.Request) (*models.CreateUserRequest, error) {
	if !isMultipart(r) {
		var req models.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, apperrors.InvalidParam("corpo da requisição inválido")
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		return nil, apperrors.InvalidParam("corpo da requisição inválido")
	}

	req := &models.CreateUserRequest{
		Email:     r.FormValue("email"),
		Name:      r.FormValue("name"),
		Password:  r.FormValue("password"),
		BirthDate: r.FormValue("birth_date"),
		Phone:     r.FormValue("phone"),
	}

	photoURL, err := h.uploadFormPhoto(r)
	if err != nil {
		return nil, err
	}
	req.PhotoURL = photoURL

	return req, nil
}

// parsePatchRequest decodes a partial user update from JSON or a multipart
// form. Absent form fields stay nil so the repository leaves them unchanged.
func (h *UserHandler) parsePatchRequest(r *http.Request) (*models.UserPatch, error) {
	if !isMultipart(r) {
		var patch models.UserPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			return nil, apperrors.InvalidParam("corpo da requisição inválido")
		}
		return &patch, nil
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		return nil, apperrors.InvalidParam("corpo da requisição inválido")
	}

	patch := &models.UserPatch{
		Email:     formString(r, "email"),
		Name:      formString(r, "name"),
		Password:  formString(r, "password"),
		BirthDate: formString(r, "birth_date"),
		Phone:     formString(r, "phone"),
	}
	if role := formString(r, "role"); role != nil {
		roleValue := models.Role(*role)
		patch.Role = &roleValue
	}

	photoURL, err := h.uploadFormPhoto(r)
	if err != nil {
		return nil, err
	}
	if photoURL != "" {
		patch.PhotoURL = &photoURL
	}

	return patch, nil
}

// uploadFormPhoto stores an optional "photo" multipart file and returns its
// public URL. Returns an empty URL when no file was sent.
func (h *UserHandler) uploadFormPhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", apperrors.InvalidParam("não foi possível processar o arquivo enviado")
	}
	defer file.Close()

	if h.files == nil {
		return "", fmt.Errorf("file storage is not configured")
	}

	return h.files.Upload(r.Context(), "users", header.Header.Get("Content-Type"), file)
}

// formString returns a pointer to a form value, or nil when the field is absent
func formString(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
