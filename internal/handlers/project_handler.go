package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	mw "github.com/Vipigal/ijunior-api-capacitacao/internal/auth/middleware"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProjectService is the interface that wraps methods for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id int) (*models.Project, error)
	GetAll(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, id int, patch *models.ProjectPatch) error
	AddMembers(ctx context.Context, id int, emails []string) error
	RemoveMembers(ctx context.Context, id int, emails []string) error
	RemoveProject(ctx context.Context, id int) error
}

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	BaseHandler
	projectService ProjectService
	codec          *auth.TokenCodec
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ProjectService, codec *auth.TokenCodec, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		projectService: projectService,
		codec:          codec,
	}
}

// RegisterRoutes registers all project handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	authed := mw.Auth(h.codec)
	anyActive := mw.RequireRole(models.RoleAdmin, models.RoleMember, models.RoleTrainee)
	adminOrMember := mw.RequireRole(models.RoleAdmin, models.RoleMember)

	r.Route("/projects", func(r chi.Router) {
		r.Use(authed)
		r.With(anyActive).Get("/", h.GetAll)
		r.With(anyActive).Get("/{id}", h.GetByID)
		r.With(adminOrMember).Post("/", h.Create)
		r.With(adminOrMember).Put("/user/{project_id}", h.AddMembers)
		r.With(adminOrMember).Delete("/user/{project_id}", h.RemoveMembers)
		r.With(adminOrMember).Put("/{id}", h.Update)
		r.With(adminOrMember).Delete("/{id}", h.Delete)
	})
}

// GetAll handles GET /projects
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {array} models.Project
// @Failure 400 {object} map[string]string "No projects registered"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /projects [get]
func (h *ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.GetAll(r.Context())
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, projects)
}

// GetByID handles GET /projects/{id}
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 400 {object} map[string]string "Project not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, project)
}

// Create handles POST /projects
// @Summary Create a project
// @Description Create a project bound to an existing contract, resolved by title, with an initial developer team.
// @Tags projects
// @Accept json
// @Produce json
// @Param request body models.CreateProjectRequest true "Project data"
// @Success 201 {object} map[string]string "Project created"
// @Failure 400 {object} map[string]string "Incomplete data or unknown contract"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.projectService.CreateProject(r.Context(), &req); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("O projeto %s foi criado com sucesso!", req.Name),
	})
}

// Update handles PUT /projects/{id}
// @Summary Update a project
// @Description Partially update a project. A developer list replaces the member set; a contract title re-binds the contract.
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]string "Project updated"
// @Failure 400 {object} map[string]string "Project or contract not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	var patch models.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.projectService.UpdateProject(r.Context(), id, &patch); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "O projeto foi alterado com sucesso!"})
}

// membersRequest carries the developer emails for team mutations
type membersRequest struct {
	Users []string `json:"users"`
}

// AddMembers handles PUT /projects/user/{project_id}
// @Summary Add developers to a project
// @Tags projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body membersRequest true "Developer emails"
// @Success 200 {object} map[string]string "Developers added"
// @Failure 400 {object} map[string]string "Project not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /projects/user/{project_id} [put]
func (h *ProjectHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "project_id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	var req membersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.projectService.AddMembers(r.Context(), id, req.Users); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("O(s) usuário(s) de email %s foi(foram) adicionado(s) com sucesso", strings.Join(req.Users, ",")),
	})
}

// RemoveMembers handles DELETE /projects/user/{project_id}
// @Summary Remove developers from a project
// @Tags projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body membersRequest true "Developer emails"
// @Success 200 {object} map[string]string "Developers removed"
// @Failure 400 {object} map[string]string "Project not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /projects/user/{project_id} [delete]
func (h *ProjectHandler) RemoveMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "project_id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	var req membersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.projectService.RemoveMembers(r.Context(), id, req.Users); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("O(s) usuário(s) de email %s foi(foram) deletado(s) com sucesso", strings.Join(req.Users, ",")),
	})
}

// Delete handles DELETE /projects/{id}
// @Summary Delete a project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]string "Project deleted"
// @Failure 400 {object} map[string]string "Project not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.projectService.RemoveProject(r.Context(), id); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("O projeto de id %d foi deletado com sucesso!", id),
	})
}

func pathInt(r *http.Request, key string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0, apperrors.InvalidParam("o id recebido não é um número válido!")
	}
	return id, nil
}
