package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/auth"
	mw "github.com/Vipigal/ijunior-api-capacitacao/internal/auth/middleware"
	"github.com/Vipigal/ijunior-api-capacitacao/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContractService is the interface that wraps methods for contract business logic
type ContractService interface {
	CreateContract(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error)
	GetByID(ctx context.Context, id int) (*models.Contract, error)
	GetAll(ctx context.Context) ([]models.Contract, error)
	UpdateContract(ctx context.Context, id int, patch *models.ContractPatch) error
	RemoveContract(ctx context.Context, id int) error
}

// ContractHandler handles contract HTTP requests
type ContractHandler struct {
	BaseHandler
	contractService ContractService
	files           Uploader
	codec           *auth.TokenCodec
}

// NewContractHandler creates a new contract handler
func NewContractHandler(
	contractService ContractService,
	files Uploader,
	codec *auth.TokenCodec,
	logger *zap.Logger,
) *ContractHandler {
	return &ContractHandler{
		BaseHandler:     BaseHandler{Logger: logger},
		contractService: contractService,
		files:           files,
		codec:           codec,
	}
}

// RegisterRoutes registers all contract handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *ContractHandler) RegisterRoutes(r chi.Router) {
	authed := mw.Auth(h.codec)
	adminOnly := mw.RequireRole(models.RoleAdmin)
	adminOrMember := mw.RequireRole(models.RoleAdmin, models.RoleMember)

	r.Route("/contracts", func(r chi.Router) {
		r.Use(authed)
		r.With(adminOrMember).Get("/", h.GetAll)
		r.With(adminOrMember).Get("/{id}", h.GetByID)
		r.With(adminOrMember).Post("/", h.Create)
		r.With(adminOnly).Put("/{id}", h.Update)
		r.With(adminOnly).Delete("/{id}", h.Delete)
	})
}

// GetAll handles GET /contracts
// @Summary List contracts
// @Tags contracts
// @Produce json
// @Success 200 {array} models.Contract
// @Failure 400 {object} map[string]string "No contracts registered"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /contracts [get]
func (h *ContractHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.contractService.GetAll(r.Context())
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, contracts)
}

// GetByID handles GET /contracts/{id}
// @Summary Get a contract
// @Tags contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} models.Contract
// @Failure 400 {object} map[string]string "Contract not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	contract, err := h.contractService.GetByID(r.Context(), id)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, contract)
}

// Create handles POST /contracts
// @Summary Create a contract
// @Description Create a contract with a unique title. Accepts JSON or multipart form with an optional document.
// @Tags contracts
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body models.CreateContractRequest true "Contract data"
// @Success 201 {object} map[string]string "Contract created"
// @Failure 400 {object} map[string]string "Incomplete data or duplicate title"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /contracts [post]
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseCreateRequest(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if _, err := h.contractService.CreateContract(r.Context(), req); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("O contrato %s foi criado com sucesso!", req.Title),
	})
}

// Update handles PUT /contracts/{id}
// @Summary Update a contract
// @Description Partially update a contract. Admin only. Accepts JSON or multipart form with an optional document.
// @Tags contracts
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]string "Contract updated"
// @Failure 400 {object} map[string]string "Contract not found or duplicate title"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	patch, err := h.parsePatchRequest(r)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.contractService.UpdateContract(r.Context(), id, patch); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "O contrato foi alterado com sucesso!"})
}

// Delete handles DELETE /contracts/{id}
// @Summary Delete a contract
// @Description Destroy a contract and its stored document. Admin only.
// @Tags contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]string "Contract deleted"
// @Failure 400 {object} map[string]string "Contract not found"
// @Failure 403 {object} map[string]string "Not authorized"
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	if err := h.contractService.RemoveContract(r.Context(), id); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("O contrato de id %d foi deletado com sucesso!", id),
	})
}

// parseCreateRequest decodes a contract creation payload from JSON or a
// multipart form. A multipart "file" document is uploaded and its URL set.
func (h *ContractHandler) parseCreateRequest(r *http.Request) (*models.CreateContractRequest, error) {
	if !isMultipart(r) {
		var req models.CreateContractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, apperrors.InvalidParam("corpo da requisição inválido")
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		return nil, apperrors.InvalidParam("corpo da requisição inválido")
	}

	req := &models.CreateContractRequest{
		Title:      r.FormValue("title"),
		ClientName: r.FormValue("client_name"),
		SoldAt:     r.FormValue("sold_at"),
	}
	if price := r.FormValue("price"); price != "" {
		value, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return nil, apperrors.InvalidParam("o preço recebido não é um número válido!")
		}
		req.Price = value
	}

	fileURL, err := h.uploadFormFile(r)
	if err != nil {
		return nil, err
	}
	req.FileURL = fileURL

	return req, nil
}

// parsePatchRequest decodes a partial contract update from JSON or a
// multipart form. Absent form fields stay nil.
func (h *ContractHandler) parsePatchRequest(r *http.Request) (*models.ContractPatch, error) {
	if !isMultipart(r) {
		var patch models.ContractPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			return nil, apperrors.InvalidParam("corpo da requisição inválido")
		}
		return &patch, nil
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		return nil, apperrors.InvalidParam("corpo da requisição inválido")
	}

	patch := &models.ContractPatch{
		Title:      formString(r, "title"),
		ClientName: formString(r, "client_name"),
		SoldAt:     formString(r, "sold_at"),
	}
	if price := formString(r, "price"); price != nil {
		value, err := strconv.ParseFloat(*price, 64)
		if err != nil {
			return nil, apperrors.InvalidParam("o preço recebido não é um número válido!")
		}
		patch.Price = &value
	}

	fileURL, err := h.uploadFormFile(r)
	if err != nil {
		return nil, err
	}
	if fileURL != "" {
		patch.FileURL = &fileURL
	}

	return patch, nil
}

// uploadFormFile stores an optional "file" multipart document and returns its
// public URL. Returns an empty URL when no file was sent.
func (h *ContractHandler) uploadFormFile(r *http.Request) (string, error) {
	file, header, err := r.FormFile("file")
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

	return h.files.Upload(r.Context(), "contracts", header.Header.Get("Content-Type"), file)
}
