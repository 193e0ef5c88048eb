// Package handlers implements the HTTP boundary of the API
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAppError sends an error JSON response with the status mapped from the
// error's kind. Unclassified errors respond 500 with a generic message so
// internal detail never leaks to the client.
func (h *BaseHandler) RespondAppError(w http.ResponseWriter, err error) {
	status := apperrors.Status(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("internal error", zap.Error(err))
		h.RespondError(w, status, "internal server error")
		return
	}
	h.RespondError(w, status, err.Error())
}
