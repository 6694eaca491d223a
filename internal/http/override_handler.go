package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/oncall-roster/internal/application"
	"github.com/example/oncall-roster/internal/definition"
)

type overrideService interface {
	CreateOverride(ctx context.Context, input application.OverrideInput) (application.Override, error)
	ListOverrides(ctx context.Context, rotationID string) ([]application.Override, error)
	DeleteOverride(ctx context.Context, rotationID, overrideID string) error
}

// OverrideHandler serves override exceptions attached to a rotation.
type OverrideHandler struct {
	service   overrideService
	responder responder
}

// NewOverrideHandler wires the override endpoints.
func NewOverrideHandler(service overrideService, logger *slog.Logger) *OverrideHandler {
	return &OverrideHandler{service: service, responder: newResponder(logger)}
}

type overrideRequest struct {
	User    string `json:"user"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

func (r overrideRequest) toInput() (application.OverrideInput, error) {
	input := application.OverrideInput{User: r.User}
	if strings.TrimSpace(r.StartAt) != "" {
		start, err := definition.ParseTime(r.StartAt)
		if err != nil {
			return application.OverrideInput{}, err
		}
		input.Start = start
	}
	if strings.TrimSpace(r.EndAt) != "" {
		end, err := definition.ParseTime(r.EndAt)
		if err != nil {
			return application.OverrideInput{}, err
		}
		input.End = end
	}
	return input, nil
}

type overrideResponse struct {
	ID         string `json:"id"`
	RotationID string `json:"rotation_id"`
	User       string `json:"user"`
	StartAt    string `json:"start_at"`
	EndAt      string `json:"end_at"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func toOverrideResponse(override application.Override) overrideResponse {
	return overrideResponse{
		ID:         override.ID,
		RotationID: override.RotationID,
		User:       override.User,
		StartAt:    formatInstant(override.Start),
		EndAt:      formatInstant(override.End),
		CreatedAt:  formatInstant(override.CreatedAt),
		UpdatedAt:  formatInstant(override.UpdatedAt),
	}
}

// Create handles POST /rotations/{id}/overrides.
func (h *OverrideHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotationID, ok := RotationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rotationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRotationID)
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	input.RotationID = rotationID

	override, err := h.service.CreateOverride(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toOverrideResponse(override))
}

// List handles GET /rotations/{id}/overrides.
func (h *OverrideHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotationID, ok := RotationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rotationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRotationID)
		return
	}

	overrides, err := h.service.ListOverrides(r.Context(), rotationID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]overrideResponse, 0, len(overrides))
	for _, override := range overrides {
		payload = append(payload, toOverrideResponse(override))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Delete handles DELETE /rotations/{id}/overrides/{overrideID}.
func (h *OverrideHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotationID, ok := RotationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rotationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRotationID)
		return
	}
	overrideID, ok := OverrideIDFromContext(r.Context())
	if !ok || strings.TrimSpace(overrideID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOverrideID)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), rotationID, overrideID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
