package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/oncall-roster/internal/application"
	"github.com/example/oncall-roster/internal/definition"
)

type rosterService interface {
	CreateRotation(ctx context.Context, input application.RotationInput) (application.Rotation, error)
	GetRotation(ctx context.Context, id string) (application.Rotation, error)
	ListRotations(ctx context.Context) ([]application.Rotation, error)
	UpdateRotation(ctx context.Context, id string, input application.RotationInput) (application.Rotation, error)
	DeleteRotation(ctx context.Context, id string) error
	RenderTimeline(ctx context.Context, params application.RenderTimelineParams) (application.Timeline, error)
}

// RotationHandler serves rotation definitions and rendered timelines.
type RotationHandler struct {
	service   rosterService
	responder responder
}

// NewRotationHandler wires the rotation endpoints.
func NewRotationHandler(service rosterService, logger *slog.Logger) *RotationHandler {
	return &RotationHandler{service: service, responder: newResponder(logger)}
}

// rotationRequest mirrors the wire representation of a rotation definition.
type rotationRequest struct {
	Name                 string   `json:"name"`
	Users                []string `json:"users"`
	HandoverStartAt      string   `json:"handover_start_at"`
	HandoverIntervalDays int      `json:"handover_interval_days"`
}

func (r rotationRequest) toInput() (application.RotationInput, error) {
	input := application.RotationInput{
		Name:         r.Name,
		Users:        r.Users,
		IntervalDays: r.HandoverIntervalDays,
	}
	if strings.TrimSpace(r.HandoverStartAt) != "" {
		anchor, err := definition.ParseTime(r.HandoverStartAt)
		if err != nil {
			return application.RotationInput{}, err
		}
		input.Anchor = anchor
	}
	return input, nil
}

type rotationResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Users                []string `json:"users"`
	HandoverStartAt      string   `json:"handover_start_at"`
	HandoverIntervalDays int      `json:"handover_interval_days"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

func toRotationResponse(rotation application.Rotation) rotationResponse {
	return rotationResponse{
		ID:                   rotation.ID,
		Name:                 rotation.Name,
		Users:                rotation.Users,
		HandoverStartAt:      formatInstant(rotation.Anchor),
		HandoverIntervalDays: rotation.IntervalDays,
		CreatedAt:            formatInstant(rotation.CreatedAt),
		UpdatedAt:            formatInstant(rotation.UpdatedAt),
	}
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Create handles POST /rotations.
func (h *RotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req rotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	rotation, err := h.service.CreateRotation(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRotationResponse(rotation))
}

// Get handles GET /rotations/{id}.
func (h *RotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotationID, ok := RotationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rotationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRotationID)
		return
	}

	rotation, err := h.service.GetRotation(r.Context(), rotationID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRotationResponse(rotation))
}

// List handles GET /rotations.
func (h *RotationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotations, err := h.service.ListRotations(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]rotationResponse, 0, len(rotations))
	for _, rotation := range rotations {
		payload = append(payload, toRotationResponse(rotation))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Update handles PUT /rotations/{id}.
func (h *RotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotationID, ok := RotationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rotationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRotationID)
		return
	}

	var req rotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	rotation, err := h.service.UpdateRotation(r.Context(), rotationID, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRotationResponse(rotation))
}

// Delete handles DELETE /rotations/{id}.
func (h *RotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotationID, ok := RotationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rotationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRotationID)
		return
	}

	if err := h.service.DeleteRotation(r.Context(), rotationID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type segmentDTO struct {
	User    string `json:"user"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

type warningDTO struct {
	EarlierUser string `json:"earlier_user"`
	LaterUser   string `json:"later_user"`
	From        string `json:"from"`
	Until       string `json:"until"`
	Message     string `json:"message"`
}

type timelineResponse struct {
	Segments []segmentDTO `json:"segments"`
	Warnings []warningDTO `json:"warnings,omitempty"`
}

// Timeline handles GET /rotations/{id}/timeline?from=&until=.
func (h *RotationHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rotationID, ok := RotationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rotationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRotationID)
		return
	}

	query := r.URL.Query()
	from, err := definition.ParseTime(query.Get("from"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	until, err := definition.ParseTime(query.Get("until"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	timeline, err := h.service.RenderTimeline(r.Context(), application.RenderTimelineParams{
		RotationID: rotationID,
		From:       from,
		Until:      until,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := timelineResponse{Segments: make([]segmentDTO, 0, len(timeline.Segments))}
	for _, seg := range timeline.Segments {
		payload.Segments = append(payload.Segments, segmentDTO{
			User:    seg.User,
			StartAt: formatInstant(seg.Start),
			EndAt:   formatInstant(seg.End),
		})
	}
	for _, warning := range timeline.Warnings {
		payload.Warnings = append(payload.Warnings, warningDTO{
			EarlierUser: warning.EarlierUser,
			LaterUser:   warning.LaterUser,
			From:        formatInstant(warning.From),
			Until:       formatInstant(warning.Until),
			Message:     warning.Message,
		})
	}

	handlerLogger(r.Context(), h.responder.logger, "rotation", "timeline", "rotation_id", rotationID).
		DebugContext(r.Context(), "timeline served", "segments", len(payload.Segments))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}
