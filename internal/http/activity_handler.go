package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/activity-portal/internal/application"
)

type activityService interface {
	ListActivities(ctx context.Context) ([]application.Activity, error)
	ListUpcoming(ctx context.Context, limit int) ([]application.Occurrence, error)
	CreateActivity(ctx context.Context, token string, input application.ActivityInput) (application.Activity, error)
	UpdateActivity(ctx context.Context, token, id string, input application.ActivityInput) (application.Activity, error)
	DeleteActivity(ctx context.Context, token, id string) error
}

// ActivityHandler exposes the activity schedule over HTTP.
type ActivityHandler struct {
	service      activityService
	responder    responder
	defaultLimit int
}

// NewActivityHandler constructs the handler. defaultLimit bounds upcoming
// listings when the caller does not supply one.
func NewActivityHandler(service activityService, defaultLimit int, logger *slog.Logger) *ActivityHandler {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &ActivityHandler{service: service, responder: newResponder(logger), defaultLimit: defaultLimit}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listActivitiesResponse{
		Activities: toActivityDTOs(activities),
	})
}

func (h *ActivityHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	limit := h.defaultLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Message: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	occurrences, err := h.service.ListUpcoming(r.Context(), limit)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listUpcomingResponse{
		Upcoming: toOccurrenceDTOs(occurrences),
	})
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	activity, err := h.service.CreateActivity(r.Context(), extractTokenFromRequest(r), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toActivityDTO(activity))
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ActivityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActivityID)
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	activity, err := h.service.UpdateActivity(r.Context(), extractTokenFromRequest(r), id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActivityDTO(activity))
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ActivityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActivityID)
		return
	}

	if err := h.service.DeleteActivity(r.Context(), extractTokenFromRequest(r), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type activityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Weekday     string `json:"weekday"`
	StartHour   string `json:"start_hour"`
	EndHour     string `json:"end_hour"`
	Location    string `json:"location"`
	Instructor  string `json:"instructor"`
}

func (r activityRequest) toInput() application.ActivityInput {
	return application.ActivityInput{
		Title:       r.Title,
		Description: r.Description,
		Weekday:     r.Weekday,
		StartHour:   r.StartHour,
		EndHour:     r.EndHour,
		Location:    r.Location,
		Instructor:  r.Instructor,
	}
}

type activityDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Weekday     string `json:"weekday"`
	StartHour   string `json:"start_hour"`
	EndHour     string `json:"end_hour"`
	Location    string `json:"location,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
}

type occurrenceDTO struct {
	Activity activityDTO `json:"activity"`
	Start    string      `json:"start"`
}

type listActivitiesResponse struct {
	Activities []activityDTO `json:"activities"`
}

type listUpcomingResponse struct {
	Upcoming []occurrenceDTO `json:"upcoming"`
}

func toActivityDTO(activity application.Activity) activityDTO {
	return activityDTO{
		ID:          activity.ID,
		Title:       activity.Title,
		Description: activity.Description,
		Weekday:     activity.Weekday,
		StartHour:   activity.StartHour,
		EndHour:     activity.EndHour,
		Location:    activity.Location,
		Instructor:  activity.Instructor,
	}
}

func toActivityDTOs(activities []application.Activity) []activityDTO {
	dtos := make([]activityDTO, len(activities))
	for i, activity := range activities {
		dtos[i] = toActivityDTO(activity)
	}
	return dtos
}

func toOccurrenceDTOs(occurrences []application.Occurrence) []occurrenceDTO {
	dtos := make([]occurrenceDTO, len(occurrences))
	for i, occurrence := range occurrences {
		dtos[i] = occurrenceDTO{
			Activity: toActivityDTO(occurrence.Activity),
			Start:    occurrence.Start.Format(time.RFC3339),
		}
	}
	return dtos
}
