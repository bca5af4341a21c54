package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veldt/callsheet/internal/apperr"
	"github.com/veldt/callsheet/internal/planservice"
	"github.com/veldt/callsheet/internal/poll"
	"github.com/veldt/callsheet/internal/schedule"
)

// Handler holds API route handlers.
type Handler struct {
	svc   *planservice.Service
	stats *poll.Stats
}

// NewHandler creates a new Handler. stats may be nil; the stats
// endpoint then falls through to a direct backend fetch.
func NewHandler(svc *planservice.Service, stats *poll.Stats) *Handler {
	return &Handler{svc: svc, stats: stats}
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidOutcome), errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrUnavailable):
		// Retryable: the operator repeats the action; nothing is
		// rolled back server-side.
		writeJSON(w, http.StatusBadGateway, errorBody("backend unavailable, retry"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// GetPlan handles GET /plan.
func (h *Handler) GetPlan(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PlanResponse{
		Contacts: h.svc.Plan(),
		ActiveID: h.svc.ActiveID(),
	})
}

// LoadPlan handles POST /plan/load (day start).
func (h *Handler) LoadPlan(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.LoadDay(r.Context())
	if err != nil {
		writeServiceError(w, "load plan", err)
		return
	}
	writeJSON(w, http.StatusOK, PlanResponse{Contacts: entries, ActiveID: h.svc.ActiveID()})
}

// TopUpPlan handles POST /plan/topup.
func (h *Handler) TopUpPlan(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.TopUp(r.Context())
	if err != nil {
		writeServiceError(w, "top up plan", err)
		return
	}
	writeJSON(w, http.StatusOK, PlanResponse{Contacts: entries, ActiveID: h.svc.ActiveID()})
}

// LogOutcome handles POST /contacts/{id}/outcome.
func (h *Handler) LogOutcome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req LogOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	sug, err := h.svc.LogOutcome(r.Context(), id, req.Outcome, req.Note, req.LogContext())
	if err != nil {
		writeServiceError(w, "log outcome", err)
		return
	}
	writeJSON(w, http.StatusOK, LogOutcomeResponse{
		ActiveID:   h.svc.ActiveID(),
		Suggestion: sug,
	})
}

// Relog handles POST /contacts/{id}/relog.
func (h *Handler) Relog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, err := h.svc.Relog(id)
	if err != nil {
		writeServiceError(w, "relog", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CommitFollowUp handles POST /follow-ups.
func (h *Handler) CommitFollowUp(w http.ResponseWriter, r *http.Request) {
	var req planservice.CommitFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rem, err := h.svc.CommitFollowUp(r.Context(), req)
	if err != nil {
		writeServiceError(w, "commit follow-up", err)
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

// GroupedReminders handles GET /reminders/grouped.
func (h *Handler) GroupedReminders(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.UpcomingGrouped(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, "grouped reminders", err)
		return
	}
	resp := GroupedRemindersResponse{}
	for _, b := range schedule.Order {
		if rs := groups[b]; len(rs) > 0 {
			resp.Buckets = append(resp.Buckets, BucketGroup{Bucket: b, Reminders: rs})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Week handles GET /reminders/week.
func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	days, err := h.svc.Week(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, "week strip", err)
		return
	}
	writeJSON(w, http.StatusOK, WeekResponse{Days: days})
}

// Agenda handles GET /agenda.
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.svc.AgendaToday(r.Context())
	if err != nil {
		writeServiceError(w, "agenda", err)
		return
	}
	writeJSON(w, http.StatusOK, AgendaResponse{Items: items, Next: next})
}

// SetChecked handles PUT /agenda/items/{key}/checked.
func (h *Handler) SetChecked(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SetAgendaChecked(key, req.Checked); err != nil {
		writeServiceError(w, "set checked", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddManualItem handles POST /agenda/manual.
func (h *Handler) AddManualItem(w http.ResponseWriter, r *http.Request) {
	var req ManualItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	item, err := h.svc.AddManualItem(req.Label, req.Detail)
	if err != nil {
		writeServiceError(w, "add manual item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// RemoveManualItem handles DELETE /agenda/manual/{id}.
func (h *Handler) RemoveManualItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveManualItem(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "remove manual item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /stats. The polled snapshot is served when warm;
// otherwise a direct fetch primes the response.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.stats != nil {
		if last, at, ok := h.stats.Last(); ok {
			writeJSON(w, http.StatusOK, StatsResponse{CallStats: *last, FetchedAt: at.Format(time.RFC3339)})
			return
		}
	}
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{CallStats: *stats})
}
