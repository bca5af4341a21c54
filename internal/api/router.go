package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veldt/callsheet/internal/planservice"
	"github.com/veldt/callsheet/internal/poll"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *planservice.Service, stats *poll.Stats, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, stats)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Work queue.
	r.Get("/plan", h.GetPlan)
	r.Post("/plan/load", h.LoadPlan)
	r.Post("/plan/topup", h.TopUpPlan)
	r.Post("/contacts/{id}/outcome", h.LogOutcome)
	r.Post("/contacts/{id}/relog", h.Relog)

	// Follow-ups and reminder views.
	r.Post("/follow-ups", h.CommitFollowUp)
	r.Get("/reminders/grouped", h.GroupedReminders)
	r.Get("/reminders/week", h.Week)

	// Agenda.
	r.Get("/agenda", h.Agenda)
	r.Put("/agenda/items/{key}/checked", h.SetChecked)
	r.Post("/agenda/manual", h.AddManualItem)
	r.Delete("/agenda/manual/{id}", h.RemoveManualItem)

	// Stats.
	r.Get("/stats", h.Stats)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
