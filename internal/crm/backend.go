// Package crm defines the request/response contract to the external
// CRM backend and its HTTP implementation. Contact and property
// storage, auth, and quick-add parsing all live behind this boundary.
package crm

import (
	"context"
	"time"

	"github.com/veldt/callsheet/internal/models"
)

// CreateReminderRequest is the payload for creating a follow-up.
type CreateReminderRequest struct {
	ContactID       string          `json:"contact_id,omitempty"`
	Note            string          `json:"note"`
	FireAt          *time.Time      `json:"fire_at,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
	Priority        models.Priority `json:"priority"`
	IsTask          bool            `json:"is_task,omitempty"`
}

// AgendaToday is the backend's daily agenda feed.
type AgendaToday struct {
	Reminders []models.Reminder      `json:"reminders"`
	Events    []models.CalendarEvent `json:"events"`
	PlanCount int                    `json:"plan_count"`
}

// Backend is the abstract CRM contract the core consumes. All calls
// are request/response with a success/failure outcome; failures are
// retryable by user action only, never retried automatically.
type Backend interface {
	// FetchTodayPlan returns the current call plan, at day-load and on
	// demand for top-ups.
	FetchTodayPlan(ctx context.Context) ([]models.Contact, error)
	// PatchOutcome records an outcome for a queue-managed contact.
	PatchOutcome(ctx context.Context, contactID string, outcome models.Outcome, note string) error
	// LogCall records an outcome for a contact outside the managed
	// queue (sold/listed event contexts, search results).
	LogCall(ctx context.Context, contactID string, outcome models.Outcome, note string) error
	// CreateReminder persists a follow-up reminder.
	CreateReminder(ctx context.Context, req CreateReminderRequest) (*models.Reminder, error)
	// FetchUpcomingReminders returns reminders for bucketed views.
	FetchUpcomingReminders(ctx context.Context) ([]models.Reminder, error)
	// FetchAgendaToday returns the raw inputs to the agenda aggregator.
	FetchAgendaToday(ctx context.Context) (*AgendaToday, error)
	// FetchCallStatsToday returns the polled read-only daily aggregate.
	FetchCallStatsToday(ctx context.Context) (*models.CallStats, error)
}
