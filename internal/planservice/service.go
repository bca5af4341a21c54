// Package planservice coordinates the work queue, the CRM backend, and
// local state: day loading, outcome logging, follow-up commits, grouped
// reminder views, and the daily agenda.
package planservice

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/veldt/callsheet/internal/agenda"
	"github.com/veldt/callsheet/internal/apperr"
	"github.com/veldt/callsheet/internal/cadence"
	"github.com/veldt/callsheet/internal/crm"
	"github.com/veldt/callsheet/internal/localstate"
	"github.com/veldt/callsheet/internal/models"
	"github.com/veldt/callsheet/internal/queue"
	"github.com/veldt/callsheet/internal/schedule"
	"github.com/veldt/callsheet/internal/scoring"
)

// LogContext is the per-context logging policy passed into the state
// machine. Optimistic contexts mark the contact Logged before backend
// confirmation; confirmed contexts wait for success. This asymmetry is
// deliberate: circle-prospecting logging is idempotent and safe to
// assume-succeeded, while ad hoc contexts have no guaranteed queue
// membership behind them.
type LogContext struct {
	Label      string
	Managed    bool
	Optimistic bool
}

// ContextTodayPlan is the managed circle-prospecting queue context.
var ContextTodayPlan = LogContext{Label: "Circle prospecting", Managed: true, Optimistic: true}

// AdHocContext builds a confirmed-only context for contacts reached
// outside the managed queue (sold/listed events, search results).
func AdHocContext(label string) LogContext {
	return LogContext{Label: label}
}

// Service is the application core behind the API and MCP surfaces.
type Service struct {
	backend crm.Backend
	queue   *queue.Store
	state   localstate.Store
}

// NewService creates a plan service.
func NewService(backend crm.Backend, q *queue.Store, state localstate.Store) *Service {
	return &Service{backend: backend, queue: q, state: state}
}

// Queue exposes the underlying store for subscribers (SSE bridging).
func (s *Service) Queue() *queue.Store {
	return s.queue
}

// PlanEntry is a queue contact together with its derived presentation
// fields. Tier and signals are recomputed on every read, never cached.
type PlanEntry struct {
	models.Contact
	Tier    models.Tier     `json:"tier"`
	Signals scoring.Signals `json:"signals"`
	State   queue.State     `json:"state"`
}

func (s *Service) entry(c models.Contact) PlanEntry {
	st, err := s.queue.ContactState(c.ID)
	if err != nil {
		st = queue.StateUncalled
	}
	return PlanEntry{
		Contact: c,
		Tier:    scoring.Classify(c.Score),
		Signals: scoring.DeriveSignals(c),
		State:   st,
	}
}

// LoadDay replaces the queue with a freshly fetched plan.
func (s *Service) LoadDay(ctx context.Context) ([]PlanEntry, error) {
	contacts, err := s.backend.FetchTodayPlan(ctx)
	if err != nil {
		return nil, err
	}
	s.queue.Load(contacts)
	return s.Plan(), nil
}

// TopUp appends newly fetched contacts to the existing queue.
func (s *Service) TopUp(ctx context.Context) ([]PlanEntry, error) {
	contacts, err := s.backend.FetchTodayPlan(ctx)
	if err != nil {
		return nil, err
	}
	s.queue.Append(contacts)
	return s.Plan(), nil
}

// Plan returns the queue in order with derived tiers and signals.
func (s *Service) Plan() []PlanEntry {
	snap := s.queue.Snapshot()
	out := make([]PlanEntry, len(snap))
	for i, c := range snap {
		out[i] = s.entry(c)
	}
	return out
}

// ActiveID returns the work-queue cursor.
func (s *Service) ActiveID() string {
	return s.queue.ActiveID()
}

// notePrefix encodes context label, address, and outcome label ahead of
// the operator's free-text note.
func notePrefix(lctx LogContext, address string, outcome models.Outcome, note string) string {
	prefix := fmt.Sprintf("[%s | %s | %s]", lctx.Label, address, outcome.Label())
	if note == "" {
		return prefix
	}
	return prefix + " " + note
}

// LogOutcome runs the outcome-logging transition for one contact and
// returns a follow-up suggestion when the outcome warrants one. The
// suggestion is a proposal only; nothing is persisted until
// CommitFollowUp.
//
// Failure handling per the error taxonomy: invalid outcomes are
// rejected before any request is sent; backend failures surface as
// retryable with no rollback of already-applied optimistic state and
// no automatic retry.
func (s *Service) LogOutcome(ctx context.Context, contactID string, outcome models.Outcome, note string, lctx LogContext) (*models.FollowUpSuggestion, error) {
	if !outcome.Valid() {
		return nil, apperr.ErrInvalidOutcome
	}

	contact, err := s.queue.Get(contactID)
	inQueue := err == nil
	if lctx.Managed && !inQueue {
		return nil, apperr.ErrNotFound
	}

	address := contact.Address
	fullNote := notePrefix(lctx, address, outcome, note)
	now := time.Now()

	if lctx.Optimistic {
		// Circle context: mark Logged before confirmation.
		if err := s.queue.ApplyOutcome(contactID, outcome, now); err != nil {
			return nil, err
		}
		if err := s.backend.PatchOutcome(ctx, contactID, outcome, fullNote); err != nil {
			return nil, err
		}
	} else {
		if inQueue {
			if err := s.queue.BeginLog(contactID, outcome); err != nil {
				return nil, err
			}
		}
		persist := s.backend.LogCall
		if lctx.Managed {
			persist = s.backend.PatchOutcome
		}
		if err := persist(ctx, contactID, outcome, fullNote); err != nil {
			// Contact stays Logging; the operator retries without
			// re-entering data.
			return nil, err
		}
		if inQueue {
			if err := s.queue.ApplyOutcome(contactID, outcome, now); err != nil {
				return nil, err
			}
		}
	}

	if sug, ok := cadence.Suggest(outcome, now); ok {
		sug.ContactID = contactID
		return &sug, nil
	}
	return nil, nil
}

// Relog resets a logged contact back to Uncalled.
func (s *Service) Relog(contactID string) (PlanEntry, error) {
	c, err := s.queue.Relog(contactID)
	if err != nil {
		return PlanEntry{}, err
	}
	return s.entry(c), nil
}

// CommitFollowUpRequest is the explicit user action that turns a
// cadence suggestion into a persisted reminder.
type CommitFollowUpRequest struct {
	ContactID       string          `json:"contact_id,omitempty"`
	Outcome         models.Outcome  `json:"outcome,omitempty"`
	Note            string          `json:"note,omitempty"`
	FireAt          *time.Time      `json:"fire_at,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	Priority        models.Priority `json:"priority,omitempty"`
	IsTask          bool            `json:"is_task,omitempty"`
}

// Validate rejects malformed commits before any request is sent.
func (r CommitFollowUpRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FireAt, validation.Required.When(!r.IsTask).Error("non-task reminders require a fire time")),
		validation.Field(&r.DurationMinutes, validation.By(func(any) error {
			if r.DurationMinutes != 0 && !models.ValidDuration(r.DurationMinutes) {
				return fmt.Errorf("duration must be one of %v", models.Durations)
			}
			return nil
		})),
		validation.Field(&r.Priority, validation.In(models.PriorityLow, models.PriorityNormal, models.PriorityHigh)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// CommitFollowUp creates the reminder through the backend. When the
// user supplies no note, one is synthesized from the outcome label.
func (s *Service) CommitFollowUp(ctx context.Context, req CommitFollowUpRequest) (*models.Reminder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	note := req.Note
	if note == "" {
		var name string
		if c, err := s.queue.Get(req.ContactID); err == nil {
			name = c.Name
		}
		note = cadence.SynthesizeNote(name, req.Outcome)
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = models.DefaultDurationMinutes
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	return s.backend.CreateReminder(ctx, crm.CreateReminderRequest{
		ContactID:       req.ContactID,
		Note:            note,
		FireAt:          req.FireAt,
		DurationMinutes: duration,
		Priority:        priority,
		IsTask:          req.IsTask,
	})
}

// UpcomingGrouped fetches reminders and partitions them into due-date
// buckets relative to now.
func (s *Service) UpcomingGrouped(ctx context.Context, now time.Time) (map[schedule.Bucket][]models.Reminder, error) {
	reminders, err := s.backend.FetchUpcomingReminders(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.Group(reminders, now), nil
}

// Week returns the Monday-start week strip for the current week.
func (s *Service) Week(ctx context.Context, now time.Time) ([]schedule.DayCell, error) {
	reminders, err := s.backend.FetchUpcomingReminders(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.WeekStrip(reminders, now), nil
}

// AgendaToday assembles the unified daily list and the collapsed-view
// pointer.
func (s *Service) AgendaToday(ctx context.Context) ([]models.AgendaItem, *models.AgendaItem, error) {
	feed, err := s.backend.FetchAgendaToday(ctx)
	if err != nil {
		return nil, nil, err
	}
	manual, err := s.state.ListManualItems()
	if err != nil {
		return nil, nil, err
	}
	checked, err := s.state.CheckedKeys()
	if err != nil {
		return nil, nil, err
	}
	items := agenda.Build(feed.Reminders, feed.Events, feed.PlanCount, manual, checked)
	if next, ok := agenda.NextUnchecked(items); ok {
		return items, &next, nil
	}
	return items, nil, nil
}

// SetAgendaChecked persists the checked flag for one agenda item key.
// Checking never mutates the source entity.
func (s *Service) SetAgendaChecked(key string, checked bool) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", apperr.ErrValidation)
	}
	return s.state.SetChecked(key, checked)
}

// AddManualItem persists an operator-added agenda entry.
func (s *Service) AddManualItem(label, detail string) (models.ManualItem, error) {
	if err := validation.Validate(label, validation.Required, validation.Length(1, 200)); err != nil {
		return models.ManualItem{}, fmt.Errorf("%w: label: %v", apperr.ErrValidation, err)
	}
	item := models.ManualItem{
		ID:        uuid.NewString(),
		Label:     label,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := s.state.AddManualItem(item); err != nil {
		return models.ManualItem{}, err
	}
	return item, nil
}

// RemoveManualItem deletes a manual agenda entry and its checked flag.
func (s *Service) RemoveManualItem(id string) error {
	return s.state.DeleteManualItem(id)
}

// Stats fetches today's call aggregate.
func (s *Service) Stats(ctx context.Context) (*models.CallStats, error) {
	return s.backend.FetchCallStatsToday(ctx)
}
