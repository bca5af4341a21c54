package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/veldt/callsheet/internal/models"
	"github.com/veldt/callsheet/internal/planservice"
	"github.com/veldt/callsheet/internal/schedule"
)

// Logging contexts accepted by the outcome endpoint.
const (
	LogContextTodayPlan = "today_plan"
	LogContextAdHoc     = "adhoc"
)

// LogOutcomeRequest is the request body for logging a call outcome.
type LogOutcomeRequest struct {
	Outcome models.Outcome `json:"outcome"`
	Note    string         `json:"note,omitempty"`
	Context string         `json:"context,omitempty"`
	Label   string         `json:"label,omitempty"`
}

// Validate rejects the request before the state machine is touched.
func (r LogOutcomeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Outcome, validation.Required),
		validation.Field(&r.Context, validation.In(LogContextTodayPlan, LogContextAdHoc)),
		validation.Field(&r.Label, validation.Required.When(r.Context == LogContextAdHoc).Error("ad hoc logging requires a context label")),
	)
}

// LogContext resolves the request to a state-machine policy.
func (r LogOutcomeRequest) LogContext() planservice.LogContext {
	if r.Context == LogContextAdHoc {
		return planservice.AdHocContext(r.Label)
	}
	return planservice.ContextTodayPlan
}

// LogOutcomeResponse carries the optional follow-up suggestion.
type LogOutcomeResponse struct {
	ActiveID   string                     `json:"active_id"`
	Suggestion *models.FollowUpSuggestion `json:"suggestion,omitempty"`
}

// PlanResponse wraps the queue with derived fields and the cursor.
type PlanResponse struct {
	Contacts []planservice.PlanEntry `json:"contacts"`
	ActiveID string                  `json:"active_id"`
}

// GroupedRemindersResponse lists buckets in display order.
type GroupedRemindersResponse struct {
	Buckets []BucketGroup `json:"buckets"`
}

// BucketGroup is one due-date bucket with its reminders.
type BucketGroup struct {
	Bucket    schedule.Bucket   `json:"bucket"`
	Reminders []models.Reminder `json:"reminders"`
}

// WeekResponse wraps the Monday-start week strip.
type WeekResponse struct {
	Days []schedule.DayCell `json:"days"`
}

// AgendaResponse is the unified daily list plus the collapsed-view
// pointer.
type AgendaResponse struct {
	Items []models.AgendaItem `json:"items"`
	Next  *models.AgendaItem  `json:"next,omitempty"`
}

// CheckRequest sets an agenda item's checked flag.
type CheckRequest struct {
	Checked bool `json:"checked"`
}

// ManualItemRequest adds an operator agenda entry.
type ManualItemRequest struct {
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// StatsResponse wraps the polled aggregate with its freshness.
type StatsResponse struct {
	models.CallStats
	FetchedAt string `json:"fetched_at,omitempty"`
}
