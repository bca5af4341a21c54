package models

import "time"

// Priority orders reminders within a bucket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Durations is the closed set of allowed reminder durations in minutes.
var Durations = []int{15, 30, 60, 120}

// DefaultDurationMinutes is used when the operator picks no duration.
const DefaultDurationMinutes = 30

// ValidDuration reports whether m is one of the allowed durations.
func ValidDuration(m int) bool {
	for _, d := range Durations {
		if d == m {
			return true
		}
	}
	return false
}

// Reminder is a scheduled follow-up or undated task.
//
// ContactID is a weak reference used for lookup only; deleting the
// contact does not cascade to the reminder. Tasks (IsTask) may omit
// FireAt; non-task reminders always carry one.
type Reminder struct {
	ID              string     `json:"id"`
	ContactID       string     `json:"contact_id,omitempty"`
	Note            string     `json:"note"`
	FireAt          *time.Time `json:"fire_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Priority        Priority   `json:"priority"`
	IsTask          bool       `json:"is_task,omitempty"`
}

// FollowUpSuggestion is the cadence scheduler's proposal after a logged
// outcome. It is presentation state only; nothing is persisted until
// the operator commits it.
type FollowUpSuggestion struct {
	ContactID       string    `json:"contact_id"`
	Outcome         Outcome   `json:"outcome"`
	DaysOffset      int       `json:"days_offset"`
	FireAt          time.Time `json:"fire_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

// CalendarEvent is an external calendar entry surfaced on the agenda.
type CalendarEvent struct {
	ID       string     `json:"id,omitempty"`
	Label    string     `json:"label"`
	Location string     `json:"location,omitempty"`
	StartAt  *time.Time `json:"start_at,omitempty"`
}
