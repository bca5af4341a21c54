// Package cadence proposes default follow-up timing after a logged
// call outcome. The scheduler only suggests; creating the reminder is
// a separate, explicit user action handled by the plan service.
package cadence

import (
	"time"

	"github.com/veldt/callsheet/internal/models"
)

// FireHour is the local hour every suggested follow-up is normalized
// to, regardless of when the call happened. Fixed business rule.
const FireHour = 9

// Suggest returns the default follow-up proposal for an outcome, or
// ok=false when the outcome does not warrant a follow-up.
//
// left_message → 2 days out; connected and callback_requested → 1 day.
// The fire time is always 09:00 local on the target date.
func Suggest(outcome models.Outcome, now time.Time) (models.FollowUpSuggestion, bool) {
	var days int
	switch outcome {
	case models.OutcomeLeftMessage:
		days = 2
	case models.OutcomeConnected, models.OutcomeCallbackRequested:
		days = 1
	default:
		return models.FollowUpSuggestion{}, false
	}

	target := now.AddDate(0, 0, days)
	fireAt := time.Date(target.Year(), target.Month(), target.Day(), FireHour, 0, 0, 0, now.Location())

	return models.FollowUpSuggestion{
		Outcome:         outcome,
		DaysOffset:      days,
		FireAt:          fireAt,
		DurationMinutes: models.DefaultDurationMinutes,
	}, true
}

// SynthesizeNote builds a reminder note from the outcome label when the
// operator supplies none.
func SynthesizeNote(name string, outcome models.Outcome) string {
	if name == "" {
		return "Follow up: " + outcome.Label()
	}
	return "Follow up with " + name + ": " + outcome.Label()
}
