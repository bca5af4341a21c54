// Package models defines the domain types for Callsheet.
package models

import "time"

// Outcome is the enumerated result of a completed call attempt.
type Outcome string

const (
	OutcomeConnected         Outcome = "connected"
	OutcomeLeftMessage       Outcome = "left_message"
	OutcomeNoAnswer          Outcome = "no_answer"
	OutcomeNotInterested     Outcome = "not_interested"
	OutcomeCallbackRequested Outcome = "callback_requested"
	OutcomeAppraisalBooked   Outcome = "appraisal_booked"
)

// Valid reports whether o is a member of the closed outcome set.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeConnected, OutcomeLeftMessage, OutcomeNoAnswer,
		OutcomeNotInterested, OutcomeCallbackRequested, OutcomeAppraisalBooked:
		return true
	}
	return false
}

// Label returns the human-readable form used in note prefixes and
// synthesized follow-up notes.
func (o Outcome) Label() string {
	switch o {
	case OutcomeConnected:
		return "Connected"
	case OutcomeLeftMessage:
		return "Left message"
	case OutcomeNoAnswer:
		return "No answer"
	case OutcomeNotInterested:
		return "Not interested"
	case OutcomeCallbackRequested:
		return "Callback requested"
	case OutcomeAppraisalBooked:
		return "Appraisal booked"
	}
	return string(o)
}

// Tier is the priority bucket derived from a contact's propensity score.
type Tier string

const (
	TierHigh Tier = "high"
	TierMed  Tier = "med"
	TierLow  Tier = "low"
)

// Contact represents one contact in the daily call plan.
//
// Tier and qualification signals are never stored on the contact; they
// are recomputed from Score/TenureYears/Occupancy on every read.
type Contact struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	Phone       string     `json:"phone,omitempty"`
	Score       float64    `json:"score"`
	TenureYears float64    `json:"tenure_years"`
	Occupancy   string     `json:"occupancy,omitempty"`
	Outcome     *Outcome   `json:"outcome,omitempty"`
	CalledAt    *time.Time `json:"called_at,omitempty"`
}

// Called reports whether an outcome has been logged since the last reset.
// Outcome and CalledAt are always written together.
func (c *Contact) Called() bool {
	return c.Outcome != nil
}

// CallStats is the read-only daily aggregate polled from the backend.
type CallStats struct {
	Calls       int `json:"calls"`
	Connected   int `json:"connected"`
	LeftMessage int `json:"left_message"`
	NoAnswer    int `json:"no_answer"`
}
