// Package scoring derives priority tiers and qualification signals
// from raw contact attributes. Everything here is a pure function over
// the canonical contact record; nothing is cached.
package scoring

import (
	"math"
	"regexp"

	"github.com/veldt/callsheet/internal/models"
)

// Tier thresholds on the propensity score.
const (
	HighThreshold = 45
	MedThreshold  = 20
)

// Signal point values surfaced as qualification pills.
const (
	TenurePoints    = 20
	InvestorPoints  = 15
	AppraisalPoints = 30

	tenureYearsMin     = 7
	appraisalRemainder = 30
)

var rentalRe = regexp.MustCompile(`(?i)rent`)

// Classify maps a propensity score to a tier. Total over float64:
// NaN and negative inputs clamp to 0 and degrade to TierLow rather
// than failing, so a malformed upstream score never raises.
func Classify(score float64) models.Tier {
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	switch {
	case score >= HighThreshold:
		return models.TierHigh
	case score >= MedThreshold:
		return models.TierMed
	default:
		return models.TierLow
	}
}

// Signals are presentation hints derived from contact attributes.
// They never feed back into the score used for tiering.
type Signals struct {
	Tenure    int `json:"tenure"`
	Investor  int `json:"investor"`
	Appraisal int `json:"appraisal"`
}

// DeriveSignals computes the qualification signals for a contact.
// Pure and total: missing fields are treated as zero/empty.
func DeriveSignals(c models.Contact) Signals {
	var s Signals
	if c.TenureYears > tenureYearsMin {
		s.Tenure = TenurePoints
	}
	if rentalRe.MatchString(c.Occupancy) {
		s.Investor = InvestorPoints
	}
	score := c.Score
	if math.IsNaN(score) {
		score = 0
	}
	if score-float64(s.Tenure)-float64(s.Investor) >= appraisalRemainder {
		s.Appraisal = AppraisalPoints
	}
	return s
}
