package scoring

import (
	"math"
	"testing"

	"github.com/veldt/callsheet/internal/models"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Tier
	}{
		{0, models.TierLow},
		{19, models.TierLow},
		{20, models.TierMed},
		{44, models.TierMed},
		{45, models.TierHigh},
		{100, models.TierHigh},
	}
	for _, c := range cases {
		if got := Classify(c.score); got != c.want {
			t.Errorf("Classify(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestClassifyMalformedInput(t *testing.T) {
	if got := Classify(math.NaN()); got != models.TierLow {
		t.Errorf("Classify(NaN) = %v, want low", got)
	}
	if got := Classify(-5); got != models.TierLow {
		t.Errorf("Classify(-5) = %v, want low", got)
	}
}

func TestDeriveSignalsTenure(t *testing.T) {
	s := DeriveSignals(models.Contact{TenureYears: 8})
	if s.Tenure != TenurePoints {
		t.Errorf("tenure = %d, want %d", s.Tenure, TenurePoints)
	}
	s = DeriveSignals(models.Contact{TenureYears: 7})
	if s.Tenure != 0 {
		t.Errorf("tenure at exactly 7 years = %d, want 0", s.Tenure)
	}
}

func TestDeriveSignalsInvestor(t *testing.T) {
	for _, occ := range []string{"Rented", "rental", "RENTER occupied"} {
		if s := DeriveSignals(models.Contact{Occupancy: occ}); s.Investor != InvestorPoints {
			t.Errorf("occupancy %q: investor = %d, want %d", occ, s.Investor, InvestorPoints)
		}
	}
	if s := DeriveSignals(models.Contact{Occupancy: "owner occupied"}); s.Investor != 0 {
		t.Errorf("owner occupied: investor = %d, want 0", s.Investor)
	}
}

func TestDeriveSignalsAppraisalThreshold(t *testing.T) {
	// score 65, tenure 20, investor 15 → remainder 30 → appraisal fires.
	c := models.Contact{Score: 65, TenureYears: 10, Occupancy: "rented"}
	if s := DeriveSignals(c); s.Appraisal != AppraisalPoints {
		t.Errorf("appraisal = %d, want %d", s.Appraisal, AppraisalPoints)
	}
	// score 64 → remainder 29 → no appraisal signal.
	c.Score = 64
	if s := DeriveSignals(c); s.Appraisal != 0 {
		t.Errorf("appraisal = %d, want 0", s.Appraisal)
	}
}

func TestDeriveSignalsZeroValue(t *testing.T) {
	s := DeriveSignals(models.Contact{})
	if s != (Signals{}) {
		t.Errorf("zero contact should derive zero signals, got %+v", s)
	}
}

func TestDeriveSignalsPure(t *testing.T) {
	c := models.Contact{Score: 50, TenureYears: 9, Occupancy: "rented"}
	first := DeriveSignals(c)
	for i := 0; i < 10; i++ {
		if got := DeriveSignals(c); got != first {
			t.Fatalf("DeriveSignals not deterministic: %+v vs %+v", got, first)
		}
	}
}
