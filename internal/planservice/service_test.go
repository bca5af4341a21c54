package planservice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/veldt/callsheet/internal/apperr"
	"github.com/veldt/callsheet/internal/models"
	"github.com/veldt/callsheet/internal/queue"
	"github.com/veldt/callsheet/internal/schedule"
	"github.com/veldt/callsheet/internal/testutil"
)

func testService(t *testing.T, fake *testutil.FakeBackend) *Service {
	t.Helper()
	return NewService(fake, queue.NewStore(), testutil.TestState(t))
}

func threeContactPlan() []models.Contact {
	return []models.Contact{
		{ID: "A", Name: "Ava Lane", Address: "1 Main St", Score: 62, TenureYears: 9},
		{ID: "B", Name: "Ben Ito", Address: "2 Main St", Score: 30, Occupancy: "rented"},
		{ID: "C", Name: "Cy Moss", Address: "3 Main St", Score: 12},
	}
}

func TestLoadDayDerivesTiersAndSignals(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)

	entries, err := svc.LoadDay(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d", len(entries))
	}
	if entries[0].Tier != models.TierHigh || entries[1].Tier != models.TierMed || entries[2].Tier != models.TierLow {
		t.Errorf("tiers = %v %v %v", entries[0].Tier, entries[1].Tier, entries[2].Tier)
	}
	if entries[0].Signals.Tenure == 0 {
		t.Error("A should carry the tenure signal")
	}
	if entries[1].Signals.Investor == 0 {
		t.Error("B should carry the investor signal")
	}
	if got := svc.ActiveID(); got != "A" {
		t.Errorf("active = %q", got)
	}
}

func TestLogOutcomeOptimisticAdvancesAndSuggests(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())

	sug, err := svc.LogOutcome(context.Background(), "B", models.OutcomeLeftMessage, "asked for appraisal pack", ContextTodayPlan)
	if err != nil {
		t.Fatal(err)
	}
	if sug == nil || sug.DaysOffset != 2 || sug.ContactID != "B" {
		t.Fatalf("suggestion = %+v", sug)
	}
	if got := svc.ActiveID(); got != "C" {
		t.Errorf("active = %q, want C", got)
	}
	if len(fake.PatchCalls) != 1 {
		t.Fatalf("patch calls = %d", len(fake.PatchCalls))
	}
	note := fake.PatchCalls[0].Note
	for _, part := range []string{"Circle prospecting", "2 Main St", "Left message", "asked for appraisal pack"} {
		if !strings.Contains(note, part) {
			t.Errorf("note %q missing %q", note, part)
		}
	}
}

func TestLogOutcomeOptimisticKeepsStateOnFailure(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())

	fake.SetErr(apperr.ErrUnavailable)
	_, err := svc.LogOutcome(context.Background(), "A", models.OutcomeConnected, "", ContextTodayPlan)
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
	// Optimistic state is not rolled back.
	st, _ := svc.Queue().ContactState("A")
	if st != queue.StateLogged {
		t.Errorf("state = %v, want logged (no rollback)", st)
	}
}

func TestLogOutcomeAdHocConfirmedOnly(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())

	lctx := AdHocContext("Just sold – Acacia Ave")
	fake.SetErr(apperr.ErrUnavailable)
	_, err := svc.LogOutcome(context.Background(), "A", models.OutcomeConnected, "", lctx)
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
	// Confirmed policy: failure leaves the contact Logging for retry.
	st, _ := svc.Queue().ContactState("A")
	if st != queue.StateLogging {
		t.Errorf("state = %v, want logging", st)
	}

	fake.SetErr(nil)
	if _, err := svc.LogOutcome(context.Background(), "A", models.OutcomeConnected, "", lctx); err != nil {
		t.Fatal(err)
	}
	st, _ = svc.Queue().ContactState("A")
	if st != queue.StateLogged {
		t.Errorf("state after retry = %v, want logged", st)
	}
	if len(fake.LogCalls) != 1 {
		t.Errorf("ad hoc context should use the call log endpoint, got %d calls", len(fake.LogCalls))
	}
	if len(fake.PatchCalls) != 0 {
		t.Errorf("ad hoc context must not patch the queue endpoint")
	}
}

func TestLogOutcomeAdHocOutsideQueue(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())

	// Contact from a search result, not in today's queue.
	_, err := svc.LogOutcome(context.Background(), "Z", models.OutcomeNoAnswer, "", AdHocContext("Search"))
	if err != nil {
		t.Fatal(err)
	}
	if len(fake.LogCalls) != 1 || fake.LogCalls[0].ContactID != "Z" {
		t.Errorf("log calls = %+v", fake.LogCalls)
	}
}

func TestLogOutcomeValidation(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())

	_, err := svc.LogOutcome(context.Background(), "A", models.Outcome("busy"), "", ContextTodayPlan)
	if !errors.Is(err, apperr.ErrInvalidOutcome) {
		t.Errorf("err = %v", err)
	}
	if len(fake.PatchCalls)+len(fake.LogCalls) != 0 {
		t.Error("validation failure must never reach the backend")
	}

	_, err = svc.LogOutcome(context.Background(), "missing", models.OutcomeConnected, "", ContextTodayPlan)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestNoSuggestionForTerminalOutcomes(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())

	sug, err := svc.LogOutcome(context.Background(), "A", models.OutcomeNotInterested, "", ContextTodayPlan)
	if err != nil {
		t.Fatal(err)
	}
	if sug != nil {
		t.Errorf("suggestion = %+v, want none", sug)
	}
}

func TestRelogRestoresUncalled(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())
	_, _ = svc.LogOutcome(context.Background(), "A", models.OutcomeConnected, "", ContextTodayPlan)

	entry, err := svc.Relog("A")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Outcome != nil || entry.CalledAt != nil {
		t.Errorf("relog left outcome=%v calledAt=%v", entry.Outcome, entry.CalledAt)
	}
	if entry.State != queue.StateUncalled {
		t.Errorf("state = %v", entry.State)
	}
}

func TestCommitFollowUpSynthesizesNote(t *testing.T) {
	fake := &testutil.FakeBackend{Plan: threeContactPlan()}
	svc := testService(t, fake)
	_, _ = svc.LoadDay(context.Background())

	fire := time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local)
	rem, err := svc.CommitFollowUp(context.Background(), CommitFollowUpRequest{
		ContactID: "A",
		Outcome:   models.OutcomeLeftMessage,
		FireAt:    &fire,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rem.Note != "Follow up with Ava Lane: Left message" {
		t.Errorf("note = %q", rem.Note)
	}
	if rem.DurationMinutes != models.DefaultDurationMinutes {
		t.Errorf("duration = %d", rem.DurationMinutes)
	}
	if fake.Created[0].Priority != models.PriorityNormal {
		t.Errorf("priority = %v", fake.Created[0].Priority)
	}
}

func TestCommitFollowUpValidation(t *testing.T) {
	fake := &testutil.FakeBackend{}
	svc := testService(t, fake)

	// Non-task without fire time.
	_, err := svc.CommitFollowUp(context.Background(), CommitFollowUpRequest{Note: "x"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v", err)
	}
	// Duration outside the closed set.
	fire := time.Now()
	_, err = svc.CommitFollowUp(context.Background(), CommitFollowUpRequest{Note: "x", FireAt: &fire, DurationMinutes: 45})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v", err)
	}
	// Undated is fine for tasks.
	if _, err = svc.CommitFollowUp(context.Background(), CommitFollowUpRequest{Note: "x", IsTask: true}); err != nil {
		t.Errorf("task without date: %v", err)
	}
	if len(fake.Created) != 1 {
		t.Errorf("created = %d, want only the valid task", len(fake.Created))
	}
}

func TestUpcomingGroupedAndWeek(t *testing.T) {
	now := time.Date(2025, 3, 12, 11, 0, 0, 0, time.Local)
	past := now.Add(-2 * time.Hour)
	later := now.AddDate(0, 0, 10)
	fake := &testutil.FakeBackend{Reminders: []models.Reminder{
		{ID: "r1", FireAt: &past},
		{ID: "r2", FireAt: &later},
		{ID: "r3", IsTask: true},
	}}
	svc := testService(t, fake)

	groups, err := svc.UpcomingGrouped(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups[schedule.BucketOverdue]) != 1 || len(groups[schedule.BucketLater]) != 1 || len(groups[schedule.BucketNoDate]) != 1 {
		t.Errorf("groups = %+v", groups)
	}

	cells, err := svc.Week(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 7 {
		t.Errorf("week cells = %d", len(cells))
	}
}

func TestAgendaTodayMergesLocalState(t *testing.T) {
	fire := time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local)
	fake := &testutil.FakeBackend{}
	fake.Agenda.Reminders = []models.Reminder{{ID: "r1", Note: "Call back", FireAt: &fire}}
	fake.Agenda.Events = []models.CalendarEvent{{ID: "e1", Label: "Auction", StartAt: &fire}}
	fake.Agenda.PlanCount = 2

	svc := testService(t, fake)
	manual, err := svc.AddManualItem("Drop off contracts", "before 4pm")
	if err != nil {
		t.Fatal(err)
	}

	items, next, err := svc.AgendaToday(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("items = %d, want 4", len(items))
	}
	if next == nil || next.Key != "reminder:r1" {
		t.Errorf("next = %+v", next)
	}

	// Check the first two; the pointer advances to the plan summary.
	_ = svc.SetAgendaChecked("reminder:r1", true)
	_ = svc.SetAgendaChecked("event:e1", true)
	_, next, err = svc.AgendaToday(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if next == nil || next.Kind != models.AgendaPlanSummary {
		t.Errorf("next = %+v, want plan summary", next)
	}

	// Manual item removal cleans up.
	if err := svc.RemoveManualItem(manual.ID); err != nil {
		t.Fatal(err)
	}
	items, _, _ = svc.AgendaToday(context.Background())
	if len(items) != 3 {
		t.Errorf("items after removal = %d, want 3", len(items))
	}
}

func TestAddManualItemValidation(t *testing.T) {
	svc := testService(t, &testutil.FakeBackend{})
	if _, err := svc.AddManualItem("", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v", err)
	}
}
