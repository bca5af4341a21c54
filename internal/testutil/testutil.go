// Package testutil provides shared test helpers: a temp local-state
// database and an in-memory CRM backend fake.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/veldt/callsheet/internal/crm"
	"github.com/veldt/callsheet/internal/localstate"
	"github.com/veldt/callsheet/internal/models"
)

// TestState creates a temporary SQLite local-state database that is
// automatically cleaned up.
func TestState(t *testing.T) *localstate.DB {
	t.Helper()
	f, err := os.CreateTemp("", "callsheet-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := localstate.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// FakeBackend is an in-memory crm.Backend. Err, when set, is returned
// by every call to simulate a transient failure.
type FakeBackend struct {
	mu sync.Mutex

	Plan      []models.Contact
	Reminders []models.Reminder
	Agenda    crm.AgendaToday
	Stats     models.CallStats
	Err       error

	PatchCalls []LoggedCall
	LogCalls   []LoggedCall
	Created    []crm.CreateReminderRequest
	nextRemID  int
}

// LoggedCall records one outcome persist request.
type LoggedCall struct {
	ContactID string
	Outcome   models.Outcome
	Note      string
}

var _ crm.Backend = (*FakeBackend)(nil)

// SetErr flips the simulated failure on or off.
func (f *FakeBackend) SetErr(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

func (f *FakeBackend) FetchTodayPlan(_ context.Context) ([]models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]models.Contact, len(f.Plan))
	copy(out, f.Plan)
	return out, nil
}

func (f *FakeBackend) PatchOutcome(_ context.Context, contactID string, outcome models.Outcome, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.PatchCalls = append(f.PatchCalls, LoggedCall{ContactID: contactID, Outcome: outcome, Note: note})
	return nil
}

func (f *FakeBackend) LogCall(_ context.Context, contactID string, outcome models.Outcome, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.LogCalls = append(f.LogCalls, LoggedCall{ContactID: contactID, Outcome: outcome, Note: note})
	return nil
}

func (f *FakeBackend) CreateReminder(_ context.Context, req crm.CreateReminderRequest) (*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Created = append(f.Created, req)
	f.nextRemID++
	return &models.Reminder{
		ID:              fmt.Sprintf("rem-%d", f.nextRemID),
		ContactID:       req.ContactID,
		Note:            req.Note,
		FireAt:          req.FireAt,
		DurationMinutes: req.DurationMinutes,
		Priority:        req.Priority,
		IsTask:          req.IsTask,
	}, nil
}

func (f *FakeBackend) FetchUpcomingReminders(_ context.Context) ([]models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]models.Reminder, len(f.Reminders))
	copy(out, f.Reminders)
	return out, nil
}

func (f *FakeBackend) FetchAgendaToday(_ context.Context) (*crm.AgendaToday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	a := f.Agenda
	return &a, nil
}

func (f *FakeBackend) FetchCallStatsToday(_ context.Context) (*models.CallStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	s := f.Stats
	return &s, nil
}
