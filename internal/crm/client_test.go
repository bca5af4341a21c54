package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/veldt/callsheet/internal/apperr"
	"github.com/veldt/callsheet/internal/models"
)

func TestFetchTodayPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/call-plan/today" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"contacts": []models.Contact{{ID: "c1", Name: "Ana", Score: 52}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second)
	plan, err := c.FetchTodayPlan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != 1 || plan[0].ID != "c1" {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPatchOutcomeSendsBody(t *testing.T) {
	var got outcomeBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	err := c.PatchOutcome(context.Background(), "c1", models.OutcomeLeftMessage, "left vm")
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != models.OutcomeLeftMessage || got.Note != "left vm" {
		t.Errorf("body = %+v", got)
	}
}

func TestNotOKResponseIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	err := c.LogCall(context.Background(), "c1", models.OutcomeConnected, "")
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err := c.FetchCallStatsToday(context.Background())
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestCreateReminderRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateReminderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Reminder{
			ID: "r1", ContactID: req.ContactID, Note: req.Note,
			FireAt: req.FireAt, DurationMinutes: req.DurationMinutes, Priority: req.Priority,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	fire := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	rem, err := c.CreateReminder(context.Background(), CreateReminderRequest{
		ContactID: "c1", Note: "call back", FireAt: &fire,
		DurationMinutes: 30, Priority: models.PriorityNormal,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rem.ID != "r1" || rem.ContactID != "c1" {
		t.Errorf("reminder = %+v", rem)
	}
}
