package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veldt/callsheet/internal/apperr"
	"github.com/veldt/callsheet/internal/models"
)

// Client is the HTTP implementation of Backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Backend = (*Client)(nil)

// NewClient creates a CRM client for the given base URL. A non-empty
// token is sent as a Bearer credential on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do performs one request. Transport errors and non-2xx responses both
// map to apperr.ErrUnavailable: the caller surfaces them as retryable
// and never retries on its own.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("crm: encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm: %s %s: %w: %v", method, path, apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("crm: %s %s: status %d: %w", method, path, resp.StatusCode, apperr.ErrUnavailable)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("crm: decode response: %w", err)
	}
	return nil
}

// FetchTodayPlan implements Backend.
func (c *Client) FetchTodayPlan(ctx context.Context) ([]models.Contact, error) {
	var out struct {
		Contacts []models.Contact `json:"contacts"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/call-plan/today", nil, &out); err != nil {
		return nil, err
	}
	return out.Contacts, nil
}

type outcomeBody struct {
	Outcome models.Outcome `json:"outcome"`
	Note    string         `json:"note,omitempty"`
}

// PatchOutcome implements Backend.
func (c *Client) PatchOutcome(ctx context.Context, contactID string, outcome models.Outcome, note string) error {
	return c.do(ctx, http.MethodPatch, "/v1/call-plan/contacts/"+contactID+"/outcome",
		outcomeBody{Outcome: outcome, Note: note}, nil)
}

// LogCall implements Backend.
func (c *Client) LogCall(ctx context.Context, contactID string, outcome models.Outcome, note string) error {
	return c.do(ctx, http.MethodPost, "/v1/contacts/"+contactID+"/calls",
		outcomeBody{Outcome: outcome, Note: note}, nil)
}

// CreateReminder implements Backend.
func (c *Client) CreateReminder(ctx context.Context, req CreateReminderRequest) (*models.Reminder, error) {
	var out models.Reminder
	if err := c.do(ctx, http.MethodPost, "/v1/reminders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchUpcomingReminders implements Backend.
func (c *Client) FetchUpcomingReminders(ctx context.Context) ([]models.Reminder, error) {
	var out struct {
		Reminders []models.Reminder `json:"reminders"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/reminders/upcoming", nil, &out); err != nil {
		return nil, err
	}
	return out.Reminders, nil
}

// FetchAgendaToday implements Backend.
func (c *Client) FetchAgendaToday(ctx context.Context) (*AgendaToday, error) {
	var out AgendaToday
	if err := c.do(ctx, http.MethodGet, "/v1/agenda/today", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCallStatsToday implements Backend.
func (c *Client) FetchCallStatsToday(ctx context.Context) (*models.CallStats, error) {
	var out models.CallStats
	if err := c.do(ctx, http.MethodGet, "/v1/stats/calls/today", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
