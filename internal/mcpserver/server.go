// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Callsheet tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/veldt/callsheet/internal/cadence"
	"github.com/veldt/callsheet/internal/models"
	"github.com/veldt/callsheet/internal/planservice"
	"github.com/veldt/callsheet/internal/schedule"
)

// Server wraps the MCP server with Callsheet tools.
type Server struct {
	mcp *server.MCPServer
	svc *planservice.Service
}

// New creates a new MCP server with all Callsheet tools registered.
func New(svc *planservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Callsheet",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("today_plan",
		mcp.WithDescription("List today's call plan with derived priority tiers and qualification signals."),
	), s.todayPlan)

	s.mcp.AddTool(mcp.NewTool("log_call",
		mcp.WithDescription("Log a call outcome for a contact. Returns a follow-up suggestion when the outcome warrants one. "+
			"Valid outcomes: connected, left_message, no_answer, not_interested, callback_requested, appraisal_booked."),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Contact id from the call plan")),
		mcp.WithString("outcome", mcp.Required(), mcp.Description("Call outcome")),
		mcp.WithString("note", mcp.Description("Optional free-text note appended to the context prefix")),
	), s.logCall)

	s.mcp.AddTool(mcp.NewTool("relog_contact",
		mcp.WithDescription("Reset a logged contact back to uncalled so its outcome can be re-entered."),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Contact id from the call plan")),
	), s.relogContact)

	s.mcp.AddTool(mcp.NewTool("upcoming_reminders",
		mcp.WithDescription("List upcoming reminders grouped into due-date buckets (overdue, today, tomorrow, this_week, later, no_date)."),
	), s.upcomingReminders)

	s.mcp.AddTool(mcp.NewTool("agenda_today",
		mcp.WithDescription("Return today's unified agenda (reminders, calendar events, plan summary, manual tasks) and the next unchecked item."),
	), s.agendaToday)

	s.mcp.AddTool(mcp.NewTool("suggest_follow_up",
		mcp.WithDescription("Preview the default follow-up cadence for an outcome without logging anything."),
		mcp.WithString("outcome", mcp.Required(), mcp.Description("Call outcome")),
	), s.suggestFollowUp)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) todayPlan(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(map[string]any{
		"contacts":  s.svc.Plan(),
		"active_id": s.svc.ActiveID(),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) logCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outcome, err := req.RequireString("outcome")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note := ""
	if v, nErr := req.RequireString("note"); nErr == nil {
		note = v
	}

	sug, err := s.svc.LogOutcome(ctx, contactID, models.Outcome(outcome), note, planservice.ContextTodayPlan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sug == nil {
		return mcp.NewToolResultText(fmt.Sprintf("logged %s for %s", outcome, contactID)), nil
	}
	out, _ := json.MarshalIndent(sug, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) relogContact(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, err := s.svc.Relog(contactID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) upcomingReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.svc.UpcomingGrouped(ctx, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	type group struct {
		Bucket    schedule.Bucket   `json:"bucket"`
		Reminders []models.Reminder `json:"reminders"`
	}
	ordered := make([]group, 0, len(groups))
	for _, b := range schedule.Order {
		if rs := groups[b]; len(rs) > 0 {
			ordered = append(ordered, group{Bucket: b, Reminders: rs})
		}
	}
	out, _ := json.MarshalIndent(ordered, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) agendaToday(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, next, err := s.svc.AgendaToday(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"items": items,
		"next":  next,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) suggestFollowUp(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outcome, err := req.RequireString("outcome")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sug, ok := cadence.Suggest(models.Outcome(outcome), time.Now())
	if !ok {
		return mcp.NewToolResultText("no follow-up suggested for outcome " + outcome), nil
	}
	out, _ := json.MarshalIndent(sug, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
