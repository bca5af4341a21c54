package models

import "time"

// AgendaKind tags the source of an agenda item.
type AgendaKind string

const (
	AgendaReminder    AgendaKind = "reminder"
	AgendaEvent       AgendaKind = "event"
	AgendaPlanSummary AgendaKind = "plan_summary"
	AgendaManual      AgendaKind = "manual"
)

// AgendaItem is one unit in the unified daily list. Key is unique
// within the merged list and stable across rebuilds, so the checked
// flag can be persisted independently of the source entity.
type AgendaItem struct {
	Kind    AgendaKind `json:"kind"`
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Detail  string     `json:"detail,omitempty"`
	Time    *time.Time `json:"time,omitempty"`
	Checked bool       `json:"checked"`
}

// ManualItem is an operator-added agenda entry, persisted locally.
type ManualItem struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
