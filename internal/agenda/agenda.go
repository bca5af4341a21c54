// Package agenda merges reminders, calendar events, the call-plan
// summary, and manual tasks into one ordered, checkable daily list.
package agenda

import (
	"fmt"
	"time"

	"github.com/veldt/callsheet/internal/checksum"
	"github.com/veldt/callsheet/internal/models"
)

// Key builders. Keys must be unique within the merged list and stable
// across rebuilds so checked flags persist independently of the source
// entity. Calendar events often lack a durable id, so their key is a
// digest of label and start time.
func reminderKey(r models.Reminder) string {
	if r.ID != "" {
		return "reminder:" + r.ID
	}
	return "reminder:" + checksum.Key(r.Note, timeKeyPart(r.FireAt))
}

func eventKey(e models.CalendarEvent) string {
	if e.ID != "" {
		return "event:" + e.ID
	}
	return "event:" + checksum.Key(e.Label, timeKeyPart(e.StartAt))
}

func timeKeyPart(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// planSummaryKey is shared by every rebuild of the synthetic item so
// its checked state sticks for the day.
const planSummaryKey = "plan:summary"

// Build merges the agenda inputs in fixed order: reminders first (in
// their existing order), then calendar events, then a single synthetic
// call-plan summary when planCount > 0, then manual items in creation
// order. checked carries the independently persisted flags.
func Build(reminders []models.Reminder, events []models.CalendarEvent, planCount int, manual []models.ManualItem, checked map[string]bool) []models.AgendaItem {
	out := make([]models.AgendaItem, 0, len(reminders)+len(events)+len(manual)+1)

	for _, r := range reminders {
		key := reminderKey(r)
		out = append(out, models.AgendaItem{
			Kind:    models.AgendaReminder,
			Key:     key,
			Label:   r.Note,
			Time:    r.FireAt,
			Checked: checked[key],
		})
	}
	for _, e := range events {
		key := eventKey(e)
		out = append(out, models.AgendaItem{
			Kind:    models.AgendaEvent,
			Key:     key,
			Label:   e.Label,
			Detail:  e.Location,
			Time:    e.StartAt,
			Checked: checked[key],
		})
	}
	if planCount > 0 {
		out = append(out, models.AgendaItem{
			Kind:    models.AgendaPlanSummary,
			Key:     planSummaryKey,
			Label:   planSummaryLabel(planCount),
			Checked: checked[planSummaryKey],
		})
	}
	for _, m := range manual {
		key := "manual:" + m.ID
		out = append(out, models.AgendaItem{
			Kind:    models.AgendaManual,
			Key:     key,
			Label:   m.Label,
			Detail:  m.Detail,
			Checked: checked[key],
		})
	}
	return out
}

func planSummaryLabel(n int) string {
	if n == 1 {
		return "1 contact in today's call plan"
	}
	return fmt.Sprintf("%d contacts in today's call plan", n)
}

// NextUnchecked returns the first item in merged order whose checked
// flag is false. Merge order, not recency or priority, decides what
// surfaces in the collapsed view.
func NextUnchecked(items []models.AgendaItem) (models.AgendaItem, bool) {
	for _, it := range items {
		if !it.Checked {
			return it, true
		}
	}
	return models.AgendaItem{}, false
}
