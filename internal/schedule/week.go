package schedule

import (
	"time"

	"github.com/veldt/callsheet/internal/models"
)

// maxDots caps the per-day indicator count shown on the week strip.
const maxDots = 3

// DayCell is one day of the current week with its reminder load.
type DayCell struct {
	Date         time.Time `json:"date"`
	Count        int       `json:"count"`
	DisplayCount int       `json:"display_count"`
	IsToday      bool      `json:"is_today"`
}

// weekStart returns midnight of the Monday of now's week.
func weekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekStrip buckets every dated reminder into the 7 calendar days of
// the current Monday-start week by day-interval containment. This is
// computed independently of the due-date grouping in Classify; the two
// agree for reminders inside the current week.
func WeekStrip(reminders []models.Reminder, now time.Time) []DayCell {
	start := weekStart(now)
	cells := make([]DayCell, 7)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = DayCell{
			Date:    d,
			IsToday: d.Year() == now.Year() && d.YearDay() == now.YearDay(),
		}
	}
	for _, r := range reminders {
		if r.FireAt == nil {
			continue
		}
		for i := range cells {
			dayStart := cells[i].Date
			dayEnd := dayStart.Add(24 * time.Hour)
			if !r.FireAt.Before(dayStart) && r.FireAt.Before(dayEnd) {
				cells[i].Count++
				break
			}
		}
	}
	for i := range cells {
		cells[i].DisplayCount = cells[i].Count
		if cells[i].DisplayCount > maxDots {
			cells[i].DisplayCount = maxDots
		}
	}
	return cells
}
