package schedule

import (
	"testing"
	"time"

	"github.com/veldt/callsheet/internal/models"
)

func ts(t time.Time) *time.Time { return &t }

func TestClassifyChain(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local) // Monday afternoon

	cases := []struct {
		name   string
		fireAt *time.Time
		want   Bucket
	}{
		{"nil is no_date", nil, BucketNoDate},
		{"one second ago is overdue", ts(now.Add(-time.Second)), BucketOverdue},
		{"one second ahead same day is today", ts(now.Add(time.Second)), BucketToday},
		{"end of today is today", ts(time.Date(2025, 3, 10, 23, 59, 59, 0, time.Local)), BucketToday},
		{"25h out is tomorrow", ts(now.Add(25 * time.Hour)), BucketTomorrow},
		{"three days out is this_week", ts(now.AddDate(0, 0, 3)), BucketThisWeek},
		{"seven days out is this_week", ts(time.Date(2025, 3, 17, 10, 0, 0, 0, time.Local)), BucketThisWeek},
		{"exactly eight days out is later", ts(now.AddDate(0, 0, 8)), BucketLater},
	}
	for _, c := range cases {
		if got := Classify(c.fireAt, now); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestClassifyNowIsNotOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	if got := Classify(ts(now), now); got != BucketToday {
		t.Errorf("fireAt == now should be today, got %v", got)
	}
}

func TestGroupPreservesOrder(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	rs := []models.Reminder{
		{ID: "a", FireAt: ts(now.Add(time.Hour))},
		{ID: "b", FireAt: ts(now.Add(-time.Hour))},
		{ID: "c", FireAt: ts(now.Add(2 * time.Hour))},
		{ID: "d", IsTask: true},
	}
	g := Group(rs, now)
	today := g[BucketToday]
	if len(today) != 2 || today[0].ID != "a" || today[1].ID != "c" {
		t.Errorf("today bucket = %+v, want [a c]", today)
	}
	if len(g[BucketOverdue]) != 1 || g[BucketOverdue][0].ID != "b" {
		t.Errorf("overdue bucket = %+v", g[BucketOverdue])
	}
	if len(g[BucketNoDate]) != 1 || g[BucketNoDate][0].ID != "d" {
		t.Errorf("no_date bucket = %+v", g[BucketNoDate])
	}
}

func TestWeekStripMondayStart(t *testing.T) {
	// Wednesday 2025-03-12.
	now := time.Date(2025, 3, 12, 11, 0, 0, 0, time.Local)
	cells := WeekStrip(nil, now)
	if len(cells) != 7 {
		t.Fatalf("len = %d, want 7", len(cells))
	}
	if cells[0].Date.Weekday() != time.Monday {
		t.Errorf("first cell weekday = %v, want Monday", cells[0].Date.Weekday())
	}
	if cells[0].Date.Day() != 10 {
		t.Errorf("week starts on day %d, want 10", cells[0].Date.Day())
	}
	if !cells[2].IsToday {
		t.Error("Wednesday cell should be marked today")
	}
}

func TestWeekStripSundayBelongsToPriorMonday(t *testing.T) {
	// Sunday 2025-03-16 is the tail of the week starting Monday 03-10.
	now := time.Date(2025, 3, 16, 9, 0, 0, 0, time.Local)
	cells := WeekStrip(nil, now)
	if cells[0].Date.Day() != 10 {
		t.Errorf("week start day = %d, want 10", cells[0].Date.Day())
	}
	if !cells[6].IsToday {
		t.Error("Sunday should be the last cell")
	}
}

func TestWeekStripCountsAndCap(t *testing.T) {
	now := time.Date(2025, 3, 12, 11, 0, 0, 0, time.Local)
	var rs []models.Reminder
	// Five reminders on Thursday, one on Monday, one undated, one next week.
	thu := time.Date(2025, 3, 13, 9, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		rs = append(rs, models.Reminder{FireAt: ts(thu.Add(time.Duration(i) * time.Hour))})
	}
	rs = append(rs,
		models.Reminder{FireAt: ts(time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local))},
		models.Reminder{IsTask: true},
		models.Reminder{FireAt: ts(time.Date(2025, 3, 19, 9, 0, 0, 0, time.Local))},
	)
	cells := WeekStrip(rs, now)
	if cells[3].Count != 5 {
		t.Errorf("Thursday count = %d, want 5", cells[3].Count)
	}
	if cells[3].DisplayCount != 3 {
		t.Errorf("Thursday display count = %d, want capped 3", cells[3].DisplayCount)
	}
	if cells[0].Count != 1 {
		t.Errorf("Monday count = %d, want 1", cells[0].Count)
	}
	var total int
	for _, c := range cells {
		total += c.Count
	}
	if total != 6 {
		t.Errorf("total in-week count = %d, want 6", total)
	}
}
