// Package schedule buckets reminder timestamps for grouped views: the
// six-way due-date grouping and the Monday-start week strip.
package schedule

import (
	"time"

	"github.com/veldt/callsheet/internal/models"
)

// Bucket labels, in display order.
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketToday    Bucket = "today"
	BucketTomorrow Bucket = "tomorrow"
	BucketThisWeek Bucket = "this_week"
	BucketLater    Bucket = "later"
	BucketNoDate   Bucket = "no_date"
)

// Order lists the buckets in the order grouped views render them.
var Order = []Bucket{BucketOverdue, BucketToday, BucketTomorrow, BucketThisWeek, BucketLater, BucketNoDate}

// endOfDay returns 23:59:59.999 local on t's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// Classify assigns fireAt to a bucket relative to now. The chain is a
// strict priority order evaluated top to bottom; upper bounds are
// inclusive, and overdue is exclusive of now itself.
func Classify(fireAt *time.Time, now time.Time) Bucket {
	if fireAt == nil {
		return BucketNoDate
	}
	end := endOfDay(now)
	switch {
	case fireAt.Before(now):
		return BucketOverdue
	case !fireAt.After(end):
		return BucketToday
	case !fireAt.After(end.Add(24 * time.Hour)):
		return BucketTomorrow
	case !fireAt.After(end.Add(7 * 24 * time.Hour)):
		return BucketThisWeek
	default:
		return BucketLater
	}
}

// Group partitions reminders into buckets, preserving input order
// within each bucket.
func Group(reminders []models.Reminder, now time.Time) map[Bucket][]models.Reminder {
	out := make(map[Bucket][]models.Reminder)
	for _, r := range reminders {
		b := Classify(r.FireAt, now)
		out[b] = append(out[b], r)
	}
	return out
}
