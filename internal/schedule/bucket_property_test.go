package schedule

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// TestClassifyTotal verifies every timestamp lands in exactly one
// bucket and that dated reminders never land in no_date.
func TestClassifyTotal(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	rapid.Check(t, func(t *rapid.T) {
		offset := rapid.Int64Range(-30*24*3600, 30*24*3600).Draw(t, "offsetSeconds")
		fireAt := now.Add(time.Duration(offset) * time.Second)
		b := Classify(&fireAt, now)
		if b == BucketNoDate {
			t.Fatalf("dated reminder bucketed no_date (offset %ds)", offset)
		}
		if offset < 0 && b != BucketOverdue {
			t.Fatalf("past reminder bucketed %v", b)
		}
	})
}
