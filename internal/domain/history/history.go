// Package history provides listening records and learning streaks.
package history

import (
	"time"
)

// Record represents one narrated article as experienced by the learner.
type Record struct {
	ID              string    // UUID
	ArticleID       string    // Narrated article
	ArticleTitle    string    // Title at the time of listening
	ListenedSeconds int       // Wall time the article was current
	Completed       bool      // Narration reached the end
	CreatedAt       time.Time // When the record was written
}

// Stats summarises a set of records.
type Stats struct {
	TotalRecords    int
	CompletedCount  int
	ListenedSeconds int
	StreakDays      int
}

// Summarize computes stats for the given records relative to now.
func Summarize(records []Record, now time.Time) Stats {
	var stats Stats
	timestamps := make([]time.Time, 0, len(records))
	for _, r := range records {
		stats.TotalRecords++
		stats.ListenedSeconds += r.ListenedSeconds
		if r.Completed {
			stats.CompletedCount++
		}
		timestamps = append(timestamps, r.CreatedAt)
	}
	stats.StreakDays = Streak(timestamps, now)
	return stats
}

// Streak returns the number of consecutive calendar days with at least one timestamp.
// The streak is anchored on today, or on yesterday when nothing has happened today yet.
// Days are computed in now's location.
func Streak(timestamps []time.Time, now time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}

	loc := now.Location()
	days := make(map[time.Time]bool, len(timestamps))
	for _, ts := range timestamps {
		days[dayOf(ts.In(loc))] = true
	}

	day := dayOf(now)
	if !days[day] {
		day = day.AddDate(0, 0, -1)
		if !days[day] {
			return 0
		}
	}

	streak := 0
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// dayOf truncates t to midnight in its own location.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
