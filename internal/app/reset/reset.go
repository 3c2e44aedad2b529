// Package reset clears the daily completion flag of permanent habits once per
// local calendar day.
package reset

import (
	"time"

	"crystalos/internal/core/domain"
)

// Apply returns habits with completed cleared on every permanent habit whose
// last completion falls on a day other than today. It is a no-op when
// lastReset is already today. Streaks are never changed and temporary habits
// are never touched.
func Apply(habits []domain.Habit, lastReset, today domain.Day, loc *time.Location) ([]domain.Habit, bool) {
	if lastReset == today {
		return habits, false
	}

	out := make([]domain.Habit, len(habits))
	copy(out, habits)
	for i, h := range out {
		if Due(h, today, loc) {
			out[i].Completed = false
		}
	}
	return out, true
}

// Due reports whether h has to be cleared on today.
func Due(h domain.Habit, today domain.Day, loc *time.Location) bool {
	if h.Type != domain.HabitTypePermanent || h.LastCompletedAt == nil {
		return false
	}
	return domain.DayOf(*h.LastCompletedAt, loc) != today
}
