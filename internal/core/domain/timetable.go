package domain

import (
	"fmt"
	"time"
)

type Recurrence string

const (
	RecurrenceWeekly Recurrence = "weekly"
	RecurrenceOnce   Recurrence = "once"
)

const DefaultTimetableCategory = "Work"

type TimetableItem struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Activity   string     `json:"activity"`
	Category   string     `json:"category"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	Recurrence Recurrence `json:"recurrence"`
	Day        string     `json:"day,omitempty"`
	Date       Day        `json:"date"`
	Completed  bool       `json:"completed"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Normalize enforces the recurrence invariant: weekly items carry a weekday
// name and no date, one-off items carry a date and no weekday.
func (t TimetableItem) Normalize() TimetableItem {
	if t.Category == "" {
		t.Category = DefaultTimetableCategory
	}
	switch t.Recurrence {
	case RecurrenceOnce:
		t.Day = ""
	default:
		t.Recurrence = RecurrenceWeekly
		t.Date = Day{}
	}
	return t
}

// Validate reports ErrInvalidSchedule when a normalized item could never be
// listed: a weekly item without a weekday, a one-off item without a date, or
// an end time not after the start time.
func (t TimetableItem) Validate() error {
	switch t.Recurrence {
	case RecurrenceWeekly:
		if !IsWeekday(t.Day) {
			return fmt.Errorf("%w: weekly item needs a weekday, got %q", ErrInvalidSchedule, t.Day)
		}
	case RecurrenceOnce:
		if t.Date.IsZero() {
			return fmt.Errorf("%w: one-off item needs a date", ErrInvalidSchedule)
		}
	default:
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalidSchedule, t.Recurrence)
	}
	if t.EndTime <= t.StartTime {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidSchedule, t.EndTime, t.StartTime)
	}
	return nil
}

func IsWeekday(name string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return true
		}
	}
	return false
}

// OccursOn reports whether the item is scheduled on day.
func (t TimetableItem) OccursOn(day Day) bool {
	switch t.Recurrence {
	case RecurrenceWeekly:
		return t.Day == day.Weekday().String()
	case RecurrenceOnce:
		return t.Date == day
	}
	return false
}

type TimetablePatch struct {
	Activity   *string
	Category   *string
	StartTime  *string
	EndTime    *string
	Recurrence *Recurrence
	Day        *string
	Date       *Day
	Completed  *bool
}

func (p TimetablePatch) Apply(t TimetableItem) TimetableItem {
	if p.Activity != nil {
		t.Activity = *p.Activity
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}
	if p.Recurrence != nil {
		t.Recurrence = *p.Recurrence
	}
	if p.Day != nil {
		t.Day = *p.Day
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t.Normalize()
}
