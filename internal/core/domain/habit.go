package domain

import "time"

type HabitType string

const (
	HabitTypePermanent HabitType = "permanent"
	HabitTypeTemporary HabitType = "temporary"
)

func (t HabitType) Valid() bool {
	return t == HabitTypePermanent || t == HabitTypeTemporary
}

type Habit struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	Type            HabitType  `json:"type"`
	Completed       bool       `json:"completed"`
	Streak          int        `json:"streak"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	Note            string     `json:"note"`
	CreatedAt       time.Time  `json:"created_at"`
}

// HabitPatch holds the fields an update touches. LastCompletedAt is only
// written when LastCompletedAtSet is true so it can be cleared.
type HabitPatch struct {
	Name               *string
	Type               *HabitType
	Note               *string
	Completed          *bool
	Streak             *int
	LastCompletedAt    *time.Time
	LastCompletedAtSet bool
}

func (p HabitPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Note == nil &&
		p.Completed == nil && p.Streak == nil && !p.LastCompletedAtSet
}

// Apply merges the patch into h.
func (p HabitPatch) Apply(h Habit) Habit {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Type != nil {
		h.Type = *p.Type
	}
	if p.Note != nil {
		h.Note = *p.Note
	}
	if p.Completed != nil {
		h.Completed = *p.Completed
	}
	if p.Streak != nil {
		h.Streak = *p.Streak
	}
	if p.LastCompletedAtSet {
		h.LastCompletedAt = p.LastCompletedAt
	}
	return h
}

type HabitLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	HabitID     string    `json:"habit_id"`
	Date        Day       `json:"date"`
	CompletedAt time.Time `json:"completed_at"`
}
