package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const selectHabitsQuery = `
SELECT id, user_id, name, type, completed, streak, last_completed_at, note, created_at
FROM habits
`

type HabitRepository struct {
	repository
}

type habitRow struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	Name            string         `db:"name"`
	Type            string         `db:"type"`
	Completed       bool           `db:"completed"`
	Streak          int            `db:"streak"`
	LastCompletedAt sql.NullTime   `db:"last_completed_at"`
	Note            sql.NullString `db:"note"`
	CreatedAt       time.Time      `db:"created_at"`
}

var _ ports.HabitRepository = (*HabitRepository)(nil)

func NewHabitRepository(db *sqlx.DB, events *ChangeBroker) *HabitRepository {
	return &HabitRepository{repository{db: db, events: events}}
}

func (r *HabitRepository) ListHabits(ctx context.Context, userID string) ([]domain.Habit, error) {
	var rows []habitRow
	if err := r.db.SelectContext(ctx, &rows, selectHabitsQuery+"WHERE user_id = ? ORDER BY created_at, id", userID); err != nil {
		return nil, err
	}

	habits := make([]domain.Habit, 0, len(rows))
	for _, row := range rows {
		habits = append(habits, mapHabitRow(row))
	}
	return habits, nil
}

func (r *HabitRepository) getHabit(ctx context.Context, id string) (domain.Habit, error) {
	var row habitRow
	if err := r.db.GetContext(ctx, &row, selectHabitsQuery+"WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Habit{}, domain.ErrHabitNotFound
		}
		return domain.Habit{}, err
	}
	return mapHabitRow(row), nil
}

func (r *HabitRepository) InsertHabit(ctx context.Context, habit domain.Habit) (domain.Habit, error) {
	if !habit.Type.Valid() {
		habit.Type = domain.HabitTypePermanent
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO habits (id, user_id, name, type, completed, streak, last_completed_at, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, habit.UserID, habit.Name, string(habit.Type), habit.Completed, habit.Streak,
		nullTime(habit.LastCompletedAt), nullString(habit.Note), createdAt(habit.CreatedAt),
	)
	if err != nil {
		return domain.Habit{}, err
	}

	created, err := r.getHabit(ctx, id)
	if err != nil {
		return domain.Habit{}, err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableHabits, Op: domain.ChangeInsert, UserID: created.UserID, RecordID: id, Record: created})
	return created, nil
}

func (r *HabitRepository) UpdateHabit(ctx context.Context, id string, patch domain.HabitPatch) error {
	if patch.Empty() {
		return nil
	}

	var s setter
	if patch.Name != nil {
		s.set("name", *patch.Name)
	}
	if patch.Type != nil {
		s.set("type", string(*patch.Type))
	}
	if patch.Note != nil {
		s.set("note", nullString(*patch.Note))
	}
	if patch.Completed != nil {
		s.set("completed", *patch.Completed)
	}
	if patch.Streak != nil {
		s.set("streak", *patch.Streak)
	}
	if patch.LastCompletedAtSet {
		s.set("last_completed_at", nullTime(patch.LastCompletedAt))
	}

	if err := r.update(ctx, domain.TableHabits, id, s); err != nil {
		return err
	}
	updated, err := r.getHabit(ctx, id)
	if err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableHabits, Op: domain.ChangeUpdate, UserID: updated.UserID, RecordID: id, Record: updated})
	return nil
}

func (r *HabitRepository) DeleteHabit(ctx context.Context, id string) error {
	return r.deleteByID(ctx, domain.TableHabits, id, domain.ErrHabitNotFound)
}

// ResetPermanentHabits clears completed on permanent habits whose last
// completion is before the given instant. Streaks are left alone.
func (r *HabitRepository) ResetPermanentHabits(ctx context.Context, userID string, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE habits SET completed = ?
		 WHERE user_id = ? AND type = ? AND completed = ? AND last_completed_at < ?`,
		false, userID, string(domain.HabitTypePermanent), true, before.UTC(),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.publish(domain.ChangeEvent{Table: domain.TableHabits, Op: domain.ChangeUpdate, UserID: userID})
	}
	return n, nil
}

func mapHabitRow(row habitRow) domain.Habit {
	return domain.Habit{
		ID:              row.ID,
		UserID:          row.UserID,
		Name:            row.Name,
		Type:            domain.HabitType(row.Type),
		Completed:       row.Completed,
		Streak:          row.Streak,
		LastCompletedAt: timePtr(row.LastCompletedAt),
		Note:            row.Note.String,
		CreatedAt:       row.CreatedAt.UTC(),
	}
}
