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

const selectTimetableQuery = `
SELECT id, user_id, activity, category, start_time, end_time, recurrence, day, date, completed, created_at
FROM timetable
`

type TimetableRepository struct {
	repository
}

type timetableRow struct {
	ID         string         `db:"id"`
	UserID     string         `db:"user_id"`
	Activity   string         `db:"activity"`
	Category   string         `db:"category"`
	StartTime  string         `db:"start_time"`
	EndTime    string         `db:"end_time"`
	Recurrence string         `db:"recurrence"`
	Day        sql.NullString `db:"day"`
	Date       sql.NullString `db:"date"`
	Completed  bool           `db:"completed"`
	CreatedAt  time.Time      `db:"created_at"`
}

var _ ports.TimetableRepository = (*TimetableRepository)(nil)

func NewTimetableRepository(db *sqlx.DB, events *ChangeBroker) *TimetableRepository {
	return &TimetableRepository{repository{db: db, events: events}}
}

func (r *TimetableRepository) ListTimetable(ctx context.Context, userID string) ([]domain.TimetableItem, error) {
	var rows []timetableRow
	if err := r.db.SelectContext(ctx, &rows, selectTimetableQuery+"WHERE user_id = ? ORDER BY start_time, id", userID); err != nil {
		return nil, err
	}

	items := make([]domain.TimetableItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapTimetableRow(row))
	}
	return items, nil
}

func (r *TimetableRepository) getItem(ctx context.Context, id string) (domain.TimetableItem, error) {
	var row timetableRow
	if err := r.db.GetContext(ctx, &row, selectTimetableQuery+"WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TimetableItem{}, domain.ErrTimetableNotFound
		}
		return domain.TimetableItem{}, err
	}
	return mapTimetableRow(row), nil
}

func (r *TimetableRepository) InsertTimetableItem(ctx context.Context, item domain.TimetableItem) (domain.TimetableItem, error) {
	item = item.Normalize()

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO timetable (id, user_id, activity, category, start_time, end_time, recurrence, day, date, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.UserID, item.Activity, item.Category, item.StartTime, item.EndTime,
		string(item.Recurrence), nullString(item.Day), nullDay(item.Date), item.Completed, createdAt(item.CreatedAt),
	)
	if err != nil {
		return domain.TimetableItem{}, err
	}

	created, err := r.getItem(ctx, id)
	if err != nil {
		return domain.TimetableItem{}, err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableTimetable, Op: domain.ChangeInsert, UserID: created.UserID, RecordID: id, Record: created})
	return created, nil
}

func (r *TimetableRepository) UpdateTimetableItem(ctx context.Context, id string, patch domain.TimetablePatch) error {
	var s setter
	if patch.Activity != nil {
		s.set("activity", *patch.Activity)
	}
	if patch.Category != nil {
		s.set("category", *patch.Category)
	}
	if patch.StartTime != nil {
		s.set("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		s.set("end_time", *patch.EndTime)
	}
	if patch.Recurrence != nil {
		s.set("recurrence", string(*patch.Recurrence))
	}
	if patch.Day != nil {
		s.set("day", nullString(*patch.Day))
	}
	if patch.Date != nil {
		s.set("date", nullDay(*patch.Date))
	}
	if patch.Completed != nil {
		s.set("completed", *patch.Completed)
	}
	if s.empty() {
		return nil
	}

	if err := r.update(ctx, domain.TableTimetable, id, s); err != nil {
		return err
	}
	updated, err := r.getItem(ctx, id)
	if err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableTimetable, Op: domain.ChangeUpdate, UserID: updated.UserID, RecordID: id, Record: updated})
	return nil
}

func (r *TimetableRepository) DeleteTimetableItem(ctx context.Context, id string) error {
	return r.deleteByID(ctx, domain.TableTimetable, id, domain.ErrTimetableNotFound)
}

func mapTimetableRow(row timetableRow) domain.TimetableItem {
	return domain.TimetableItem{
		ID:         row.ID,
		UserID:     row.UserID,
		Activity:   row.Activity,
		Category:   row.Category,
		StartTime:  row.StartTime,
		EndTime:    row.EndTime,
		Recurrence: domain.Recurrence(row.Recurrence),
		Day:        row.Day.String,
		Date:       dayOf(row.Date),
		Completed:  row.Completed,
		CreatedAt:  row.CreatedAt.UTC(),
	}
}
