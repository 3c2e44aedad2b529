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

type HabitLogRepository struct {
	repository
}

type habitLogRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	HabitID     string    `db:"habit_id"`
	Date        string    `db:"date"`
	CompletedAt time.Time `db:"completed_at"`
}

var _ ports.HabitLogRepository = (*HabitLogRepository)(nil)

func NewHabitLogRepository(db *sqlx.DB, events *ChangeBroker) *HabitLogRepository {
	return &HabitLogRepository{repository{db: db, events: events}}
}

// ListHabitLogs returns the user's logs dated on or after since.
func (r *HabitLogRepository) ListHabitLogs(ctx context.Context, userID string, since domain.Day) ([]domain.HabitLog, error) {
	var rows []habitLogRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, user_id, habit_id, date, completed_at FROM habit_logs
		 WHERE user_id = ? AND date >= ? ORDER BY date, habit_id`,
		userID, since.String(),
	)
	if err != nil {
		return nil, err
	}

	logs := make([]domain.HabitLog, 0, len(rows))
	for _, row := range rows {
		day, err := domain.ParseDay(row.Date)
		if err != nil {
			continue
		}
		logs = append(logs, domain.HabitLog{
			ID:          row.ID,
			UserID:      row.UserID,
			HabitID:     row.HabitID,
			Date:        day,
			CompletedAt: row.CompletedAt.UTC(),
		})
	}
	return logs, nil
}

// UpsertHabitLogs writes logs keyed by (habit_id, date); an existing log for
// the same key keeps its id and takes the new completion time.
func (r *HabitLogRepository) UpsertHabitLogs(ctx context.Context, logs ...domain.HabitLog) error {
	if len(logs) == 0 {
		return nil
	}

	query := `INSERT INTO habit_logs (id, user_id, habit_id, date, completed_at) VALUES (?, ?, ?, ?, ?) ` +
		upsertClause(r.db.DriverName(), []string{"habit_id", "date"}, "completed_at")

	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, log := range logs {
			_, err := tx.ExecContext(ctx, query,
				uuid.NewString(), log.UserID, log.HabitID, log.Date.String(), log.CompletedAt.UTC())
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(logs) == 1 {
		if stored, err := r.getLog(ctx, logs[0].HabitID, logs[0].Date); err == nil {
			r.publish(domain.ChangeEvent{
				Table:    domain.TableHabitLogs,
				Op:       domain.ChangeInsert,
				UserID:   stored.UserID,
				RecordID: stored.ID,
				Record:   stored,
			})
			return nil
		}
	}
	for _, userID := range distinctUsers(logs) {
		r.publish(domain.ChangeEvent{Table: domain.TableHabitLogs, Op: domain.ChangeInsert, UserID: userID})
	}
	return nil
}

func (r *HabitLogRepository) getLog(ctx context.Context, habitID string, date domain.Day) (domain.HabitLog, error) {
	var row habitLogRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, user_id, habit_id, date, completed_at FROM habit_logs WHERE habit_id = ? AND date = ?`,
		habitID, date.String(),
	)
	if err != nil {
		return domain.HabitLog{}, err
	}
	return domain.HabitLog{
		ID:          row.ID,
		UserID:      row.UserID,
		HabitID:     row.HabitID,
		Date:        date,
		CompletedAt: row.CompletedAt.UTC(),
	}, nil
}

func (r *HabitLogRepository) DeleteHabitLog(ctx context.Context, habitID string, date domain.Day) error {
	stored, err := r.getLog(ctx, habitID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date.String()); err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableHabitLogs, Op: domain.ChangeDelete, UserID: stored.UserID})
	return nil
}

func distinctUsers(logs []domain.HabitLog) []string {
	seen := make(map[string]struct{}, 1)
	users := make([]string, 0, 1)
	for _, log := range logs {
		if _, ok := seen[log.UserID]; ok {
			continue
		}
		seen[log.UserID] = struct{}{}
		users = append(users, log.UserID)
	}
	return users
}
