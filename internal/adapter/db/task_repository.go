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

const selectTasksQuery = `
SELECT id, user_id, title, completed, completed_at, created_at
FROM tasks
`

type TaskRepository struct {
	repository
}

type taskRow struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Title       string       `db:"title"`
	Completed   bool         `db:"completed"`
	CompletedAt sql.NullTime `db:"completed_at"`
	CreatedAt   time.Time    `db:"created_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB, events *ChangeBroker) *TaskRepository {
	return &TaskRepository{repository{db: db, events: events}}
}

func (r *TaskRepository) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, selectTasksQuery+"WHERE user_id = ? ORDER BY created_at, id", userID); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	return tasks, nil
}

func (r *TaskRepository) getTask(ctx context.Context, id string) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, selectTasksQuery+"WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return mapTaskRowToDomainTask(row), nil
}

// InsertTask stores task under a fresh id and returns the stored row.
func (r *TaskRepository) InsertTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, completed, completed_at, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, task.UserID, task.Title, task.Completed, nullTime(task.CompletedAt), createdAt(task.CreatedAt),
	)
	if err != nil {
		return domain.Task{}, err
	}

	created, err := r.getTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableTasks, Op: domain.ChangeInsert, UserID: created.UserID, RecordID: id, Record: created})
	return created, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error {
	var s setter
	if patch.Completed != nil {
		s.set("completed", *patch.Completed)
	}
	if patch.CompletedAtSet {
		s.set("completed_at", nullTime(patch.CompletedAt))
	}
	if s.empty() {
		return nil
	}

	if err := r.update(ctx, domain.TableTasks, id, s); err != nil {
		return err
	}
	updated, err := r.getTask(ctx, id)
	if err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableTasks, Op: domain.ChangeUpdate, UserID: updated.UserID, RecordID: id, Record: updated})
	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	return r.deleteByID(ctx, domain.TableTasks, id, domain.ErrTaskNotFound)
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	return domain.Task{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Completed:   row.Completed,
		CompletedAt: timePtr(row.CompletedAt),
		CreatedAt:   row.CreatedAt.UTC(),
	}
}
