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

const selectNotificationsQuery = `
SELECT id, user_id, title, message, type, is_read, created_at
FROM notifications
`

type NotificationRepository struct {
	repository
}

type notificationRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Title     string         `db:"title"`
	Message   sql.NullString `db:"message"`
	Type      string         `db:"type"`
	Read      bool           `db:"is_read"`
	CreatedAt time.Time      `db:"created_at"`
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB, events *ChangeBroker) *NotificationRepository {
	return &NotificationRepository{repository{db: db, events: events}}
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, selectNotificationsQuery+"WHERE user_id = ? ORDER BY created_at DESC, id", userID); err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, mapNotificationRow(row))
	}
	return notifications, nil
}

func (r *NotificationRepository) getNotification(ctx context.Context, id string) (domain.Notification, error) {
	var row notificationRow
	if err := r.db.GetContext(ctx, &row, selectNotificationsQuery+"WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Notification{}, domain.ErrNotificationNotFound
		}
		return domain.Notification{}, err
	}
	return mapNotificationRow(row), nil
}

func (r *NotificationRepository) InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.Type == "" {
		n.Type = domain.DefaultNotificationType
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, n.UserID, n.Title, nullString(n.Message), n.Type, n.Read, createdAt(n.CreatedAt),
	)
	if err != nil {
		return domain.Notification{}, err
	}

	created, err := r.getNotification(ctx, id)
	if err != nil {
		return domain.Notification{}, err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableNotifications, Op: domain.ChangeInsert, UserID: created.UserID, RecordID: id, Record: created})
	return created, nil
}

func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id string) error {
	var s setter
	s.set("is_read", true)
	if err := r.update(ctx, domain.TableNotifications, id, s); err != nil {
		return err
	}

	updated, err := r.getNotification(ctx, id)
	if err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableNotifications, Op: domain.ChangeUpdate, UserID: updated.UserID, RecordID: id, Record: updated})
	return nil
}

func (r *NotificationRepository) DeleteNotification(ctx context.Context, id string) error {
	return r.deleteByID(ctx, domain.TableNotifications, id, domain.ErrNotificationNotFound)
}

func (r *NotificationRepository) DeleteNotificationsByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID); err != nil {
		return err
	}
	r.publish(domain.ChangeEvent{Table: domain.TableNotifications, Op: domain.ChangeDelete, UserID: userID})
	return nil
}

func mapNotificationRow(row notificationRow) domain.Notification {
	return domain.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Message:   row.Message.String,
		Type:      row.Type,
		Read:      row.Read,
		CreatedAt: row.CreatedAt.UTC(),
	}
}
