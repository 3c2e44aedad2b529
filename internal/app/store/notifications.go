package store

import (
	"context"

	"go.uber.org/zap"

	"crystalos/internal/core/domain"
)

// AddNotification prepends a notification. While focus mode is active the
// call is suppressed and returns false.
func (s *Store) AddNotification(ctx context.Context, in domain.CreateNotificationInput) (domain.Notification, bool, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return domain.Notification{}, false, domain.ErrNoActiveUser
	}
	if s.data.focus.IsActive {
		s.mu.Unlock()
		s.logger.Debug("focus mode active, notification suppressed", zap.String("title", in.Title))
		return domain.Notification{}, false, nil
	}
	kind := in.Type
	if kind == "" {
		kind = domain.DefaultNotificationType
	}
	n := domain.Notification{
		ID:        domain.NewTempID(),
		UserID:    user.ID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      kind,
		CreatedAt: s.now(),
	}
	s.data.notifications = append([]domain.Notification{n}, s.data.notifications...)
	s.mu.Unlock()
	s.publish()

	created, err := s.gateway.InsertNotification(ctx, n)
	if err != nil {
		s.fail("add_notification", domain.TableNotifications, n.ID, err)
		return n, true, nil
	}

	s.mu.Lock()
	s.data.notifications = reconcile(s.data.notifications, n.ID, created, notificationID)
	s.mu.Unlock()
	s.publish()
	return created, true, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.ErrNoActiveUser
	}
	i := indexByID(s.data.notifications, id, notificationID)
	if i < 0 {
		s.mu.Unlock()
		return domain.ErrNotificationNotFound
	}
	s.data.notifications[i].Read = true
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.MarkNotificationRead(ctx, id); err != nil {
		s.fail("mark_notification_read", domain.TableNotifications, id, err)
	}
	return nil
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.ErrNoActiveUser
	}
	if indexByID(s.data.notifications, id, notificationID) < 0 {
		s.mu.Unlock()
		return domain.ErrNotificationNotFound
	}
	s.data.notifications = removeByID(s.data.notifications, id, notificationID)
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.DeleteNotification(ctx, id); err != nil {
		s.fail("delete_notification", domain.TableNotifications, id, err)
	}
	return nil
}

func (s *Store) ClearAllNotifications(ctx context.Context) error {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return domain.ErrNoActiveUser
	}
	s.data.notifications = nil
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.DeleteNotificationsByUser(ctx, user.ID); err != nil {
		s.fail("clear_notifications", domain.TableNotifications, "", err)
	}
	return nil
}
