package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

// Subscribe opens the realtime change subscription. Calling it while a
// subscription is active is a no-op. The gateway call runs without the store
// lock; a subscription opened concurrently by another caller wins.
func (s *Store) Subscribe(ctx context.Context) error {
	s.mu.RLock()
	active := s.sub != nil
	user, ok := s.userLocked()
	s.mu.RUnlock()
	if active {
		return nil
	}
	if !ok {
		return domain.ErrNoActiveUser
	}

	sub, err := s.gateway.Subscribe(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("subscribe to changes: %w", err)
	}

	s.mu.Lock()
	current, ok := s.userLocked()
	if s.sub != nil || !ok || current.ID != user.ID {
		s.mu.Unlock()
		if err := sub.Close(); err != nil {
			s.logger.Warn("failed to close redundant subscription", zap.Error(err))
		}
		if !ok || current.ID != user.ID {
			return domain.ErrNoActiveUser
		}
		return nil
	}
	th := newThrottle(s.refetchWindow, s.flushRefetch)
	s.sub = sub
	s.throttle = th
	s.mu.Unlock()

	s.logger.Info("realtime subscription opened", zap.String("user_id", user.ID))
	go s.consume(sub, th)
	s.publish()
	return nil
}

// Unsubscribe closes the active subscription, if any.
func (s *Store) Unsubscribe() {
	s.mu.Lock()
	sub, th := s.sub, s.throttle
	s.sub, s.throttle = nil, nil
	s.mu.Unlock()

	if sub == nil {
		return
	}
	th.Stop()
	if err := sub.Close(); err != nil {
		s.logger.Warn("failed to close realtime subscription", zap.Error(err))
	}
	s.publish()
}

func (s *Store) Subscribed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sub != nil
}

func (s *Store) consume(sub ports.Subscription, th *throttle) {
	events, resync := sub.Events(), sub.Resync()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.logger.Debug("realtime change",
				zap.String("table", string(ev.Table)),
				zap.String("op", string(ev.Op)),
				zap.String("record_id", ev.RecordID),
			)
			s.applyChange(ev, th)
		case <-resync:
			s.logger.Warn("realtime events were dropped, refetching all tables")
			th.Enqueue("")
		}
	}
}

// ApplyChange reconciles one change event. Single-row events carrying a
// record are patched into the matching collection; everything else re-reads
// the affected table, or all tables when full refetch is configured.
func (s *Store) ApplyChange(ev domain.ChangeEvent) {
	s.mu.RLock()
	th := s.throttle
	s.mu.RUnlock()
	if th == nil {
		th = newThrottle(0, s.flushRefetch)
	}
	s.applyChange(ev, th)
}

func (s *Store) applyChange(ev domain.ChangeEvent, th *throttle) {
	if s.fullRefetch {
		th.Enqueue("")
		return
	}
	if ev.Bulk() || !s.patch(ev) {
		th.Enqueue(ev.Table)
		return
	}
	s.publish()
}

func (s *Store) flushRefetch(full bool, tables []domain.Table) {
	ctx := context.Background()
	if full {
		if err := s.FetchData(ctx); err != nil {
			s.logger.Warn("realtime refetch failed", zap.Error(err))
		}
		return
	}
	for _, table := range tables {
		if err := s.refetchTable(ctx, table); err != nil {
			s.logger.Warn("realtime table refetch failed", zap.String("table", string(table)), zap.Error(err))
		}
	}
}

// patch applies a single-row event in place. It reports false when the event
// cannot be applied from its payload alone.
func (s *Store) patch(ev domain.ChangeEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.userLocked()
	if !ok || (ev.UserID != "" && ev.UserID != user.ID) {
		return true
	}

	if ev.Op == domain.ChangeDelete {
		switch ev.Table {
		case domain.TableTasks:
			s.data.tasks = removeByID(s.data.tasks, ev.RecordID, taskID)
		case domain.TableHabits:
			s.data.habits = removeByID(s.data.habits, ev.RecordID, habitID)
		case domain.TableProjects:
			s.data.projects = removeByID(s.data.projects, ev.RecordID, projectID)
		case domain.TableTimetable:
			s.data.timetable = removeByID(s.data.timetable, ev.RecordID, timetableID)
		case domain.TableNotifications:
			s.data.notifications = removeByID(s.data.notifications, ev.RecordID, notificationID)
		default:
			return false
		}
		return true
	}

	switch record := ev.Record.(type) {
	case domain.Task:
		s.data.tasks = upsertByID(s.data.tasks, record, taskID)
	case domain.Habit:
		s.data.habits = upsertByID(s.data.habits, record, habitID)
	case domain.HabitLog:
		// FetchData only mirrors the recent window
		if record.Date.Before(s.Today().AddDays(-habitLogWindowDays)) {
			return true
		}
		s.data.habitLogs = upsertLog(s.data.habitLogs, record)
	case domain.Project:
		s.data.projects = upsertByID(s.data.projects, record, projectID)
	case domain.TimetableItem:
		s.data.timetable = upsertByID(s.data.timetable, record, timetableID)
	case domain.Notification:
		if i := indexByID(s.data.notifications, record.ID, notificationID); i >= 0 {
			s.data.notifications[i] = record
		} else {
			s.data.notifications = append([]domain.Notification{record}, s.data.notifications...)
		}
	case domain.Profile:
		if record.ThemeColor != "" {
			s.data.themeColor = record.ThemeColor
		}
	default:
		return false
	}
	return true
}

// upsertLog keys habit logs by (habit, date).
func upsertLog(logs []domain.HabitLog, log domain.HabitLog) []domain.HabitLog {
	for i, l := range logs {
		if l.HabitID == log.HabitID && l.Date == log.Date {
			logs[i] = log
			return logs
		}
	}
	return append(logs, log)
}
