package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"crystalos/internal/core/domain"
)

const habitLogWindowDays = 90

var ErrFetchFailed = errors.New("operational data fetch failure")

// FetchData reloads every collection of the signed-in user. The required
// collections are read concurrently and replace local state only when all of
// them succeed; notifications, habit logs and the profile are best effort.
func (s *Store) FetchData(ctx context.Context) error {
	user, ok := s.User()
	if !ok {
		return domain.ErrNoActiveUser
	}

	s.setStatus(domain.StatusSyncing, "")

	since := s.Today().AddDays(-habitLogWindowDays)

	var (
		tasks         []domain.Task
		habits        []domain.Habit
		projects      []domain.Project
		timetable     []domain.TimetableItem
		notifications []domain.Notification
		habitLogs     []domain.HabitLog
		profile       domain.Profile

		notificationsErr, habitLogsErr, profileErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = s.gateway.ListTasks(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		habits, err = s.gateway.ListHabits(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.gateway.ListProjects(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		timetable, err = s.gateway.ListTimetable(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		notifications, notificationsErr = s.gateway.ListNotifications(gctx, user.ID)
		return nil
	})
	g.Go(func() error {
		habitLogs, habitLogsErr = s.gateway.ListHabitLogs(gctx, user.ID, since)
		return nil
	})
	g.Go(func() error {
		profile, profileErr = s.gateway.GetProfile(gctx, user.ID)
		return nil
	})

	if err := g.Wait(); err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrFetchFailed, err)
		s.logger.Error("fetch failed", zap.String("user_id", user.ID), zap.Error(err))
		s.setStatus(domain.StatusError, wrapped.Error())
		return wrapped
	}

	s.mu.Lock()
	if current, ok := s.userLocked(); !ok || current.ID != user.ID {
		// signed out while the reads were in flight
		s.mu.Unlock()
		return nil
	}
	s.data.tasks = tasks
	s.data.habits = habits
	s.data.projects = projects
	s.data.timetable = timetable
	if notificationsErr == nil {
		s.data.notifications = notifications
	}
	if habitLogsErr == nil {
		s.data.habitLogs = habitLogs
	}
	if profileErr == nil && profile.ThemeColor != "" {
		s.data.themeColor = profile.ThemeColor
	}
	s.data.status = domain.StatusOptimal
	s.data.lastError = ""
	s.mu.Unlock()

	for name, err := range map[string]error{
		"notifications": notificationsErr,
		"habit_logs":    habitLogsErr,
		"profile":       profileErr,
	} {
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			s.logger.Warn("optional read failed", zap.String("collection", name), zap.Error(err))
		}
	}

	s.publish()
	return nil
}

func (s *Store) setStatus(status domain.SystemStatus, lastError string) {
	s.mu.Lock()
	s.data.status = status
	s.data.lastError = lastError
	s.mu.Unlock()
	s.publish()
}

// refetchTable re-reads a single collection.
func (s *Store) refetchTable(ctx context.Context, table domain.Table) error {
	user, ok := s.User()
	if !ok {
		return domain.ErrNoActiveUser
	}

	var apply func()
	switch table {
	case domain.TableTasks:
		tasks, err := s.gateway.ListTasks(ctx, user.ID)
		if err != nil {
			return err
		}
		apply = func() { s.data.tasks = tasks }
	case domain.TableHabits:
		habits, err := s.gateway.ListHabits(ctx, user.ID)
		if err != nil {
			return err
		}
		apply = func() { s.data.habits = habits }
	case domain.TableHabitLogs:
		logs, err := s.gateway.ListHabitLogs(ctx, user.ID, s.Today().AddDays(-habitLogWindowDays))
		if err != nil {
			return err
		}
		apply = func() { s.data.habitLogs = logs }
	case domain.TableProjects:
		projects, err := s.gateway.ListProjects(ctx, user.ID)
		if err != nil {
			return err
		}
		apply = func() { s.data.projects = projects }
	case domain.TableTimetable:
		items, err := s.gateway.ListTimetable(ctx, user.ID)
		if err != nil {
			return err
		}
		apply = func() { s.data.timetable = items }
	case domain.TableNotifications:
		notifications, err := s.gateway.ListNotifications(ctx, user.ID)
		if err != nil {
			return err
		}
		apply = func() { s.data.notifications = notifications }
	case domain.TableProfiles:
		profile, err := s.gateway.GetProfile(ctx, user.ID)
		if err != nil {
			return err
		}
		apply = func() {
			if profile.ThemeColor != "" {
				s.data.themeColor = profile.ThemeColor
			}
		}
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	s.mu.Lock()
	if current, ok := s.userLocked(); !ok || current.ID != user.ID {
		s.mu.Unlock()
		return nil
	}
	apply()
	s.mu.Unlock()
	s.publish()
	return nil
}
