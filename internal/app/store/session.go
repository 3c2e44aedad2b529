package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"crystalos/internal/core/domain"
)

// SetSession makes session the store's signed-in user. A nil session signs
// the store out locally without touching the remote side.
func (s *Store) SetSession(session *domain.Session) {
	s.mu.Lock()
	if session == nil {
		s.data.session = nil
	} else {
		copied := *session
		s.data.session = &copied
	}
	state := s.stateLocked()
	s.mu.Unlock()
	// the snapshot of the previous run stays untouched until Hydrate has read it
	s.notify(state)
}

func (s *Store) Session() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.session == nil {
		return domain.Session{}, false
	}
	return *s.data.session, true
}

// Hydrate loads the persisted snapshot as a placeholder until the first
// fetch completes. Snapshots of another user are ignored.
func (s *Store) Hydrate(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}
	snap, ok, err := s.snapshots.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	user, signedIn := s.userLocked()
	if !signedIn || snap.User == nil || snap.User.ID != user.ID {
		s.mu.Unlock()
		return false, nil
	}
	s.data.tasks = snap.Tasks
	s.data.habits = snap.Habits
	s.data.projects = snap.Projects
	s.data.timetable = snap.Timetable
	s.data.notifications = snap.Notifications
	s.data.latestInsight = snap.LatestInsight
	s.data.lastReset = snap.LastResetDate
	s.data.isDarkMode = snap.IsDarkMode
	if snap.ThemeColor != "" {
		s.data.themeColor = snap.ThemeColor
	}
	s.mu.Unlock()

	s.publish()
	return true, nil
}

// Logout signs out remotely, drops the realtime subscription, clears all
// local state and deletes the persisted snapshot. Local state is cleared even
// when the remote sign-out fails.
func (s *Store) Logout(ctx context.Context) error {
	var errs []error

	session, signedIn := s.Session()
	if signedIn && s.auth != nil {
		if err := s.auth.SignOut(ctx, session.Token); err != nil {
			s.logger.Warn("remote sign-out failed", zap.String("user_id", session.User.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("sign out: %w", err))
		}
	}

	s.Unsubscribe()

	s.mu.Lock()
	s.data = s.initialData()
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx); err != nil {
			errs = append(errs, fmt.Errorf("delete snapshot: %w", err))
		}
	}

	s.publish()
	return errors.Join(errs...)
}
