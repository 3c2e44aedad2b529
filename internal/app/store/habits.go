package store

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"crystalos/internal/app/reset"
	"crystalos/internal/core/domain"
)

func (s *Store) AddHabit(ctx context.Context, name string, habitType domain.HabitType) (domain.Habit, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	if !habitType.Valid() {
		habitType = domain.HabitTypePermanent
	}

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return domain.Habit{}, domain.ErrNoActiveUser
	}
	habit := domain.Habit{
		ID:        domain.NewTempID(),
		UserID:    user.ID,
		Name:      name,
		Type:      habitType,
		CreatedAt: s.now(),
	}
	s.data.habits = append(s.data.habits, habit)
	s.mu.Unlock()
	s.publish()

	created, err := s.gateway.InsertHabit(ctx, habit)
	if err != nil {
		s.fail("add_habit", domain.TableHabits, habit.ID, err)
		return habit, nil
	}

	s.mu.Lock()
	s.data.habits = reconcile(s.data.habits, habit.ID, created, habitID)
	s.mu.Unlock()
	s.publish()
	return created, nil
}

func (s *Store) UpdateHabit(ctx context.Context, id string, patch domain.HabitPatch) (domain.Habit, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.Habit{}, domain.ErrNoActiveUser
	}
	i := indexByID(s.data.habits, id, habitID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Habit{}, domain.ErrHabitNotFound
	}
	habit := patch.Apply(s.data.habits[i])
	s.data.habits[i] = habit
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.UpdateHabit(ctx, id, patch); err != nil {
		s.fail("update_habit", domain.TableHabits, id, err)
	}
	return habit, nil
}

// ToggleHabit moves a habit between incomplete and complete. Completing bumps
// the streak and records today's log; undoing decrements the streak, never
// below zero, and removes today's log.
func (s *Store) ToggleHabit(ctx context.Context, id string) (domain.Habit, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return domain.Habit{}, domain.ErrNoActiveUser
	}
	i := indexByID(s.data.habits, id, habitID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Habit{}, domain.ErrHabitNotFound
	}

	now := s.now()
	today := domain.DayOf(now, s.loc)
	habit := s.data.habits[i]
	habit.Completed = !habit.Completed

	var log domain.HabitLog
	if habit.Completed {
		habit.Streak++
		habit.LastCompletedAt = &now
		log = domain.HabitLog{
			ID:          domain.NewTempID(),
			UserID:      user.ID,
			HabitID:     id,
			Date:        today,
			CompletedAt: now,
		}
		s.data.habitLogs = upsertLog(s.data.habitLogs, log)
	} else {
		habit.Streak--
		if habit.Streak < 0 {
			habit.Streak = 0
		}
		kept := s.data.habitLogs[:0:0]
		for _, l := range s.data.habitLogs {
			if !(l.HabitID == id && l.Date == today) {
				kept = append(kept, l)
			}
		}
		s.data.habitLogs = kept
	}
	s.data.habits[i] = habit
	s.mu.Unlock()
	s.publish()

	if habit.Completed {
		if err := s.gateway.UpsertHabitLogs(ctx, log); err != nil {
			s.fail("upsert_habit_log", domain.TableHabitLogs, id, err)
		}
	} else {
		if err := s.gateway.DeleteHabitLog(ctx, id, today); err != nil {
			s.fail("delete_habit_log", domain.TableHabitLogs, id, err)
		}
	}

	completed, streak := habit.Completed, habit.Streak
	err := s.gateway.UpdateHabit(ctx, id, domain.HabitPatch{
		Completed:          &completed,
		Streak:             &streak,
		LastCompletedAt:    habit.LastCompletedAt,
		LastCompletedAtSet: true,
	})
	if err != nil {
		s.fail("toggle_habit", domain.TableHabits, id, err)
	}
	return habit, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.ErrNoActiveUser
	}
	if indexByID(s.data.habits, id, habitID) < 0 {
		s.mu.Unlock()
		return domain.ErrHabitNotFound
	}
	s.data.habits = removeByID(s.data.habits, id, habitID)
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.DeleteHabit(ctx, id); err != nil {
		s.fail("delete_habit", domain.TableHabits, id, err)
	}
	return nil
}

// DailyReset clears yesterday's completions of permanent habits once per
// local day, locally and on the gateway. It reports whether a reset ran.
func (s *Store) DailyReset(ctx context.Context) (bool, error) {
	now := s.now()
	today := domain.DayOf(now, s.loc)

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return false, domain.ErrNoActiveUser
	}
	habits, changed := reset.Apply(s.data.habits, s.data.lastReset, today, s.loc)
	if !changed {
		s.mu.Unlock()
		return false, nil
	}
	s.data.habits = habits
	s.data.lastReset = today
	s.mu.Unlock()
	s.publish()

	n, err := s.gateway.ResetPermanentHabits(ctx, user.ID, today.Midnight(s.loc))
	if err != nil {
		s.fail("daily_reset", domain.TableHabits, "", err)
		return true, nil
	}
	s.logger.Info("daily reset applied",
		zap.String("user_id", user.ID),
		zap.String("day", today.String()),
		zap.Int64("habits_reset", n),
	)
	return true, nil
}

const (
	seedHabitName   = "Deep Work Session"
	seedHabitStreak = 12
	seedDays        = 30
	seedMaxPerDay   = 5
)

// SeedHabitData makes sure the user has a habit and backfills thirty days of
// completion logs for it, then reloads everything.
func (s *Store) SeedHabitData(ctx context.Context) error {
	user, ok := s.User()
	if !ok {
		return domain.ErrNoActiveUser
	}

	habits, err := s.gateway.ListHabits(ctx, user.ID)
	if err != nil {
		return err
	}

	var id string
	if len(habits) > 0 {
		id = habits[0].ID
	} else {
		created, err := s.gateway.InsertHabit(ctx, domain.Habit{
			UserID:    user.ID,
			Name:      seedHabitName,
			Type:      domain.HabitTypePermanent,
			Streak:    seedHabitStreak,
			CreatedAt: s.now(),
		})
		if err != nil {
			return err
		}
		id = created.ID
	}

	now := s.now()
	logs := make([]domain.HabitLog, 0, seedDays)
	for i := 0; i < seedDays; i++ {
		day := now.AddDate(0, 0, -i)
		count := rand.Intn(seedMaxPerDay + 1)
		for j := 0; j < count; j++ {
			at := day.Add(time.Duration(j) * time.Hour)
			logs = append(logs, domain.HabitLog{
				UserID:      user.ID,
				HabitID:     id,
				Date:        domain.DayOf(day, s.loc),
				CompletedAt: at,
			})
		}
	}

	if len(logs) > 0 {
		if err := s.gateway.UpsertHabitLogs(ctx, logs...); err != nil {
			return err
		}
		s.logger.Info("seeded habit logs", zap.String("user_id", user.ID), zap.Int("logs", len(logs)))
	}

	return s.FetchData(ctx)
}
