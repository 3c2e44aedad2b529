package store

import (
	"context"
	"sort"

	"crystalos/internal/core/domain"
)

func (s *Store) AddTimetableItem(ctx context.Context, item domain.TimetableItem) (domain.TimetableItem, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return domain.TimetableItem{}, domain.ErrNoActiveUser
	}
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		s.mu.Unlock()
		return domain.TimetableItem{}, err
	}
	item.ID = domain.NewTempID()
	item.UserID = user.ID
	item.Completed = false
	item.CreatedAt = s.now()
	s.data.timetable = append(s.data.timetable, item)
	s.mu.Unlock()
	s.publish()

	created, err := s.gateway.InsertTimetableItem(ctx, item)
	if err != nil {
		s.fail("add_timetable_item", domain.TableTimetable, item.ID, err)
		return item, nil
	}

	s.mu.Lock()
	s.data.timetable = reconcile(s.data.timetable, item.ID, created, timetableID)
	s.mu.Unlock()
	s.publish()
	return created, nil
}

// UpdateTimetableItem applies patch unless the merged item fails Validate, in
// which case nothing changes and ErrInvalidSchedule is returned.
func (s *Store) UpdateTimetableItem(ctx context.Context, id string, patch domain.TimetablePatch) (domain.TimetableItem, error) {
	return s.updateTimetable(ctx, "update_timetable_item", id, func(item domain.TimetableItem) (domain.TimetableItem, domain.TimetablePatch, error) {
		updated := patch.Apply(item)
		if err := updated.Validate(); err != nil {
			return item, domain.TimetablePatch{}, err
		}
		// the gateway row must satisfy the same recurrence invariant
		full := domain.TimetablePatch{
			Activity:   &updated.Activity,
			Category:   &updated.Category,
			StartTime:  &updated.StartTime,
			EndTime:    &updated.EndTime,
			Recurrence: &updated.Recurrence,
			Day:        &updated.Day,
			Date:       &updated.Date,
			Completed:  patch.Completed,
		}
		return updated, full, nil
	})
}

func (s *Store) ToggleTimetableItem(ctx context.Context, id string) (domain.TimetableItem, error) {
	return s.updateTimetable(ctx, "toggle_timetable_item", id, func(item domain.TimetableItem) (domain.TimetableItem, domain.TimetablePatch, error) {
		item.Completed = !item.Completed
		completed := item.Completed
		return item, domain.TimetablePatch{Completed: &completed}, nil
	})
}

func (s *Store) updateTimetable(
	ctx context.Context,
	op, id string,
	mutate func(domain.TimetableItem) (domain.TimetableItem, domain.TimetablePatch, error),
) (domain.TimetableItem, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.TimetableItem{}, domain.ErrNoActiveUser
	}
	i := indexByID(s.data.timetable, id, timetableID)
	if i < 0 {
		s.mu.Unlock()
		return domain.TimetableItem{}, domain.ErrTimetableNotFound
	}
	item, patch, err := mutate(s.data.timetable[i])
	if err != nil {
		s.mu.Unlock()
		return domain.TimetableItem{}, err
	}
	s.data.timetable[i] = item
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.UpdateTimetableItem(ctx, id, patch); err != nil {
		s.fail(op, domain.TableTimetable, id, err)
	}
	return item, nil
}

func (s *Store) DeleteTimetableItem(ctx context.Context, id string) error {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.ErrNoActiveUser
	}
	if indexByID(s.data.timetable, id, timetableID) < 0 {
		s.mu.Unlock()
		return domain.ErrTimetableNotFound
	}
	s.data.timetable = removeByID(s.data.timetable, id, timetableID)
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.DeleteTimetableItem(ctx, id); err != nil {
		s.fail("delete_timetable_item", domain.TableTimetable, id, err)
	}
	return nil
}

// ActivitiesOn lists the timetable entries scheduled on day ordered by start
// time.
func (s *Store) ActivitiesOn(day domain.Day) []domain.TimetableItem {
	s.mu.RLock()
	items := cloneSlice(s.data.timetable)
	s.mu.RUnlock()
	return ActivitiesOn(items, day)
}

func ActivitiesOn(items []domain.TimetableItem, day domain.Day) []domain.TimetableItem {
	out := make([]domain.TimetableItem, 0, len(items))
	for _, item := range items {
		if item.OccursOn(day) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

// TodaysActivities is ActivitiesOn for the current local day.
func (s *Store) TodaysActivities() []domain.TimetableItem {
	return s.ActivitiesOn(s.Today())
}
