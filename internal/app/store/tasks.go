package store

import (
	"context"

	"crystalos/internal/core/domain"
)

func (s *Store) AddTask(ctx context.Context, title string) (domain.Task, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return domain.Task{}, domain.ErrNoActiveUser
	}
	task := domain.Task{
		ID:        domain.NewTempID(),
		UserID:    user.ID,
		Title:     title,
		CreatedAt: s.now(),
	}
	s.data.tasks = append(s.data.tasks, task)
	s.mu.Unlock()
	s.publish()

	created, err := s.gateway.InsertTask(ctx, task)
	if err != nil {
		s.fail("add_task", domain.TableTasks, task.ID, err)
		return task, nil
	}

	s.mu.Lock()
	s.data.tasks = reconcile(s.data.tasks, task.ID, created, taskID)
	s.mu.Unlock()
	s.publish()
	return created, nil
}

// ToggleTask flips completion and stamps or clears completed_at.
func (s *Store) ToggleTask(ctx context.Context, id string) (domain.Task, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.Task{}, domain.ErrNoActiveUser
	}
	i := indexByID(s.data.tasks, id, taskID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Task{}, domain.ErrTaskNotFound
	}
	task := s.data.tasks[i]
	task.Completed = !task.Completed
	if task.Completed {
		now := s.now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	s.data.tasks[i] = task
	s.mu.Unlock()
	s.publish()

	completed := task.Completed
	err := s.gateway.UpdateTask(ctx, id, domain.TaskPatch{
		Completed:      &completed,
		CompletedAt:    task.CompletedAt,
		CompletedAtSet: true,
	})
	if err != nil {
		s.fail("toggle_task", domain.TableTasks, id, err)
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.ErrNoActiveUser
	}
	if indexByID(s.data.tasks, id, taskID) < 0 {
		s.mu.Unlock()
		return domain.ErrTaskNotFound
	}
	s.data.tasks = removeByID(s.data.tasks, id, taskID)
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.DeleteTask(ctx, id); err != nil {
		s.fail("delete_task", domain.TableTasks, id, err)
	}
	return nil
}
