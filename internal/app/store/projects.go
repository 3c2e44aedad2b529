package store

import (
	"context"

	"crystalos/internal/core/domain"
)

func (s *Store) AddProject(ctx context.Context, in domain.CreateProjectInput) (domain.Project, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	user, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return domain.Project{}, domain.ErrNoActiveUser
	}
	project := domain.Project{
		ID:          domain.NewTempID(),
		UserID:      user.ID,
		Name:        in.Name,
		Description: in.Description,
		Progress:    clampProgress(in.Progress),
		Research:    in.Research,
		CreatedAt:   s.now(),
	}
	s.data.projects = append(s.data.projects, project)
	s.mu.Unlock()
	s.publish()

	created, err := s.gateway.InsertProject(ctx, project)
	if err != nil {
		s.fail("add_project", domain.TableProjects, project.ID, err)
		return project, nil
	}

	s.mu.Lock()
	s.data.projects = reconcile(s.data.projects, project.ID, created, projectID)
	s.mu.Unlock()
	s.publish()
	return created, nil
}

func (s *Store) ToggleProject(ctx context.Context, id string) (domain.Project, error) {
	return s.updateProject(ctx, "toggle_project", id, func(p *domain.Project) domain.ProjectPatch {
		p.Completed = !p.Completed
		completed := p.Completed
		return domain.ProjectPatch{Completed: &completed}
	})
}

func (s *Store) UpdateProjectProgress(ctx context.Context, id string, progress int) (domain.Project, error) {
	return s.updateProject(ctx, "update_project_progress", id, func(p *domain.Project) domain.ProjectPatch {
		p.Progress = clampProgress(progress)
		value := p.Progress
		return domain.ProjectPatch{Progress: &value}
	})
}

func (s *Store) updateProject(ctx context.Context, op, id string, mutate func(*domain.Project) domain.ProjectPatch) (domain.Project, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.Project{}, domain.ErrNoActiveUser
	}
	i := indexByID(s.data.projects, id, projectID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Project{}, domain.ErrProjectNotFound
	}
	project := s.data.projects[i]
	patch := mutate(&project)
	s.data.projects[i] = project
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.UpdateProject(ctx, id, patch); err != nil {
		s.fail(op, domain.TableProjects, id, err)
	}
	return project, nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	if _, ok := s.userLocked(); !ok {
		s.mu.Unlock()
		return domain.ErrNoActiveUser
	}
	if indexByID(s.data.projects, id, projectID) < 0 {
		s.mu.Unlock()
		return domain.ErrProjectNotFound
	}
	s.data.projects = removeByID(s.data.projects, id, projectID)
	s.mu.Unlock()
	s.publish()

	if err := s.gateway.DeleteProject(ctx, id); err != nil {
		s.fail("delete_project", domain.TableProjects, id, err)
	}
	return nil
}

func clampProgress(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
