package service

import (
	"context"

	"go.uber.org/zap"

	"crystalos/internal/app/advisor"
	"crystalos/internal/core/domain"
)

func (s *SessionService) Report(ctx context.Context, token string) (domain.AdvisorReport, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return domain.AdvisorReport{}, err
	}
	st := entry.store
	return advisor.Analyze(st.AdvisorState(), st.Now(), st.Location()), nil
}

func (s *SessionService) Briefing(ctx context.Context, token string) (domain.Insight, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return domain.Insight{}, err
	}
	st := entry.store
	return advisor.Brief(st.State().Tasks, st.Now(), st.Location()), nil
}

func (s *SessionService) GenerateInsight(ctx context.Context, token string) (domain.Insight, domain.Provenance, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return domain.Insight{}, "", err
	}
	outcome := s.insights.Generate(ctx, entry.store)
	return outcome.Insight, outcome.Provenance, nil
}

func (s *SessionService) ChatHistory(ctx context.Context, token string) ([]domain.ChatMessage, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.insights.History(entry.store), nil
}

func (s *SessionService) Chat(ctx context.Context, token, message string) (domain.ChatMessage, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return s.insights.Chat(ctx, entry.store, message), nil
}

// CreateProject researches the project before adding it so the briefing is
// stored with the row.
func (s *SessionService) CreateProject(ctx context.Context, token, name, description string) (domain.Project, domain.Provenance, error) {
	entry, err := s.lookup(ctx, token)
	if err != nil {
		return domain.Project{}, "", err
	}
	st := entry.store

	research, provenance := s.insights.Research(ctx, st.AISettings(), name, description)
	project, err := st.AddProject(ctx, domain.CreateProjectInput{
		Name:        name,
		Description: description,
		Research:    &research,
	})
	if err != nil {
		return domain.Project{}, "", err
	}
	s.logger.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("research_provenance", string(provenance)),
	)
	return project, provenance, nil
}
