package store

import (
	"math"

	"crystalos/internal/app/advisor"
	"crystalos/internal/core/domain"
)

// AdvisorState is the subset of state the tactical advisor reads.
func (s *Store) AdvisorState() advisor.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return advisor.State{
		Tasks:     cloneSlice(s.data.tasks),
		Habits:    cloneSlice(s.data.habits),
		HabitLogs: cloneSlice(s.data.habitLogs),
		Projects:  cloneSlice(s.data.projects),
	}
}

// PublishInsight replaces the insight currently shown. It is not persisted.
func (s *Store) PublishInsight(insight domain.Insight) {
	s.mu.Lock()
	s.data.insight = &insight
	s.mu.Unlock()
	s.publish()
}

// SetLatestInsight records insight as the persisted latest insight.
func (s *Store) SetLatestInsight(insight domain.Insight) {
	s.mu.Lock()
	s.data.latestInsight = &insight
	s.mu.Unlock()
	s.publish()
}

// AppendChat adds messages to the session's chat history, which is never
// persisted.
func (s *Store) AppendChat(messages ...domain.ChatMessage) {
	s.mu.Lock()
	s.data.chat = append(s.data.chat, messages...)
	s.mu.Unlock()
}

// SeedChat appends greeting when the chat history is still empty and returns
// the history.
func (s *Store) SeedChat(greeting domain.ChatMessage) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data.chat) == 0 {
		s.data.chat = append(s.data.chat, greeting)
	}
	return cloneSlice(s.data.chat)
}

// CompletionRate is the rounded percentage of completed habits and tasks.
func (s *Store) CompletionRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CompletionRate(s.data.habits, s.data.tasks)
}

func CompletionRate(habits []domain.Habit, tasks []domain.Task) int {
	total := len(habits) + len(tasks)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, h := range habits {
		if h.Completed {
			completed++
		}
	}
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}
