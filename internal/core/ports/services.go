package ports

import (
	"context"

	"crystalos/internal/core/domain"
)

// Dashboard is the session-scoped store a client drives. Mutations apply
// locally before they are persisted.
type Dashboard interface {
	State() domain.DashboardState
	Watch(fn func(domain.DashboardState)) (stop func())
	FetchData(ctx context.Context) error
	CompletionRate() int

	AddTask(ctx context.Context, title string) (domain.Task, error)
	ToggleTask(ctx context.Context, id string) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	AddHabit(ctx context.Context, name string, habitType domain.HabitType) (domain.Habit, error)
	UpdateHabit(ctx context.Context, id string, patch domain.HabitPatch) (domain.Habit, error)
	ToggleHabit(ctx context.Context, id string) (domain.Habit, error)
	DeleteHabit(ctx context.Context, id string) error
	SeedHabitData(ctx context.Context) error

	ToggleProject(ctx context.Context, id string) (domain.Project, error)
	UpdateProjectProgress(ctx context.Context, id string, progress int) (domain.Project, error)
	DeleteProject(ctx context.Context, id string) error

	AddTimetableItem(ctx context.Context, item domain.TimetableItem) (domain.TimetableItem, error)
	UpdateTimetableItem(ctx context.Context, id string, patch domain.TimetablePatch) (domain.TimetableItem, error)
	ToggleTimetableItem(ctx context.Context, id string) (domain.TimetableItem, error)
	DeleteTimetableItem(ctx context.Context, id string) error
	TodaysActivities() []domain.TimetableItem

	AddNotification(ctx context.Context, in domain.CreateNotificationInput) (domain.Notification, bool, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
	ClearAllNotifications(ctx context.Context) error

	SetThemeColor(ctx context.Context, color string)
	ToggleDarkMode() bool
	UpdateFocusMode(patch domain.FocusPatch) domain.FocusMode
	SetAmbient(patch domain.AmbientPatch) domain.Ambient
	SetAISettings(settings domain.AISettings)
	AISettings() domain.AISettings
}

type SessionService interface {
	SignUp(ctx context.Context, email, password, username string) (domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignOut(ctx context.Context, token string) error
	// Resolve returns the live dashboard of token, restoring it from the
	// gateway when the process does not hold it yet.
	Resolve(ctx context.Context, token string) (domain.Session, Dashboard, error)
}

// AssistantService runs the advisory features against the dashboard of a
// session token.
type AssistantService interface {
	Report(ctx context.Context, token string) (domain.AdvisorReport, error)
	Briefing(ctx context.Context, token string) (domain.Insight, error)
	GenerateInsight(ctx context.Context, token string) (domain.Insight, domain.Provenance, error)
	ChatHistory(ctx context.Context, token string) ([]domain.ChatMessage, error)
	Chat(ctx context.Context, token, message string) (domain.ChatMessage, error)
	CreateProject(ctx context.Context, token, name, description string) (domain.Project, domain.Provenance, error)
}
