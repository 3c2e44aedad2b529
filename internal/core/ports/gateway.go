package ports

import (
	"context"
	"time"

	"crystalos/internal/core/domain"
)

type TaskRepository interface {
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	InsertTask(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
}

type HabitRepository interface {
	ListHabits(ctx context.Context, userID string) ([]domain.Habit, error)
	InsertHabit(ctx context.Context, habit domain.Habit) (domain.Habit, error)
	UpdateHabit(ctx context.Context, id string, patch domain.HabitPatch) error
	DeleteHabit(ctx context.Context, id string) error
	// ResetPermanentHabits clears completed on the user's permanent habits
	// last completed before the given instant.
	ResetPermanentHabits(ctx context.Context, userID string, before time.Time) (int64, error)
}

type HabitLogRepository interface {
	ListHabitLogs(ctx context.Context, userID string, since domain.Day) ([]domain.HabitLog, error)
	UpsertHabitLogs(ctx context.Context, logs ...domain.HabitLog) error
	DeleteHabitLog(ctx context.Context, habitID string, date domain.Day) error
}

type ProjectRepository interface {
	ListProjects(ctx context.Context, userID string) ([]domain.Project, error)
	InsertProject(ctx context.Context, project domain.Project) (domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) error
	DeleteProject(ctx context.Context, id string) error
}

type TimetableRepository interface {
	ListTimetable(ctx context.Context, userID string) ([]domain.TimetableItem, error)
	InsertTimetableItem(ctx context.Context, item domain.TimetableItem) (domain.TimetableItem, error)
	UpdateTimetableItem(ctx context.Context, id string, patch domain.TimetablePatch) error
	DeleteTimetableItem(ctx context.Context, id string) error
}

type NotificationRepository interface {
	// ListNotifications returns newest first.
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
	InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteNotificationsByUser(ctx context.Context, userID string) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	UpdateThemeColor(ctx context.Context, userID, color string) error
}

// Subscription delivers change events until Close is called, after which
// Events is closed. Resync fires when events were dropped; the receiver must
// then reload everything it mirrors.
type Subscription interface {
	Events() <-chan domain.ChangeEvent
	Resync() <-chan struct{}
	Close() error
}

type ChangeFeed interface {
	Subscribe(ctx context.Context, userID string) (Subscription, error)
}

// Gateway is the remote persistence collaborator of a session store.
type Gateway interface {
	TaskRepository
	HabitRepository
	HabitLogRepository
	ProjectRepository
	TimetableRepository
	NotificationRepository
	ProfileRepository
	ChangeFeed
}
