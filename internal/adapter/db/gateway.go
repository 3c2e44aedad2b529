package db

import (
	"github.com/jmoiron/sqlx"

	"crystalos/internal/core/ports"
)

// Gateway is the SQL-backed implementation of every repository a session
// store needs plus the change feed fed by their writes.
type Gateway struct {
	*TaskRepository
	*HabitRepository
	*HabitLogRepository
	*ProjectRepository
	*TimetableRepository
	*NotificationRepository
	*ProfileRepository
	*ChangeBroker
}

var _ ports.Gateway = (*Gateway)(nil)

func NewGateway(db *sqlx.DB, broker *ChangeBroker) *Gateway {
	return &Gateway{
		TaskRepository:         NewTaskRepository(db, broker),
		HabitRepository:        NewHabitRepository(db, broker),
		HabitLogRepository:     NewHabitLogRepository(db, broker),
		ProjectRepository:      NewProjectRepository(db, broker),
		TimetableRepository:    NewTimetableRepository(db, broker),
		NotificationRepository: NewNotificationRepository(db, broker),
		ProfileRepository:      NewProfileRepository(db, broker),
		ChangeBroker:           broker,
	}
}
