package domain

import "errors"

var (
	ErrNoActiveUser         = errors.New("no active user")
	ErrTaskNotFound         = errors.New("task not found")
	ErrHabitNotFound        = errors.New("habit not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrTimetableNotFound    = errors.New("timetable item not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrInvalidCredentials   = errors.New("invalid login credentials")
	ErrEmailTaken           = errors.New("email already registered")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrInvalidSchedule      = errors.New("invalid timetable schedule")
)
