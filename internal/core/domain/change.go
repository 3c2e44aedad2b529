package domain

type Table string

const (
	TableTasks         Table = "tasks"
	TableHabits        Table = "habits"
	TableHabitLogs     Table = "habit_logs"
	TableProjects      Table = "projects"
	TableTimetable     Table = "timetable"
	TableNotifications Table = "notifications"
	TableProfiles      Table = "profiles"
)

type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// ChangeEvent describes one committed write. Record holds the row after the
// write for inserts and single-row updates; bulk writes leave it nil and
// RecordID empty.
type ChangeEvent struct {
	Table    Table
	Op       ChangeOp
	UserID   string
	RecordID string
	Record   any
}

func (e ChangeEvent) Bulk() bool {
	return e.RecordID == ""
}
