package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dbadapter "crystalos/internal/adapter/db"
	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const owner = "user-1"

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := dbadapter.Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, dbadapter.Migrate(context.Background(), db))
	return db
}

func newTestGateway(t *testing.T) (*dbadapter.Gateway, *dbadapter.ChangeBroker) {
	t.Helper()
	broker := dbadapter.NewChangeBroker(zap.NewNop())
	return dbadapter.NewGateway(openTestDB(t), broker), broker
}

func nextEvent(t *testing.T, sub ports.Subscription) domain.ChangeEvent {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no change event received")
		return domain.ChangeEvent{}
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, dbadapter.Migrate(context.Background(), db))
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := dbadapter.Open("postgres://localhost/db")
	assert.ErrorContains(t, err, "unsupported gateway driver")

	_, err = dbadapter.Open("not-a-url")
	assert.Error(t, err)
}

func TestTasks_Lifecycle(t *testing.T) {
	g, broker := newTestGateway(t)
	ctx := context.Background()
	sub, err := broker.Subscribe(ctx, owner)
	require.NoError(t, err)
	defer sub.Close()

	created, err := g.InsertTask(ctx, domain.Task{ID: domain.NewTempID(), UserID: owner, Title: "Wire harness"})
	require.NoError(t, err)
	assert.False(t, domain.IsTempID(created.ID))
	assert.Equal(t, "Wire harness", created.Title)

	ev := nextEvent(t, sub)
	assert.Equal(t, domain.ChangeInsert, ev.Op)
	assert.Equal(t, created.ID, ev.RecordID)
	assert.Equal(t, created, ev.Record)

	done, at := true, time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)
	require.NoError(t, g.UpdateTask(ctx, created.ID, domain.TaskPatch{Completed: &done, CompletedAt: &at, CompletedAtSet: true}))
	ev = nextEvent(t, sub)
	require.Equal(t, domain.ChangeUpdate, ev.Op)
	updated := ev.Record.(domain.Task)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.CompletedAt.Equal(at))

	tasks, err := g.ListTasks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, g.DeleteTask(ctx, created.ID))
	ev = nextEvent(t, sub)
	assert.Equal(t, domain.ChangeDelete, ev.Op)
	assert.Equal(t, owner, ev.UserID)

	assert.ErrorIs(t, g.DeleteTask(ctx, created.ID), domain.ErrTaskNotFound)

	tasks, err = g.ListTasks(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestHabits_ResetPermanent(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()
	midnight := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	yesterday := midnight.Add(-3 * time.Hour)
	today := midnight.Add(2 * time.Hour)

	insert := func(habitType domain.HabitType, last *time.Time) domain.Habit {
		h, err := g.InsertHabit(ctx, domain.Habit{UserID: owner, Name: string(habitType), Type: habitType, Completed: true, Streak: 3, LastCompletedAt: last})
		require.NoError(t, err)
		return h
	}
	stale := insert(domain.HabitTypePermanent, &yesterday)
	fresh := insert(domain.HabitTypePermanent, &today)
	temporary := insert(domain.HabitTypeTemporary, &yesterday)

	n, err := g.ResetPermanentHabits(ctx, owner, midnight)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	habits, err := g.ListHabits(ctx, owner)
	require.NoError(t, err)
	byID := map[string]domain.Habit{}
	for _, h := range habits {
		byID[h.ID] = h
	}
	assert.False(t, byID[stale.ID].Completed)
	assert.Equal(t, 3, byID[stale.ID].Streak)
	assert.True(t, byID[fresh.ID].Completed)
	assert.True(t, byID[temporary.ID].Completed)

	n, err = g.ResetPermanentHabits(ctx, owner, midnight)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHabits_UpdateClearsLastCompleted(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()
	now := time.Now().UTC()

	h, err := g.InsertHabit(ctx, domain.Habit{UserID: owner, Name: "Read", Type: domain.HabitType("bogus"), LastCompletedAt: &now})
	require.NoError(t, err)
	assert.Equal(t, domain.HabitTypePermanent, h.Type)

	note := "chapter 4"
	require.NoError(t, g.UpdateHabit(ctx, h.ID, domain.HabitPatch{Note: &note, LastCompletedAtSet: true}))

	habits, err := g.ListHabits(ctx, owner)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "chapter 4", habits[0].Note)
	assert.Nil(t, habits[0].LastCompletedAt)
}

func TestHabitLogs_UpsertByHabitAndDate(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()
	day := domain.Day{Year: 2025, Month: time.March, Date: 4}
	first := time.Date(2025, time.March, 4, 8, 0, 0, 0, time.UTC)
	second := first.Add(4 * time.Hour)

	require.NoError(t, g.UpsertHabitLogs(ctx,
		domain.HabitLog{UserID: owner, HabitID: "h1", Date: day, CompletedAt: first},
		domain.HabitLog{UserID: owner, HabitID: "h1", Date: day.AddDays(-1), CompletedAt: first.AddDate(0, 0, -1)},
	))
	require.NoError(t, g.UpsertHabitLogs(ctx, domain.HabitLog{UserID: owner, HabitID: "h1", Date: day, CompletedAt: second}))

	logs, err := g.ListHabitLogs(ctx, owner, day.AddDays(-90))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, day, logs[1].Date)
	assert.True(t, logs[1].CompletedAt.Equal(second))

	logs, err = g.ListHabitLogs(ctx, owner, day)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	require.NoError(t, g.DeleteHabitLog(ctx, "h1", day))
	require.NoError(t, g.DeleteHabitLog(ctx, "h1", day))
	logs, err = g.ListHabitLogs(ctx, owner, day.AddDays(-90))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestProjects_ResearchRoundTrip(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()
	research := &domain.Research{
		Domain:        domain.ResearchDomainSoftware,
		Brief:         "Digital architecture",
		PrimaryList:   []string{"Framework Core"},
		TacticalIntel: []string{"Ship small"},
		EstTime:       "20-40 Hours",
	}

	created, err := g.InsertProject(ctx, domain.Project{UserID: owner, Name: "Dashboard", Research: research})
	require.NoError(t, err)
	require.NotNil(t, created.Research)
	assert.Equal(t, *research, *created.Research)

	plain, err := g.InsertProject(ctx, domain.Project{UserID: owner, Name: "Garden"})
	require.NoError(t, err)
	assert.Nil(t, plain.Research)

	progress := 40
	require.NoError(t, g.UpdateProject(ctx, created.ID, domain.ProjectPatch{Progress: &progress}))

	projects, err := g.ListProjects(ctx, owner)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	for _, p := range projects {
		if p.ID == created.ID {
			assert.Equal(t, 40, p.Progress)
		} else {
			assert.Zero(t, p.Progress)
		}
	}
}

func TestTimetable_RecurrenceColumns(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()
	day := domain.Day{Year: 2025, Month: time.March, Date: 3}

	weekly, err := g.InsertTimetableItem(ctx, domain.TimetableItem{
		UserID: owner, Activity: "Gym", StartTime: "18:00", EndTime: "19:00",
		Recurrence: domain.RecurrenceWeekly, Day: "Monday", Date: day,
	})
	require.NoError(t, err)
	assert.True(t, weekly.Date.IsZero())
	assert.Equal(t, domain.DefaultTimetableCategory, weekly.Category)

	once, err := g.InsertTimetableItem(ctx, domain.TimetableItem{
		UserID: owner, Activity: "Dentist", StartTime: "08:00", EndTime: "09:00",
		Recurrence: domain.RecurrenceOnce, Day: "Monday", Date: day,
	})
	require.NoError(t, err)
	assert.Equal(t, day, once.Date)
	assert.Empty(t, once.Day)

	items, err := g.ListTimetable(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Dentist", items[0].Activity)

	done := true
	require.NoError(t, g.UpdateTimetableItem(ctx, weekly.ID, domain.TimetablePatch{Completed: &done}))
	assert.ErrorIs(t, g.UpdateTimetableItem(ctx, "missing", domain.TimetablePatch{Completed: &done}), domain.ErrTimetableNotFound)
}

func TestNotifications_NewestFirstAndClear(t *testing.T) {
	g, broker := newTestGateway(t)
	ctx := context.Background()
	base := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)

	older, err := g.InsertNotification(ctx, domain.Notification{UserID: owner, Title: "Older", CreatedAt: base})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNotificationType, older.Type)
	_, err = g.InsertNotification(ctx, domain.Notification{UserID: owner, Title: "Newer", Type: "warning", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)

	list, err := g.ListNotifications(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Newer", list[0].Title)

	require.NoError(t, g.MarkNotificationRead(ctx, older.ID))
	list, err = g.ListNotifications(ctx, owner)
	require.NoError(t, err)
	assert.True(t, list[1].Read)

	sub, err := broker.Subscribe(ctx, owner)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, g.DeleteNotificationsByUser(ctx, owner))
	ev := nextEvent(t, sub)
	assert.True(t, ev.Bulk())
	assert.Equal(t, domain.TableNotifications, ev.Table)

	list, err = g.ListNotifications(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProfiles_ThemeColorUpsert(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := g.GetProfile(ctx, owner)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	require.NoError(t, g.UpdateThemeColor(ctx, owner, "#00F5D4"))
	require.NoError(t, g.UpdateThemeColor(ctx, owner, "#FF006E"))

	profile, err := g.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "#FF006E", profile.ThemeColor)
}
