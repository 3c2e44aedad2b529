package store_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

var errGatewayDown = errors.New("gateway down")

// fakeGateway keeps rows in memory. Methods named in failures return
// errGatewayDown; insertGate and subscribeGate, when set, block InsertTask
// and Subscribe until closed.
type fakeGateway struct {
	mu            sync.Mutex
	tasks         []domain.Task
	habits        []domain.Habit
	logs          []domain.HabitLog
	projects      []domain.Project
	timetable     []domain.TimetableItem
	notifications []domain.Notification
	profiles      map[string]domain.Profile

	failures      map[string]bool
	insertGate    chan struct{}
	subscribeGate chan struct{}
	nextIDs       []string
	calls         map[string]int
	resetAt       []time.Time
	subs          []*fakeSub
}

var _ ports.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		profiles: make(map[string]domain.Profile),
		failures: make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (g *fakeGateway) fail(method string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[method] = true
}

func (g *fakeGateway) count(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[method]
}

// newID hands out queued ids first so tests can predict them. Callers hold mu.
func (g *fakeGateway) newID() string {
	if len(g.nextIDs) > 0 {
		id := g.nextIDs[0]
		g.nextIDs = g.nextIDs[1:]
		return id
	}
	return uuid.NewString()
}

func (g *fakeGateway) enter(method string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[method]++
	if g.failures[method] {
		return errGatewayDown
	}
	return nil
}

func (g *fakeGateway) ListTasks(_ context.Context, userID string) ([]domain.Task, error) {
	if err := g.enter("ListTasks"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Task{}
	for _, t := range g.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (g *fakeGateway) InsertTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if g.insertGate != nil {
		<-g.insertGate
	}
	if err := g.enter("InsertTask"); err != nil {
		return domain.Task{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}
	task.ID = g.newID()
	g.tasks = append(g.tasks, task)
	return task, nil
}

func (g *fakeGateway) UpdateTask(_ context.Context, id string, patch domain.TaskPatch) error {
	if err := g.enter("UpdateTask"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.tasks {
		if g.tasks[i].ID == id {
			if patch.Completed != nil {
				g.tasks[i].Completed = *patch.Completed
			}
			if patch.CompletedAtSet {
				g.tasks[i].CompletedAt = patch.CompletedAt
			}
		}
	}
	return nil
}

func (g *fakeGateway) DeleteTask(_ context.Context, id string) error {
	if err := g.enter("DeleteTask"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.tasks[:0]
	for _, t := range g.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	g.tasks = kept
	return nil
}

func (g *fakeGateway) ListHabits(_ context.Context, userID string) ([]domain.Habit, error) {
	if err := g.enter("ListHabits"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Habit{}
	for _, h := range g.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (g *fakeGateway) InsertHabit(_ context.Context, habit domain.Habit) (domain.Habit, error) {
	if err := g.enter("InsertHabit"); err != nil {
		return domain.Habit{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	habit.ID = g.newID()
	g.habits = append(g.habits, habit)
	return habit, nil
}

func (g *fakeGateway) UpdateHabit(_ context.Context, id string, patch domain.HabitPatch) error {
	if err := g.enter("UpdateHabit"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.habits {
		if g.habits[i].ID == id {
			g.habits[i] = patch.Apply(g.habits[i])
		}
	}
	return nil
}

func (g *fakeGateway) DeleteHabit(_ context.Context, id string) error {
	if err := g.enter("DeleteHabit"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.habits[:0]
	for _, h := range g.habits {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	g.habits = kept
	return nil
}

func (g *fakeGateway) ResetPermanentHabits(_ context.Context, userID string, before time.Time) (int64, error) {
	if err := g.enter("ResetPermanentHabits"); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetAt = append(g.resetAt, before)
	var n int64
	for i, h := range g.habits {
		if h.UserID == userID && h.Type == domain.HabitTypePermanent && h.LastCompletedAt != nil && h.LastCompletedAt.Before(before) {
			g.habits[i].Completed = false
			n++
		}
	}
	return n, nil
}

func (g *fakeGateway) ListHabitLogs(_ context.Context, userID string, since domain.Day) ([]domain.HabitLog, error) {
	if err := g.enter("ListHabitLogs"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.HabitLog{}
	for _, l := range g.logs {
		if l.UserID == userID && !l.Date.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (g *fakeGateway) UpsertHabitLogs(_ context.Context, logs ...domain.HabitLog) error {
	if err := g.enter("UpsertHabitLogs"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
next:
	for _, log := range logs {
		for i, l := range g.logs {
			if l.HabitID == log.HabitID && l.Date == log.Date {
				g.logs[i].CompletedAt = log.CompletedAt
				continue next
			}
		}
		log.ID = g.newID()
		g.logs = append(g.logs, log)
	}
	return nil
}

func (g *fakeGateway) DeleteHabitLog(_ context.Context, habitID string, date domain.Day) error {
	if err := g.enter("DeleteHabitLog"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.logs[:0]
	for _, l := range g.logs {
		if !(l.HabitID == habitID && l.Date == date) {
			kept = append(kept, l)
		}
	}
	g.logs = kept
	return nil
}

func (g *fakeGateway) ListProjects(_ context.Context, userID string) ([]domain.Project, error) {
	if err := g.enter("ListProjects"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Project{}
	for _, p := range g.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *fakeGateway) InsertProject(_ context.Context, project domain.Project) (domain.Project, error) {
	if err := g.enter("InsertProject"); err != nil {
		return domain.Project{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	project.ID = g.newID()
	g.projects = append(g.projects, project)
	return project, nil
}

func (g *fakeGateway) UpdateProject(_ context.Context, id string, patch domain.ProjectPatch) error {
	if err := g.enter("UpdateProject"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.projects {
		if g.projects[i].ID == id {
			if patch.Completed != nil {
				g.projects[i].Completed = *patch.Completed
			}
			if patch.Progress != nil {
				g.projects[i].Progress = *patch.Progress
			}
		}
	}
	return nil
}

func (g *fakeGateway) DeleteProject(_ context.Context, id string) error {
	return g.enter("DeleteProject")
}

func (g *fakeGateway) ListTimetable(_ context.Context, userID string) ([]domain.TimetableItem, error) {
	if err := g.enter("ListTimetable"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.TimetableItem{}
	for _, t := range g.timetable {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (g *fakeGateway) InsertTimetableItem(_ context.Context, item domain.TimetableItem) (domain.TimetableItem, error) {
	if err := g.enter("InsertTimetableItem"); err != nil {
		return domain.TimetableItem{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	item.ID = g.newID()
	g.timetable = append(g.timetable, item)
	return item, nil
}

func (g *fakeGateway) UpdateTimetableItem(_ context.Context, id string, patch domain.TimetablePatch) error {
	if err := g.enter("UpdateTimetableItem"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.timetable {
		if g.timetable[i].ID == id {
			g.timetable[i] = patch.Apply(g.timetable[i])
		}
	}
	return nil
}

func (g *fakeGateway) DeleteTimetableItem(_ context.Context, id string) error {
	return g.enter("DeleteTimetableItem")
}

func (g *fakeGateway) ListNotifications(_ context.Context, userID string) ([]domain.Notification, error) {
	if err := g.enter("ListNotifications"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range g.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (g *fakeGateway) InsertNotification(_ context.Context, n domain.Notification) (domain.Notification, error) {
	if err := g.enter("InsertNotification"); err != nil {
		return domain.Notification{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	n.ID = g.newID()
	g.notifications = append(g.notifications, n)
	return n, nil
}

func (g *fakeGateway) MarkNotificationRead(_ context.Context, id string) error {
	return g.enter("MarkNotificationRead")
}

func (g *fakeGateway) DeleteNotification(_ context.Context, id string) error {
	return g.enter("DeleteNotification")
}

func (g *fakeGateway) DeleteNotificationsByUser(_ context.Context, userID string) error {
	if err := g.enter("DeleteNotificationsByUser"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.notifications[:0]
	for _, n := range g.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	g.notifications = kept
	return nil
}

func (g *fakeGateway) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	if err := g.enter("GetProfile"); err != nil {
		return domain.Profile{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (g *fakeGateway) UpdateThemeColor(_ context.Context, userID, color string) error {
	if err := g.enter("UpdateThemeColor"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.profiles[userID]
	p.ID = userID
	p.ThemeColor = color
	g.profiles[userID] = p
	return nil
}

func (g *fakeGateway) Subscribe(_ context.Context, userID string) (ports.Subscription, error) {
	if err := g.enter("Subscribe"); err != nil {
		return nil, err
	}
	if g.subscribeGate != nil {
		<-g.subscribeGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	sub := &fakeSub{events: make(chan domain.ChangeEvent, 16), resync: make(chan struct{}, 1)}
	g.subs = append(g.subs, sub)
	return sub, nil
}

func (g *fakeGateway) emit(ev domain.ChangeEvent) {
	g.mu.Lock()
	subs := append([]*fakeSub(nil), g.subs...)
	g.mu.Unlock()
	for _, sub := range subs {
		sub.send(ev)
	}
}

type fakeSub struct {
	mu     sync.Mutex
	events chan domain.ChangeEvent
	resync chan struct{}
	closed bool
}

func (s *fakeSub) Events() <-chan domain.ChangeEvent { return s.events }

func (s *fakeSub) Resync() <-chan struct{} { return s.resync }

// drop simulates the feed losing events for this subscriber.
func (s *fakeSub) drop() {
	select {
	case s.resync <- struct{}{}:
	default:
	}
}

func (s *fakeSub) send(ev domain.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.events <- ev
	}
}

func (s *fakeSub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

func (s *fakeSub) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type memorySnapshots struct {
	mu      sync.Mutex
	snap    *domain.Snapshot
	deleted int
}

func (m *memorySnapshots) Load(context.Context) (domain.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return domain.Snapshot{}, false, nil
	}
	return *m.snap, true, nil
}

func (m *memorySnapshots) Save(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &snap
	return nil
}

func (m *memorySnapshots) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	m.deleted++
	return nil
}
