// Package store is the per-session mirror of the user's remote rows. Every
// mutation is applied locally first and then persisted through the gateway;
// gateway failures are reported but never rolled back.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const (
	defaultRefetchWindow = 250 * time.Millisecond
	defaultWriteTimeout  = 30 * time.Second
)

// MutationFailure describes a gateway write that failed after the optimistic
// change was applied.
type MutationFailure struct {
	Op       string
	Table    domain.Table
	RecordID string
	Err      error
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithAuth(auth ports.Auth) Option {
	return func(s *Store) { s.auth = auth }
}

func WithSnapshotStore(snapshots ports.SnapshotStore) Option {
	return func(s *Store) { s.snapshots = snapshots }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithFailureHook registers fn to be called for every failed gateway write.
func WithFailureHook(fn func(MutationFailure)) Option {
	return func(s *Store) { s.onFailure = fn }
}

// WithFullRefetch makes every realtime event trigger FetchData instead of a
// table-scoped patch.
func WithFullRefetch(enabled bool) Option {
	return func(s *Store) { s.fullRefetch = enabled }
}

func WithRefetchWindow(d time.Duration) Option {
	return func(s *Store) { s.refetchWindow = d }
}

// WithWriteTimeout bounds gateway writes, which outlive the caller's context.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) { s.writeTimeout = d }
}

func WithAISettings(settings domain.AISettings) Option {
	return func(s *Store) { s.defaultAI = settings }
}

type data struct {
	session       *domain.Session
	tasks         []domain.Task
	habits        []domain.Habit
	habitLogs     []domain.HabitLog
	projects      []domain.Project
	timetable     []domain.TimetableItem
	notifications []domain.Notification
	status        domain.SystemStatus
	lastError     string
	themeColor    string
	isDarkMode    bool
	focus         domain.FocusMode
	ambient       domain.Ambient
	insight       *domain.Insight
	latestInsight *domain.Insight
	lastReset     domain.Day
	ai            domain.AISettings
	chat          []domain.ChatMessage
}

type Store struct {
	gateway       ports.Gateway
	auth          ports.Auth
	snapshots     ports.SnapshotStore
	logger        *zap.Logger
	now           func() time.Time
	loc           *time.Location
	onFailure     func(MutationFailure)
	fullRefetch   bool
	refetchWindow time.Duration
	writeTimeout  time.Duration
	defaultAI     domain.AISettings

	mu       sync.RWMutex
	data     data
	sub      ports.Subscription
	throttle *throttle

	watchMu     sync.Mutex
	watchers    map[int]func(domain.DashboardState)
	nextWatcher int
}

var _ ports.Dashboard = (*Store)(nil)

// detach returns the context for the gateway phase of an action. The write
// keeps the caller's values but not its cancellation: the optimistic change is
// already published when the caller may go away.
func (s *Store) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
}

func New(gateway ports.Gateway, opts ...Option) *Store {
	s := &Store{
		gateway:       gateway,
		now:           time.Now,
		loc:           time.Local,
		refetchWindow: defaultRefetchWindow,
		writeTimeout:  defaultWriteTimeout,
		watchers:      make(map[int]func(domain.DashboardState)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.L()
	}
	s.data = s.initialData()
	return s
}

func (s *Store) initialData() data {
	return data{
		status:     domain.StatusOptimal,
		themeColor: domain.DefaultThemeColor,
		isDarkMode: true,
		focus:      domain.DefaultFocusMode(),
		ambient:    domain.DefaultAmbient(),
		ai:         s.defaultAI,
	}
}

// Location is the zone used to compute local calendar days.
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Today() domain.Day {
	return domain.DayOf(s.now(), s.loc)
}

// State returns a copy of the current state.
func (s *Store) State() domain.DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() domain.DashboardState {
	st := domain.DashboardState{
		Tasks:         cloneSlice(s.data.tasks),
		Habits:        cloneSlice(s.data.habits),
		HabitLogs:     cloneSlice(s.data.habitLogs),
		Projects:      cloneSlice(s.data.projects),
		Timetable:     cloneSlice(s.data.timetable),
		Notifications: cloneSlice(s.data.notifications),
		SystemStatus:  s.data.status,
		LastError:     s.data.lastError,
		ThemeColor:    s.data.themeColor,
		IsDarkMode:    s.data.isDarkMode,
		FocusMode:     s.data.focus,
		Ambient:       s.data.ambient,
		Insight:       cloneInsight(s.data.insight),
		LatestInsight: cloneInsight(s.data.latestInsight),
		LastResetDate: s.data.lastReset,
		AI:            s.data.ai,
		Subscribed:    s.sub != nil,
	}
	if s.data.session != nil {
		user := s.data.session.User
		st.User = &user
	}
	return st
}

// Snapshot returns the persisted subset of the state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		IsDarkMode:    s.data.isDarkMode,
		ThemeColor:    s.data.themeColor,
		Tasks:         cloneSlice(s.data.tasks),
		Habits:        cloneSlice(s.data.habits),
		Projects:      cloneSlice(s.data.projects),
		Timetable:     cloneSlice(s.data.timetable),
		Notifications: cloneSlice(s.data.notifications),
		LatestInsight: cloneInsight(s.data.latestInsight),
		LastResetDate: s.data.lastReset,
	}
	if s.data.session != nil {
		user := s.data.session.User
		snap.User = &user
	}
	return snap
}

// Watch registers fn to receive the state after every transition. The
// returned func removes the watcher.
func (s *Store) Watch(fn func(domain.DashboardState)) func() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	return func() {
		s.watchMu.Lock()
		defer s.watchMu.Unlock()
		delete(s.watchers, id)
	}
}

// publish fans the new state out to watchers and writes the snapshot.
func (s *Store) publish() {
	s.mu.RLock()
	state := s.stateLocked()
	snap := s.snapshotLocked()
	signedIn := s.data.session != nil
	s.mu.RUnlock()

	if signedIn && s.snapshots != nil {
		if err := s.snapshots.Save(context.Background(), snap); err != nil {
			s.logger.Warn("failed to persist snapshot", zap.Error(err))
		}
	}
	s.notify(state)
}

// notify fans state out without persisting it.
func (s *Store) notify(state domain.DashboardState) {
	s.watchMu.Lock()
	watchers := make([]func(domain.DashboardState), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.watchMu.Unlock()

	for _, fn := range watchers {
		fn(state)
	}
}

func (s *Store) fail(op string, table domain.Table, recordID string, err error) {
	s.logger.Error("gateway write failed",
		zap.String("op", op),
		zap.String("table", string(table)),
		zap.String("record_id", recordID),
		zap.Error(err),
	)
	if s.onFailure != nil {
		s.onFailure(MutationFailure{Op: op, Table: table, RecordID: recordID, Err: err})
	}
}

// userLocked returns the signed-in user. Callers hold mu.
func (s *Store) userLocked() (domain.User, bool) {
	if s.data.session == nil {
		return domain.User{}, false
	}
	return s.data.session.User, true
}

func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked()
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func cloneInsight(in *domain.Insight) *domain.Insight {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0:0]
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

// reconcile swaps the optimistic entry tempID for the authoritative one. When
// a realtime echo already delivered the authoritative row the optimistic
// entry is dropped so the id appears once.
func reconcile[T any](items []T, tempID string, created T, idOf func(T) string) []T {
	if indexByID(items, idOf(created), idOf) >= 0 {
		return removeByID(items, tempID, idOf)
	}
	if i := indexByID(items, tempID, idOf); i >= 0 {
		items[i] = created
	}
	return items
}

// upsertByID replaces the entry with the same id or appends item.
func upsertByID[T any](items []T, item T, idOf func(T) string) []T {
	if i := indexByID(items, idOf(item), idOf); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

func taskID(t domain.Task) string { return t.ID }
func habitID(h domain.Habit) string { return h.ID }
func projectID(p domain.Project) string { return p.ID }
func timetableID(t domain.TimetableItem) string { return t.ID }
func notificationID(n domain.Notification) string { return n.ID }
