package tests

import (
	"context"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type sessionServiceMock struct {
	mock.Mock
}

func (m *sessionServiceMock) SignUp(ctx context.Context, email, password, username string) (domain.Session, error) {
	args := m.Called(ctx, email, password, username)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *sessionServiceMock) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *sessionServiceMock) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *sessionServiceMock) Resolve(ctx context.Context, token string) (domain.Session, ports.Dashboard, error) {
	args := m.Called(ctx, token)

	var dashboard ports.Dashboard
	if value := args.Get(1); value != nil {
		dashboard = value.(ports.Dashboard)
	}
	return args.Get(0).(domain.Session), dashboard, args.Error(2)
}

type assistantServiceMock struct {
	mock.Mock
}

func (m *assistantServiceMock) Report(ctx context.Context, token string) (domain.AdvisorReport, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.AdvisorReport), args.Error(1)
}

func (m *assistantServiceMock) Briefing(ctx context.Context, token string) (domain.Insight, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Insight), args.Error(1)
}

func (m *assistantServiceMock) GenerateInsight(ctx context.Context, token string) (domain.Insight, domain.Provenance, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Insight), args.Get(1).(domain.Provenance), args.Error(2)
}

func (m *assistantServiceMock) ChatHistory(ctx context.Context, token string) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, token)

	var history []domain.ChatMessage
	if value := args.Get(0); value != nil {
		history = value.([]domain.ChatMessage)
	}
	return history, args.Error(1)
}

func (m *assistantServiceMock) Chat(ctx context.Context, token, message string) (domain.ChatMessage, error) {
	args := m.Called(ctx, token, message)
	return args.Get(0).(domain.ChatMessage), args.Error(1)
}

func (m *assistantServiceMock) CreateProject(ctx context.Context, token, name, description string) (domain.Project, domain.Provenance, error) {
	args := m.Called(ctx, token, name, description)
	return args.Get(0).(domain.Project), args.Get(1).(domain.Provenance), args.Error(2)
}

type dashboardMock struct {
	mock.Mock
}

var _ ports.Dashboard = (*dashboardMock)(nil)

func (m *dashboardMock) State() domain.DashboardState {
	return m.Called().Get(0).(domain.DashboardState)
}

func (m *dashboardMock) Watch(fn func(domain.DashboardState)) func() {
	return m.Called(fn).Get(0).(func())
}

func (m *dashboardMock) FetchData(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *dashboardMock) CompletionRate() int {
	return m.Called().Int(0)
}

func (m *dashboardMock) AddTask(ctx context.Context, title string) (domain.Task, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *dashboardMock) ToggleTask(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *dashboardMock) DeleteTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *dashboardMock) AddHabit(ctx context.Context, name string, habitType domain.HabitType) (domain.Habit, error) {
	args := m.Called(ctx, name, habitType)
	return args.Get(0).(domain.Habit), args.Error(1)
}

func (m *dashboardMock) UpdateHabit(ctx context.Context, id string, patch domain.HabitPatch) (domain.Habit, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Habit), args.Error(1)
}

func (m *dashboardMock) ToggleHabit(ctx context.Context, id string) (domain.Habit, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Habit), args.Error(1)
}

func (m *dashboardMock) DeleteHabit(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *dashboardMock) SeedHabitData(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *dashboardMock) ToggleProject(ctx context.Context, id string) (domain.Project, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Project), args.Error(1)
}

func (m *dashboardMock) UpdateProjectProgress(ctx context.Context, id string, progress int) (domain.Project, error) {
	args := m.Called(ctx, id, progress)
	return args.Get(0).(domain.Project), args.Error(1)
}

func (m *dashboardMock) DeleteProject(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *dashboardMock) AddTimetableItem(ctx context.Context, item domain.TimetableItem) (domain.TimetableItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(domain.TimetableItem), args.Error(1)
}

func (m *dashboardMock) UpdateTimetableItem(ctx context.Context, id string, patch domain.TimetablePatch) (domain.TimetableItem, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.TimetableItem), args.Error(1)
}

func (m *dashboardMock) ToggleTimetableItem(ctx context.Context, id string) (domain.TimetableItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.TimetableItem), args.Error(1)
}

func (m *dashboardMock) DeleteTimetableItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *dashboardMock) TodaysActivities() []domain.TimetableItem {
	args := m.Called()

	var items []domain.TimetableItem
	if value := args.Get(0); value != nil {
		items = value.([]domain.TimetableItem)
	}
	return items
}

func (m *dashboardMock) AddNotification(ctx context.Context, in domain.CreateNotificationInput) (domain.Notification, bool, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Notification), args.Bool(1), args.Error(2)
}

func (m *dashboardMock) MarkNotificationRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *dashboardMock) DeleteNotification(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *dashboardMock) ClearAllNotifications(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *dashboardMock) SetThemeColor(ctx context.Context, color string) {
	m.Called(ctx, color)
}

func (m *dashboardMock) ToggleDarkMode() bool {
	return m.Called().Bool(0)
}

func (m *dashboardMock) UpdateFocusMode(patch domain.FocusPatch) domain.FocusMode {
	return m.Called(patch).Get(0).(domain.FocusMode)
}

func (m *dashboardMock) SetAmbient(patch domain.AmbientPatch) domain.Ambient {
	return m.Called(patch).Get(0).(domain.Ambient)
}

func (m *dashboardMock) SetAISettings(settings domain.AISettings) {
	m.Called(settings)
}

func (m *dashboardMock) AISettings() domain.AISettings {
	return m.Called().Get(0).(domain.AISettings)
}
