package mapper

import (
	"time"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/core/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := formatTime(*t)
	return &value
}

func formatDay(d domain.Day) *string {
	if d.IsZero() {
		return nil
	}
	value := d.String()
	return &value
}

func mapSlice[T, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func ToUserItem(user domain.User) dto.UserItem {
	return dto.UserItem{ID: user.ID, Email: user.Email, Username: user.Username}
}

func ToSessionResponse(session domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		ExpiresAt:   formatTime(session.ExpiresAt),
		User:        ToUserItem(session.User),
	}
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	return dto.TaskItem{
		ID:          task.ID,
		Title:       task.Title,
		Completed:   task.Completed,
		CompletedAt: formatTimePtr(task.CompletedAt),
		CreatedAt:   formatTime(task.CreatedAt),
	}
}

func ToHabitItem(habit domain.Habit) dto.HabitItem {
	return dto.HabitItem{
		ID:              habit.ID,
		Name:            habit.Name,
		Type:            string(habit.Type),
		Completed:       habit.Completed,
		Streak:          habit.Streak,
		LastCompletedAt: formatTimePtr(habit.LastCompletedAt),
		Note:            habit.Note,
		CreatedAt:       formatTime(habit.CreatedAt),
	}
}

func ToHabitLogItem(log domain.HabitLog) dto.HabitLogItem {
	return dto.HabitLogItem{
		ID:          log.ID,
		HabitID:     log.HabitID,
		Date:        log.Date.String(),
		CompletedAt: formatTime(log.CompletedAt),
	}
}

func ToResearchItem(research *domain.Research) *dto.ResearchItem {
	if research == nil {
		return nil
	}
	return &dto.ResearchItem{
		Domain:             string(research.Domain),
		Brief:              research.Brief,
		PrimaryListLabel:   research.PrimaryListLabel,
		PrimaryList:        research.PrimaryList,
		SecondaryListLabel: research.SecondaryListLabel,
		SecondaryList:      research.SecondaryList,
		TacticalIntel:      research.TacticalIntel,
		Difficulty:         research.Difficulty,
		EstTime:            research.EstTime,
	}
}

func ToProjectItem(project domain.Project) dto.ProjectItem {
	return dto.ProjectItem{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Completed:   project.Completed,
		Progress:    project.Progress,
		Research:    ToResearchItem(project.Research),
		CreatedAt:   formatTime(project.CreatedAt),
	}
}

func ToTimetableItem(item domain.TimetableItem) dto.TimetableItem {
	out := dto.TimetableItem{
		ID:         item.ID,
		Activity:   item.Activity,
		Category:   item.Category,
		StartTime:  item.StartTime,
		EndTime:    item.EndTime,
		Recurrence: string(item.Recurrence),
		Date:       formatDay(item.Date),
		Completed:  item.Completed,
	}
	if item.Day != "" {
		day := item.Day
		out.Day = &day
	}
	return out
}

func ToTimetableItems(items []domain.TimetableItem) []dto.TimetableItem {
	return mapSlice(items, ToTimetableItem)
}

func ToNotificationItem(n domain.Notification) dto.NotificationItem {
	return dto.NotificationItem{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: formatTime(n.CreatedAt),
	}
}

func ToFocusModeItem(focus domain.FocusMode) dto.FocusModeItem {
	return dto.FocusModeItem{
		IsActive:     focus.IsActive,
		IsOpen:       focus.IsOpen,
		TimeLeft:     focus.TimeLeft,
		ActiveTaskID: focus.ActiveTaskID,
		SessionType:  string(focus.SessionType),
	}
}

func ToAmbientItem(ambient domain.Ambient) dto.AmbientItem {
	return dto.AmbientItem{
		Track:     string(ambient.Track),
		Volume:    ambient.Volume,
		IsPlaying: ambient.IsPlaying,
	}
}

func ToInsightItem(insight domain.Insight) dto.InsightItem {
	return dto.InsightItem{
		Message:    insight.Message,
		Action:     insight.Action,
		Priority:   insight.Priority,
		Motivation: insight.Motivation,
		NextStep:   insight.NextStep,
		Mode:       insight.Mode,
		Provenance: string(insight.Provenance),
	}
}

func toInsightPtr(insight *domain.Insight) *dto.InsightItem {
	if insight == nil {
		return nil
	}
	item := ToInsightItem(*insight)
	return &item
}

func ToAISettingsItem(settings domain.AISettings) dto.AISettingsItem {
	return dto.AISettingsItem{
		UseCloud:    settings.UseCloud,
		HasAPIKey:   settings.APIKey != "",
		CloudActive: settings.CloudEnabled(),
	}
}

// ToStateResponse renders a dashboard state. The AI key never leaves the
// server.
func ToStateResponse(state domain.DashboardState) dto.StateResponse {
	resp := dto.StateResponse{
		Tasks:         mapSlice(state.Tasks, ToTaskItem),
		Habits:        mapSlice(state.Habits, ToHabitItem),
		HabitLogs:     mapSlice(state.HabitLogs, ToHabitLogItem),
		Projects:      mapSlice(state.Projects, ToProjectItem),
		Timetable:     ToTimetableItems(state.Timetable),
		Notifications: mapSlice(state.Notifications, ToNotificationItem),
		SystemStatus:  string(state.SystemStatus),
		LastError:     state.LastError,
		ThemeColor:    state.ThemeColor,
		IsDarkMode:    state.IsDarkMode,
		FocusMode:     ToFocusModeItem(state.FocusMode),
		Ambient:       ToAmbientItem(state.Ambient),
		Insight:       toInsightPtr(state.Insight),
		LatestInsight: toInsightPtr(state.LatestInsight),
		LastResetDate: formatDay(state.LastResetDate),
		AI:            ToAISettingsItem(state.AI),
		Subscribed:    state.Subscribed,
	}
	if state.User != nil {
		user := ToUserItem(*state.User)
		resp.User = &user
	}
	return resp
}

func ToAdvisorResponse(report domain.AdvisorReport) dto.AdvisorResponse {
	return dto.AdvisorResponse{
		Motivation: report.Motivation,
		Insights: mapSlice(report.Insights, func(i domain.AdvisorInsight) dto.AdvisorInsightItem {
			return dto.AdvisorInsightItem{Title: i.Title, Message: i.Message, Type: string(i.Type)}
		}),
		Status: string(report.Status),
	}
}

func ToChatMessageItem(msg domain.ChatMessage) dto.ChatMessageItem {
	return dto.ChatMessageItem{Role: string(msg.Role), Text: msg.Text}
}

func ToChatMessageItems(messages []domain.ChatMessage) []dto.ChatMessageItem {
	return mapSlice(messages, ToChatMessageItem)
}
