package dto

type TaskItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at"`
	CreatedAt   string  `json:"created_at"`
}

type HabitItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Completed       bool    `json:"completed"`
	Streak          int     `json:"streak"`
	LastCompletedAt *string `json:"last_completed_at"`
	Note            string  `json:"note"`
	CreatedAt       string  `json:"created_at"`
}

type HabitLogItem struct {
	ID          string `json:"id"`
	HabitID     string `json:"habit_id"`
	Date        string `json:"date"`
	CompletedAt string `json:"completed_at"`
}

type ResearchItem struct {
	Domain             string   `json:"domain"`
	Brief              string   `json:"brief"`
	PrimaryListLabel   string   `json:"primary_list_label"`
	PrimaryList        []string `json:"primary_list"`
	SecondaryListLabel string   `json:"secondary_list_label"`
	SecondaryList      []string `json:"secondary_list"`
	TacticalIntel      []string `json:"tactical_intel"`
	Difficulty         string   `json:"difficulty"`
	EstTime            string   `json:"estTime"`
}

type ProjectItem struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	Progress    int           `json:"progress"`
	Research    *ResearchItem `json:"research,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

type TimetableItem struct {
	ID         string  `json:"id"`
	Activity   string  `json:"activity"`
	Category   string  `json:"category"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Recurrence string  `json:"recurrence"`
	Day        *string `json:"day"`
	Date       *string `json:"date"`
	Completed  bool    `json:"completed"`
}

type NotificationItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

type FocusModeItem struct {
	IsActive     bool   `json:"is_active"`
	IsOpen       bool   `json:"is_open"`
	TimeLeft     int    `json:"time_left"`
	ActiveTaskID string `json:"active_task_id,omitempty"`
	SessionType  string `json:"session_type"`
}

type AmbientItem struct {
	Track     string  `json:"track"`
	Volume    float64 `json:"volume"`
	IsPlaying bool    `json:"is_playing"`
}

type InsightItem struct {
	Message    string `json:"message"`
	Action     string `json:"action"`
	Priority   string `json:"priority"`
	Motivation string `json:"motivation,omitempty"`
	NextStep   string `json:"next_step,omitempty"`
	Mode       string `json:"mode"`
	Provenance string `json:"provenance"`
}

type AISettingsItem struct {
	UseCloud    bool `json:"use_cloud"`
	HasAPIKey   bool `json:"has_api_key"`
	CloudActive bool `json:"cloud_active"`
}

type StateResponse struct {
	User          *UserItem          `json:"user"`
	Tasks         []TaskItem         `json:"tasks"`
	Habits        []HabitItem        `json:"habits"`
	HabitLogs     []HabitLogItem     `json:"habit_logs"`
	Projects      []ProjectItem      `json:"projects"`
	Timetable     []TimetableItem    `json:"timetable"`
	Notifications []NotificationItem `json:"notifications"`
	SystemStatus  string             `json:"system_status"`
	LastError     string             `json:"last_error,omitempty"`
	ThemeColor    string             `json:"theme_color"`
	IsDarkMode    bool               `json:"is_dark_mode"`
	FocusMode     FocusModeItem      `json:"focus_mode"`
	Ambient       AmbientItem        `json:"ambient"`
	Insight       *InsightItem       `json:"insight"`
	LatestInsight *InsightItem       `json:"latest_insight"`
	LastResetDate *string            `json:"last_reset_date"`
	AI            AISettingsItem     `json:"ai"`
	Subscribed    bool               `json:"subscribed"`
}

type CompletionRateResponse struct {
	Rate int `json:"rate"`
}

type CreateTaskRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

type CreateHabitRequest struct {
	Name string  `json:"name" binding:"required,max=255"`
	Type *string `json:"type" binding:"omitempty,oneof=permanent temporary"`
}

type UpdateHabitRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
	Type *string `json:"type" binding:"omitempty,oneof=permanent temporary"`
	Note *string `json:"note" binding:"omitempty,max=65535"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=65535"`
}

type ProjectResponse struct {
	Project            ProjectItem `json:"project"`
	ResearchProvenance string      `json:"research_provenance"`
}

type ProjectProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

type CreateTimetableRequest struct {
	Activity   string  `json:"activity" binding:"required,max=255"`
	Category   string  `json:"category" binding:"omitempty,max=64"`
	StartTime  string  `json:"start_time" binding:"required,datetime=15:04"`
	EndTime    string  `json:"end_time" binding:"required,datetime=15:04"`
	Recurrence *string `json:"recurrence" binding:"omitempty,oneof=weekly once"`
	Day        *string `json:"day" binding:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Date       *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateTimetableRequest struct {
	Activity   *string `json:"activity" binding:"omitempty,max=255"`
	Category   *string `json:"category" binding:"omitempty,max=64"`
	StartTime  *string `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime    *string `json:"end_time" binding:"omitempty,datetime=15:04"`
	Recurrence *string `json:"recurrence" binding:"omitempty,oneof=weekly once"`
	Day        *string `json:"day" binding:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Date       *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type CreateNotificationRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Message string `json:"message" binding:"omitempty,max=65535"`
	Type    string `json:"type" binding:"omitempty,oneof=info success warning error"`
}

type NotificationResponse struct {
	Added        bool              `json:"added"`
	Notification *NotificationItem `json:"notification,omitempty"`
}

type ThemeRequest struct {
	Color string `json:"color" binding:"required,hexcolor"`
}

type DarkModeResponse struct {
	IsDarkMode bool `json:"is_dark_mode"`
}

type FocusRequest struct {
	IsActive     *bool   `json:"is_active"`
	IsOpen       *bool   `json:"is_open"`
	TimeLeft     *int    `json:"time_left" binding:"omitempty,gte=0"`
	ActiveTaskID *string `json:"active_task_id" binding:"omitempty,max=64"`
	SessionType  *string `json:"session_type" binding:"omitempty,oneof=focus break"`
}

type AmbientRequest struct {
	Track     *string  `json:"track" binding:"omitempty,oneof=none rain lofi waves white"`
	Volume    *float64 `json:"volume" binding:"omitempty,gte=0,lte=1"`
	IsPlaying *bool    `json:"is_playing"`
}

type AISettingsRequest struct {
	APIKey   *string `json:"api_key" binding:"omitempty,max=255"`
	UseCloud *bool   `json:"use_cloud"`
}

type AdvisorInsightItem struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type AdvisorResponse struct {
	Motivation string               `json:"motivation"`
	Insights   []AdvisorInsightItem `json:"insights"`
	Status     string               `json:"status"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

type ChatMessageItem struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
