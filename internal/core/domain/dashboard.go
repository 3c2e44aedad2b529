package domain

// DashboardState is a point-in-time copy of everything a client renders.
type DashboardState struct {
	User          *User           `json:"user"`
	Tasks         []Task          `json:"tasks"`
	Habits        []Habit         `json:"habits"`
	HabitLogs     []HabitLog      `json:"habitLogs"`
	Projects      []Project       `json:"projects"`
	Timetable     []TimetableItem `json:"timetable"`
	Notifications []Notification  `json:"notifications"`
	SystemStatus  SystemStatus    `json:"systemStatus"`
	LastError     string          `json:"lastError,omitempty"`
	ThemeColor    string          `json:"themeColor"`
	IsDarkMode    bool            `json:"isDarkMode"`
	FocusMode     FocusMode       `json:"focusMode"`
	Ambient       Ambient         `json:"ambient"`
	Insight       *Insight        `json:"insight"`
	LatestInsight *Insight        `json:"latestInsight"`
	LastResetDate Day             `json:"lastResetDate"`
	AI            AISettings      `json:"ai"`
	Subscribed    bool            `json:"subscribed"`
}

type CreateProjectInput struct {
	Name        string
	Description string
	Progress    int
	Research    *Research
}

type CreateNotificationInput struct {
	Title   string
	Message string
	Type    string
}

// AdvisorReport is the outcome of the offline heuristics.
type AdvisorReport struct {
	Motivation string           `json:"motivation"`
	Insights   []AdvisorInsight `json:"insights"`
	Status     SystemStatus     `json:"status"`
}

const ModeLocalEngine = "Local Engine"

// Insight converts the report into the dashboard insight shape.
func (r AdvisorReport) Insight() Insight {
	first := r.Insights[0]
	priority := "Medium"
	if first.Type == SeverityWarning {
		priority = "High"
	}
	return Insight{
		Message:    first.Message,
		Action:     first.Title,
		Priority:   priority,
		Motivation: r.Motivation,
		Mode:       ModeLocalEngine,
		Provenance: ProvenanceLocal,
	}
}
