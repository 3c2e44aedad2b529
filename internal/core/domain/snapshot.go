package domain

// Snapshot is the persisted pre-fetch placeholder of a session.
type Snapshot struct {
	User          *User           `json:"user"`
	IsDarkMode    bool            `json:"isDarkMode"`
	ThemeColor    string          `json:"themeColor"`
	Tasks         []Task          `json:"tasks"`
	Habits        []Habit         `json:"habits"`
	Projects      []Project       `json:"projects"`
	Timetable     []TimetableItem `json:"timetable"`
	Notifications []Notification  `json:"notifications"`
	LatestInsight *Insight        `json:"latestInsight"`
	LastResetDate Day             `json:"lastResetDate"`
}
