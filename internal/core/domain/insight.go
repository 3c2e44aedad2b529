package domain

type Provenance string

const (
	ProvenanceLocal  Provenance = "local"
	ProvenanceRemote Provenance = "remote"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Insight is the single advisory value shown on the dashboard.
type Insight struct {
	Message    string     `json:"message"`
	Action     string     `json:"action"`
	Priority   string     `json:"priority"`
	Motivation string     `json:"motivation,omitempty"`
	NextStep   string     `json:"next_step,omitempty"`
	Mode       string     `json:"mode"`
	Provenance Provenance `json:"provenance"`
}

type AdvisorInsight struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Type    Severity `json:"type"`
}

type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "ai"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// AISettings are the per-session credentials for remote text generation.
type AISettings struct {
	APIKey   string `json:"-"`
	UseCloud bool   `json:"use_cloud"`
}

func (s AISettings) CloudEnabled() bool {
	return s.APIKey != "" && s.UseCloud
}
