package domain

import "time"

type ResearchDomain string

const (
	ResearchDomainHardware    ResearchDomain = "hardware"
	ResearchDomainSoftware    ResearchDomain = "software"
	ResearchDomainInformation ResearchDomain = "information"
)

// Research is the structured briefing attached to a project when it is created.
type Research struct {
	Domain             ResearchDomain `json:"domain"`
	Brief              string         `json:"brief"`
	PrimaryListLabel   string         `json:"primary_list_label"`
	PrimaryList        []string       `json:"primary_list"`
	SecondaryListLabel string         `json:"secondary_list_label"`
	SecondaryList      []string       `json:"secondary_list"`
	TacticalIntel      []string       `json:"tactical_intel"`
	Difficulty         string         `json:"difficulty"`
	EstTime            string         `json:"estTime"`
}

type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Progress    int       `json:"progress"`
	Research    *Research `json:"research,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProjectPatch struct {
	Completed *bool
	Progress  *int
}
