package advisor

import (
	"fmt"
	"strings"

	"crystalos/internal/core/domain"
)

var (
	informationKeywords = []string{
		"math", "science", "theory", "research", "paper", "equation", "physics",
		"study", "learn", "differential", "academic", "philosophy", "logic",
	}
	softwareKeywords = []string{
		"app", "software", "code", "website", "api", "server", "database",
		"frontend", "backend", "fullstack", "js", "react", "python", "docker",
	}
)

// ClassifyDomain guesses the research domain of a project from its name and
// description. Information keywords win over software ones; hardware is the
// default.
func ClassifyDomain(name, description string) domain.ResearchDomain {
	lowerName := strings.ToLower(name)
	lowerDesc := strings.ToLower(description)
	matches := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(lowerName, kw) || strings.Contains(lowerDesc, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case matches(informationKeywords):
		return domain.ResearchDomainInformation
	case matches(softwareKeywords):
		return domain.ResearchDomainSoftware
	default:
		return domain.ResearchDomainHardware
	}
}

// FallbackResearch builds the offline research payload for a project.
func FallbackResearch(name, description string) domain.Research {
	lowerName := strings.ToLower(name)

	switch ClassifyDomain(name, description) {
	case domain.ResearchDomainInformation:
		if strings.Contains(lowerName, "math") {
			return domain.Research{
				Domain:             domain.ResearchDomainInformation,
				Brief:              fmt.Sprintf("Mathematical modeling and analytical derivation for %s.", name),
				PrimaryListLabel:   "Core Mathematical Concepts",
				PrimaryList:        []string{"Foundational Theorems", "Higher-Order Logic", "Computational Methods", "Reference Manuals", "Data Models"},
				SecondaryListLabel: "Analysis & Proof Plan",
				SecondaryList:      []string{"Define constraints", "Formulate equations", "Execute derivation", "Verify proof of concept", "Formal documentation"},
				TacticalIntel:      []string{"Verify first principles before complex derivation.", "Maintain strict notation consistency."},
				Difficulty:         "Advanced",
				EstTime:            "10-20 Hours",
			}
		}
		return domain.Research{
			Domain:             domain.ResearchDomainInformation,
			Brief:              fmt.Sprintf("Theoretical analysis and conceptual modeling of %s.", name),
			PrimaryListLabel:   "Core Concepts & References",
			PrimaryList:        []string{"Foundational Theorems", "Academic Journals", "Reference Manuals", "Data Models", "Peer Reviews"},
			SecondaryListLabel: "Research & Analysis Plan",
			SecondaryList:      []string{"Literature review", "Hypothesis formulation", "Mathematical derivation", "Proof of concept", "Formal documentation"},
			TacticalIntel:      []string{"Cross-reference multiple sources for accuracy.", "Verify first principles before complex derivation."},
			Difficulty:         "Variable",
			EstTime:            "10-20 Hours",
		}

	case domain.ResearchDomainSoftware:
		return domain.Research{
			Domain:             domain.ResearchDomainSoftware,
			Brief:              fmt.Sprintf("Digital architecture and implementation protocol for %s.", name),
			PrimaryListLabel:   "Technology Stack",
			PrimaryList:        []string{"Framework Core", "State Management", "API Interface", "Database Schema", "Auth Protocols"},
			SecondaryListLabel: "Development Phases",
			SecondaryList:      []string{"Repo initialization", "Architecture design", "Core logic implementation", "Integration testing", "Deployment audit"},
			TacticalIntel:      []string{"Prioritize atomic component design.", "Implement robust error handling."},
			Difficulty:         "Intermediate",
			EstTime:            "20-40 Hours",
		}
	}

	if strings.Contains(lowerName, "drone") {
		return domain.Research{
			Domain:             domain.ResearchDomainHardware,
			Brief:              "Next-gen aerial platform focused on high-thrust-to-weight ratios and low latency telemetry.",
			PrimaryListLabel:   "Required Materials",
			PrimaryList:        []string{"Carbon Fiber Frame", "High-KV Brushless Motors", "4S LiPo Battery", "F4 Flight Controller", "Propellers"},
			SecondaryListLabel: "Implementation Steps",
			SecondaryList:      []string{"Assemble frame modules", "Mount tactical motors", "Configure PID tuning", "Calibrate IMU sensor", "Flight envelope test"},
			TacticalIntel:      []string{"Vibration isolation is critical for IMU stability.", "Use blue Loctite on all metal-to-metal screws."},
			Difficulty:         "Advanced",
			EstTime:            "12-18 Hours",
		}
	}

	return domain.Research{
		Domain:             domain.ResearchDomainHardware,
		Brief:              fmt.Sprintf("Physical assembly and engineering protocol for %s.", name),
		PrimaryListLabel:   "Required Materials",
		PrimaryList:        []string{"Structure Modules", "Power Systems", "Control Logic", "Interface Ports", "Fasteners"},
		SecondaryListLabel: "Implementation Steps",
		SecondaryList:      []string{"Chassis assembly", "Circuit integration", "Firmware calibration", "Stress testing", "Operational verify"},
		TacticalIntel:      []string{"Verify tolerances before assembly.", "Ensure proper thermal management."},
		Difficulty:         "Advanced",
		EstTime:            "15-25 Hours",
	}
}
