package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"crystalos/internal/app/advisor"
	"crystalos/internal/core/domain"
)

const insightPrompt = `You are a tactical command assistant for a high-performance dashboard.
Analyze this user status:
%s

Respond in valid JSON format ONLY with this structure:
{
    "message": "Short, punchy tactical status update (max 15 words)",
    "action": "Specific recommended next action",
    "priority": "High/Medium/Low",
    "motivation": "A very short, intense motivational quote"
}
Keep the tone: Military / Sci-Fi / Professional / "Goat Mode".`

const chatPrompt = `System: You are "Cortex", a tactical AI assistant.
Context provided:
Tasks: %d active.
User: %s

Respond briefly and helpfully. Tone: Professional, slightly futuristic.`

const researchPrompt = `You are a tactical research AI. Generate a research protocol for this project:
Name: %s
Description: %s
Detected Domain: %s

Respond in valid JSON ONLY with this structure:
{
    "domain": "%s",
    "brief": "One-sentence strategic summary",
    "primary_list_label": "Label for the first list (e.g., Required Materials / Core Concepts / Tech Stack)",
    "primary_list": ["item 1", "item 2", "item 3", "item 4", "item 5"],
    "secondary_list_label": "Label for the second list (e.g., Implementation Steps / Research Plan / Development Phases)",
    "secondary_list": ["Step 1", "Step 2", "Step 3", "Step 4", "Step 5"],
    "tactical_intel": ["Key tip 1", "Key tip 2"],
    "difficulty": "Advanced/Intermediate/Basic",
    "estTime": "Short estimate (e.g., 10-15 Hours)"
}
Tweak labels based on the domain.`

// Summary renders the status block sent with insight prompts.
func Summary(state advisor.State, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	pending := make([]string, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		if !t.Completed {
			pending = append(pending, t.Title)
		}
	}

	done := 0
	for _, h := range state.Habits {
		if h.Completed {
			done++
		}
	}
	total := len(state.Habits)
	if total == 0 {
		total = 1
	}
	rate := int(math.Round(float64(done) * 100 / float64(total)))

	return fmt.Sprintf("Current Time: %s\nUncompleted Tasks: %s\nActive Projects: %d\nHabit Completion: %d%%",
		now.In(loc).Format("15:04"),
		strings.Join(pending, ", "),
		len(state.Projects),
		rate,
	)
}

func buildInsightPrompt(summary string) string {
	return fmt.Sprintf(insightPrompt, summary)
}

func buildChatPrompt(tasks int, message string) string {
	return fmt.Sprintf(chatPrompt, tasks, message)
}

func buildResearchPrompt(name, description string, d domain.ResearchDomain) string {
	return fmt.Sprintf(researchPrompt, name, description, d, d)
}

var fences = strings.NewReplacer("```json", "", "```", "")

// stripFences removes markdown code fences around a JSON payload.
func stripFences(text string) string {
	return strings.TrimSpace(fences.Replace(text))
}
