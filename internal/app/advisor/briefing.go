package advisor

import (
	"strings"
	"time"

	"crystalos/internal/core/domain"
)

const (
	ModeLocalHeuristic = "Local Heuristic"
	defaultNextStep    = "Tactical Review"
	overloadThreshold  = 5
)

// Brief is the hour-of-day heuristic shown when no generated briefing exists.
func Brief(tasks []domain.Task, now time.Time, loc *time.Location) domain.Insight {
	if loc == nil {
		loc = time.Local
	}

	pending := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	next := defaultNextStep
	if len(pending) > 0 {
		next = pending[0].Title
	}

	insight := domain.Insight{
		Message:  "Systems Nominal.",
		Action:   "Maintain Course",
		Priority: "Normal",
	}
	switch hour := now.In(loc).Hour(); {
	case hour < 9:
		insight.Message = "Early morning detected. Initialize startup sequence."
		insight.Action = "Focus on: " + next
		insight.Priority = "High"
	case hour >= 12 && hour < 14:
		insight.Message = "Midday checkpoint. Refuel and recalibrate."
		insight.Action = "Review progress"
		insight.Priority = "Medium"
	case hour > 18:
		insight.Message = "End of cycle approaching. Finalize objectives."
		insight.Action = "Close pending loops"
		insight.Priority = "Medium"
	}

	if len(pending) > overloadThreshold {
		insight.Message = "Overload warning. Too many active vectors."
		insight.Priority = "Critical"
	}

	insight.NextStep = next
	insight.Mode = ModeLocalHeuristic
	insight.Provenance = domain.ProvenanceLocal
	return insight
}

var chatReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi"}, "Greetings, Operator. Systems online."},
	{[]string{"status"}, "All systems operational. Ready for command."},
	{[]string{"help"}, "I can track tasks, monitor habits, and advise on scheduling."},
	{[]string{"joke"}, "Why did the developer go broke? Because he used up all his cache."},
	{[]string{"inspire", "quote"}, "Consistency is the code to success."},
}

const ReplyUnknown = "Command not recognized. Restate query."

// Reply answers a chat message with a canned keyword match. Matching is a
// case-insensitive substring test in declaration order.
func Reply(message string) string {
	lower := strings.ToLower(message)
	for _, c := range chatReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.reply
			}
		}
	}
	return ReplyUnknown
}
