// Package advisor holds the offline heuristics used for first paint and as
// the fallback when remote generation is unavailable.
package advisor

import (
	"fmt"
	"time"

	"crystalos/internal/core/domain"
)

const (
	MotivationDefault   = "Stand by for tactical alignment."
	MotivationPeak      = "Exceptional performance detected. System efficiency is at peak levels."
	MotivationMomentum  = "Sectors clearing. Continue current mission parameters."
	MotivationLateNight = "Late-night cycle detected. Optimizating for restorative protocols soon."

	peakThreshold   = 5
	dormantProgress = 20
	lateNightFrom   = 22
	lateNightBefore = 5
)

var (
	InsightPerformancePeak = domain.AdvisorInsight{
		Title:   "Performance Peak",
		Message: "Velocity is exceeding median targets. Maintain this momentum.",
		Type:    domain.SeveritySuccess,
	}
	InsightNeutralPulse = domain.AdvisorInsight{
		Title:   "Neutral Pulse",
		Message: "Daily habit protocols are currently inactive. Initiate sector check-in.",
		Type:    domain.SeverityWarning,
	}
	InsightGridOptimal = domain.AdvisorInsight{
		Title:   "Grid Optimal",
		Message: "All systems reporting nominal. Operational readiness 100%.",
		Type:    domain.SeveritySuccess,
	}
)

type State struct {
	Tasks     []domain.Task
	Habits    []domain.Habit
	HabitLogs []domain.HabitLog
	Projects  []domain.Project
}

// Analyze maps a store snapshot to a motivation line and a list of insights.
// Motivation follows the last applicable of the velocity rules and the late
// night override; insights accumulate every structural check and fall back to
// Grid Optimal only when none applied.
func Analyze(state State, now time.Time, loc *time.Location) domain.AdvisorReport {
	if loc == nil {
		loc = time.Local
	}
	today := domain.DayOf(now, loc)

	report := domain.AdvisorReport{Motivation: MotivationDefault, Status: domain.StatusOptimal}
	var insights []domain.AdvisorInsight

	completedHabits := 0
	for _, h := range state.Habits {
		if h.Completed {
			completedHabits++
		}
	}
	completedToday := completedHabits
	for _, t := range state.Tasks {
		if t.Completed && t.CompletedAt != nil && domain.DayOf(*t.CompletedAt, loc) == today {
			completedToday++
		}
	}

	switch {
	case completedToday >= peakThreshold:
		report.Motivation = MotivationPeak
		insights = append(insights, InsightPerformancePeak)
	case completedToday > 0:
		report.Motivation = MotivationMomentum
	}

	if len(state.Habits) > 0 && completedHabits == 0 {
		insights = append(insights, InsightNeutralPulse)
		report.Status = domain.StatusSyncing
	}

	for _, p := range state.Projects {
		if !p.Completed && p.Progress < dormantProgress {
			insights = append(insights, domain.AdvisorInsight{
				Title:   "Dormant Objective",
				Message: fmt.Sprintf("Project %q requires tactical focus to break inertia.", p.Name),
				Type:    domain.SeverityInfo,
			})
			break
		}
	}

	if hour := now.In(loc).Hour(); hour > lateNightFrom || hour < lateNightBefore {
		report.Motivation = MotivationLateNight
	}

	if len(insights) == 0 {
		insights = []domain.AdvisorInsight{InsightGridOptimal}
	}
	report.Insights = insights
	return report
}
