package flow

import (
	"sort"
	"time"

	"github.com/trackr-ai/trackr/internal/models"
)

// Badge thresholds, evaluated highest-first. Streaks below the lowest
// threshold earn the baseline badge.
const (
	BadgeThresholdTop    = 30
	BadgeThresholdSecond = 14
	BadgeThresholdThird  = 7
	BadgeThresholdFourth = 3
)

// Badge labels for each consistency tier.
const (
	BadgeIronDiscipline = "Iron Discipline (30+ days streak!)"
	BadgeMomentum       = "Momentum Builder (2 weeks!)"
	BadgeConsistency    = "Consistency Achiever (1 week!)"
	BadgeHabitStarter   = "Healthy Habit Starter (3+ days streak)"
	BadgeGettingStarted = "Getting Started - proud of your first steps!"
)

// CalculateStreak returns the length of the longest run of consecutive
// calendar days ending at the most recent entry's date, counting at most
// one entry per day.
//
// Multiple entries on the same calendar day are collapsed to one counted
// day before the walk, so same-day duplicates neither extend nor break a
// streak. Dates are taken in UTC.
func CalculateStreak(entries []models.LogEntry) int {
	if len(entries) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(entries))
	days := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		day := e.Timestamp.UTC().Truncate(24 * time.Hour)
		key := day.Format(time.DateOnly)
		if !seen[key] {
			seen[key] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	anchor := days[0]
	for _, day := range days[1:] {
		if day.Equal(anchor.AddDate(0, 0, -1)) {
			streak++
			anchor = day
			continue
		}
		// A gap of one or more full days ends the streak; earlier entries
		// are not inspected.
		break
	}
	return streak
}

// AwardBadge maps a streak length to an achievement badge. Total over all
// non-negative streaks, deterministic, no side effects.
func AwardBadge(streak int) string {
	switch {
	case streak >= BadgeThresholdTop:
		return BadgeIronDiscipline
	case streak >= BadgeThresholdSecond:
		return BadgeMomentum
	case streak >= BadgeThresholdThird:
		return BadgeConsistency
	case streak >= BadgeThresholdFourth:
		return BadgeHabitStarter
	default:
		return BadgeGettingStarted
	}
}
