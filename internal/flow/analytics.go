package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trackr-ai/trackr/internal/models"
	"github.com/trackr-ai/trackr/internal/store"
)

// Age brackets for the encouragement clause.
const (
	encouragementSeniorAge = 45
	encouragementYouthAge  = 18
)

// NextMicroGoal is the fixed suggestion appended to every progress summary.
const NextMicroGoal = "Tomorrow, repeat ANY habit you've logged and add one tiny improvement - even 3 minutes counts."

// AnalyticsAgent summarizes history, habits, streaks, and overall
// engagement. Pure computation over existing logs: it makes no external
// call and appends nothing.
type AnalyticsAgent struct {
	store store.Store
}

// NewAnalyticsAgent creates an analytics agent over the given store.
func NewAnalyticsAgent(st store.Store) *AnalyticsAgent {
	return &AnalyticsAgent{store: st}
}

// Handle computes the progress summary. Missing profile fields are
// tolerated via defaults; the only failure mode is storage access.
func (a *AnalyticsAgent) Handle(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error) {
	user, err := a.store.GetOrCreateUser(userID)
	if err != nil {
		return models.Response{}, fmt.Errorf("analytics agent failed to load user: %w", err)
	}

	workouts := user.Logs[models.LogCategoryWorkouts]
	meals := user.Logs[models.LogCategoryMeals]
	moods := user.Logs[models.LogCategoryMood]

	streaks := models.StreakSummary{
		WorkoutStreakDays: CalculateStreak(workouts),
		MealStreakDays:    CalculateStreak(meals),
		MoodStreakDays:    CalculateStreak(moods),
	}
	best := max(streaks.WorkoutStreakDays, max(streaks.MealStreakDays, streaks.MoodStreakDays))

	summary := models.ProgressSummary{
		SummaryRange: "entire logged history",
		Stats: models.ProgressStats{
			TotalWorkouts:     len(workouts),
			TotalMealsLogged:  len(meals),
			TotalMoodCheckins: len(moods),
			Streaks:           streaks,
		},
		BestStreak:    best,
		Badge:         AwardBadge(best),
		Encouragement: encouragement(user.Profile),
		NextMicroGoal: NextMicroGoal,
	}
	slog.Debug("AnalyticsAgent produced summary", "user_id", userID, "best_streak", best)

	return models.Response{
		Agent:  models.AgentAnalytics,
		Source: models.SourceLocal,
		Data:   summary,
	}, nil
}

// encouragement builds the profile-aware motivational note: base message
// with display name, an age-bracket clause, and a goal clause.
func encouragement(p models.Profile) string {
	note := fmt.Sprintf("You're making steady progress, %s.", p.DisplayName())
	if p.Age > encouragementSeniorAge {
		note += " Your consistency at this stage of life is especially inspiring."
	} else if p.Age > 0 && p.Age < encouragementYouthAge {
		note += " You're building strong habits early - amazing foundation!"
	}
	if p.Goals != "" {
		note += fmt.Sprintf(" Every step moves you closer to your goal: %s.", p.Goals)
	}
	return note
}
