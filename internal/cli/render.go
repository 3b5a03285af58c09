package cli

import (
	"fmt"
	"io"

	"github.com/trackr-ai/trackr/internal/models"
)

const separator = "======================================================="

// Render writes a human-readable view of one orchestrator response.
func Render(w io.Writer, resp models.Response) {
	fmt.Fprintf(w, "\n%s\n", separator)

	switch data := resp.Data.(type) {
	case models.WorkoutPlan:
		renderWorkout(w, data)
	case models.MealFeedback:
		renderMeal(w, data)
	case models.MindfulnessReply:
		renderMindfulness(w, data)
	case models.ProgressSummary:
		renderProgress(w, data)
	default:
		fmt.Fprintf(w, "%s\n", resp.Message)
	}

	fmt.Fprintf(w, "%s\n\n", separator)
}

func renderWorkout(w io.Writer, plan models.WorkoutPlan) {
	fmt.Fprintf(w, "Workout Plan Ready\n")
	fmt.Fprintf(w, "%s (%s)\n", plan.WorkoutName, plan.Duration)
	for _, step := range plan.Steps {
		fmt.Fprintf(w, " - %s\n", step)
	}
	fmt.Fprintf(w, "Tip: %s\n", plan.Tips)
}

func renderMeal(w io.Writer, fb models.MealFeedback) {
	fmt.Fprintf(w, "Nutrition Log Recorded\n")
	fmt.Fprintf(w, "Meal: %s\n", fb.MealLogEntry)
	fmt.Fprintf(w, "Suggestion: %s\n", fb.SuggestedImprovement)
}

func renderMindfulness(w io.Writer, reply models.MindfulnessReply) {
	fmt.Fprintf(w, "Mindfulness Check-In\n")
	fmt.Fprintf(w, "%s\n", reply.MoodAcknowledgement)
	fmt.Fprintf(w, "Journal: %s\n", reply.JournalPrompt)
	fmt.Fprintf(w, "Breathing: %s\n", reply.BreathingOrGrounding)
	fmt.Fprintf(w, "%s\n", reply.SupportiveMessage)
}

func renderProgress(w io.Writer, summary models.ProgressSummary) {
	fmt.Fprintf(w, "Progress Overview\n")
	fmt.Fprintf(w, "Workouts: %d\n", summary.Stats.TotalWorkouts)
	fmt.Fprintf(w, "Meals: %d\n", summary.Stats.TotalMealsLogged)
	fmt.Fprintf(w, "Mood logs: %d\n", summary.Stats.TotalMoodCheckins)
	fmt.Fprintf(w, "Best streak: %d days\n", summary.BestStreak)
	fmt.Fprintf(w, "Badge: %s\n", summary.Badge)
	fmt.Fprintf(w, "%s\n", summary.Encouragement)
	fmt.Fprintf(w, "Next step: %s\n", summary.NextMicroGoal)
}
