package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trackr-ai/trackr/internal/genai"
	"github.com/trackr-ai/trackr/internal/models"
	"github.com/trackr-ai/trackr/internal/store"
	"github.com/trackr-ai/trackr/internal/tone"
)

// DefaultWorkoutMinutes is assumed when the message carries no duration.
const DefaultWorkoutMinutes = 20

const fitnessSystemPrompt = `You are the Fitness Coach Agent for Trackr.

%s

Rules:
- Create a beginner-friendly workout.
- Use only bodyweight unless the user mentions equipment.
- Stay within the requested time.
- Tone: short, positive, and encouraging.

%s

Respond ONLY as valid JSON with keys:
{
  "workout_name": "",
  "duration": "",
  "intensity": "",
  "steps": [],
  "tips": ""
}`

const fitnessUserPrompt = `User profile:
- Name: %s
- Age: %d
- Gender: %s
- Fitness level: %s
Available time: %d minutes
User request: %q`

// FitnessAgent generates personalized workout plans, falling back to a
// fixed routine when the model is unavailable or returns non-conforming
// output.
type FitnessAgent struct {
	store store.Store
	genai genai.ClientInterface
}

// NewFitnessAgent creates a fitness agent.
func NewFitnessAgent(st store.Store, client genai.ClientInterface) *FitnessAgent {
	return &FitnessAgent{store: st, genai: client}
}

// Handle produces a workout plan and appends one workouts log entry.
func (a *FitnessAgent) Handle(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error) {
	user, err := a.store.GetOrCreateUser(userID)
	if err != nil {
		return models.Response{}, fmt.Errorf("fitness agent failed to load user: %w", err)
	}
	profile := user.Profile

	minutes := rctx.Minutes
	if minutes <= 0 {
		minutes = DefaultWorkoutMinutes
	}

	systemPrompt := fmt.Sprintf(fitnessSystemPrompt, tone.ForAge(profile.Age), tone.SafetyBoundaries)
	userPrompt := fmt.Sprintf(fitnessUserPrompt,
		profile.DisplayName(), profile.Age, profile.Gender, profile.FitnessLevel, minutes, message)

	raw := generate(ctx, a.genai, models.AgentFitness, systemPrompt, userPrompt)

	source := models.SourceModel
	reason := ""
	plan, parseErr := parseWorkoutPlan(raw)
	if parseErr != nil {
		source = models.SourceFallback
		reason = parseErr.Error()
		plan = fallbackWorkoutPlan(profile, minutes)
		slog.Debug("FitnessAgent using fallback plan", "user_id", userID, "reason", reason)
	}

	entry, err := newLogEntry(plan)
	if err != nil {
		return models.Response{}, err
	}
	if err := a.store.AppendLog(userID, models.LogCategoryWorkouts, entry); err != nil {
		return models.Response{}, fmt.Errorf("fitness agent failed to append log: %w", err)
	}

	return models.Response{
		Agent:          models.AgentFitness,
		Source:         source,
		FallbackReason: reason,
		Data:           plan,
	}, nil
}

// fallbackWorkoutPlan is the statically known safe routine substituted when
// generation fails.
func fallbackWorkoutPlan(profile models.Profile, minutes int) models.WorkoutPlan {
	intensity := profile.FitnessLevel
	if intensity == "" {
		intensity = models.DefaultFitnessLevel
	}
	return models.WorkoutPlan{
		WorkoutName: "Quick full-body routine",
		Duration:    fmt.Sprintf("%d minutes", minutes),
		Intensity:   intensity,
		Steps: []string{
			"5 min warm-up: walk in place",
			"3 x 10 bodyweight squats",
			"3 x 10 push-ups (knees if needed)",
			"3 x 20 jumping jacks",
			"5 min stretching: legs, arms, back",
		},
		Tips: "Move at a comfortable pace and stop if you feel discomfort.",
	}
}
