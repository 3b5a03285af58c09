package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trackr-ai/trackr/internal/genai"
	"github.com/trackr-ai/trackr/internal/models"
	"github.com/trackr-ai/trackr/internal/store"
	"github.com/trackr-ai/trackr/internal/tone"
)

const nutritionSystemPrompt = `You are the Nutrition Coach Agent for Trackr.

Personalization:
- User name: %s
- Age: %d
- Gender: %s
- Diet preference: %s
- Goal: %s

%s
%s

%s
- NO calorie estimates.
- NO strict diet rules ("you must", "avoid", "never").
- Encourage balanced choices: hydration, fruits/vegetables, fiber.

Respond ONLY as valid JSON with keys:
{
  "meal_log_entry": "",
  "estimated_calories": null,
  "nutrition_type": "",
  "suggested_improvement": ""
}`

const nutritionUserPrompt = `The user logged this meal: %q
Provide a supportive improvement idea.`

// NutritionAgent logs meals and suggests gentle habit improvements. It
// never estimates calories or gives dietary rules.
type NutritionAgent struct {
	store store.Store
	genai genai.ClientInterface
}

// NewNutritionAgent creates a nutrition agent.
func NewNutritionAgent(st store.Store, client genai.ClientInterface) *NutritionAgent {
	return &NutritionAgent{store: st, genai: client}
}

// Handle produces meal feedback and appends one meals log entry.
func (a *NutritionAgent) Handle(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error) {
	user, err := a.store.GetOrCreateUser(userID)
	if err != nil {
		return models.Response{}, fmt.Errorf("nutrition agent failed to load user: %w", err)
	}
	profile := user.Profile

	mealDesc := strings.TrimSpace(rctx.MealDescription)
	if mealDesc == "" {
		mealDesc = message
	}

	systemPrompt := fmt.Sprintf(nutritionSystemPrompt,
		profile.DisplayName(), profile.Age, profile.Gender, profile.DietType, profile.Goals,
		tone.ForAge(profile.Age),
		strings.TrimSpace(tone.DietContext(profile)+" "+tone.GoalContext(profile)),
		tone.SafetyBoundaries)
	userPrompt := fmt.Sprintf(nutritionUserPrompt, mealDesc)

	raw := generate(ctx, a.genai, models.AgentNutrition, systemPrompt, userPrompt)

	source := models.SourceModel
	reason := ""
	feedback, parseErr := parseMealFeedback(raw)
	if parseErr != nil {
		source = models.SourceFallback
		reason = parseErr.Error()
		feedback = fallbackMealFeedback(profile, mealDesc)
		slog.Debug("NutritionAgent using fallback feedback", "user_id", userID, "reason", reason)
	}

	entry, err := newLogEntry(feedback)
	if err != nil {
		return models.Response{}, err
	}
	if err := a.store.AppendLog(userID, models.LogCategoryMeals, entry); err != nil {
		return models.Response{}, fmt.Errorf("nutrition agent failed to append log: %w", err)
	}

	return models.Response{
		Agent:          models.AgentNutrition,
		Source:         source,
		FallbackReason: reason,
		Data:           feedback,
	}, nil
}

// fallbackMealFeedback is the statically known safe response substituted
// when generation fails.
func fallbackMealFeedback(profile models.Profile, mealDesc string) models.MealFeedback {
	dietType := profile.DietType
	if dietType == "" {
		dietType = models.DefaultDietType
	}
	return models.MealFeedback{
		MealLogEntry:  mealDesc,
		NutritionType: dietType,
		SuggestedImprovement: fmt.Sprintf(
			"Thanks for logging that, %s. If you'd like an optional improvement, you could add a fruit, vegetable, or glass of water to balance the meal.",
			profile.DisplayName()),
	}
}
