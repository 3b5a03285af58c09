package flow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trackr-ai/trackr/internal/models"
)

// extractJSON pulls the first JSON object out of raw model output,
// tolerating surrounding prose and markdown code fences.
func extractJSON(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// parseWorkoutPlan interprets raw model output against the fitness schema.
// Every required field must be present and non-empty.
func parseWorkoutPlan(raw string) (models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	doc, ok := extractJSON(raw)
	if !ok {
		return plan, fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(doc), &plan); err != nil {
		return plan, fmt.Errorf("malformed workout JSON: %w", err)
	}
	if plan.WorkoutName == "" || plan.Duration == "" || len(plan.Steps) == 0 || plan.Tips == "" {
		return plan, fmt.Errorf("workout JSON missing required fields")
	}
	return plan, nil
}

// parseMealFeedback interprets raw model output against the nutrition
// schema. EstimatedCalories is forced to nil regardless of model output:
// the agent never estimates calories.
func parseMealFeedback(raw string) (models.MealFeedback, error) {
	var fb models.MealFeedback
	doc, ok := extractJSON(raw)
	if !ok {
		return fb, fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(doc), &fb); err != nil {
		return fb, fmt.Errorf("malformed meal feedback JSON: %w", err)
	}
	if fb.MealLogEntry == "" || fb.NutritionType == "" || fb.SuggestedImprovement == "" {
		return fb, fmt.Errorf("meal feedback JSON missing required fields")
	}
	fb.EstimatedCalories = nil
	return fb, nil
}

// parseMindfulnessReply interprets raw model output against the
// mindfulness schema.
func parseMindfulnessReply(raw string) (models.MindfulnessReply, error) {
	var reply models.MindfulnessReply
	doc, ok := extractJSON(raw)
	if !ok {
		return reply, fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(doc), &reply); err != nil {
		return reply, fmt.Errorf("malformed mindfulness JSON: %w", err)
	}
	if reply.MoodAcknowledgement == "" || reply.JournalPrompt == "" || reply.BreathingOrGrounding == "" || reply.SupportiveMessage == "" {
		return reply, fmt.Errorf("mindfulness JSON missing required fields")
	}
	return reply, nil
}
