package flow

import (
	"strings"
	"testing"
)

const validWorkoutJSON = `{
	"workout_name": "Morning Starter",
	"duration": "20 minutes",
	"intensity": "beginner",
	"steps": ["warm up", "squats", "stretch"],
	"tips": "Keep breathing steady."
}`

func TestParseWorkoutPlanValid(t *testing.T) {
	plan, err := parseWorkoutPlan(validWorkoutJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.WorkoutName != "Morning Starter" || len(plan.Steps) != 3 {
		t.Errorf("unexpected plan: %+v", plan)
	}
}

func TestParseWorkoutPlanFencedOutput(t *testing.T) {
	raw := "Sure! Here is your plan:\n```json\n" + validWorkoutJSON + "\n```\nEnjoy!"
	plan, err := parseWorkoutPlan(raw)
	if err != nil {
		t.Fatalf("expected fenced JSON to parse, got error: %v", err)
	}
	if plan.Duration != "20 minutes" {
		t.Errorf("unexpected duration: %q", plan.Duration)
	}
}

func TestParseWorkoutPlanRejectsIncomplete(t *testing.T) {
	for _, raw := range []string{
		"",
		"no json here",
		`{"workout_name": "x"}`,
		`{"workout_name": "x", "duration": "10 min", "steps": [], "tips": "y"}`,
	} {
		if _, err := parseWorkoutPlan(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestParseMealFeedbackForcesNilCalories(t *testing.T) {
	raw := `{
		"meal_log_entry": "pasta and veggies",
		"estimated_calories": 650,
		"nutrition_type": "general",
		"suggested_improvement": "Add a glass of water."
	}`
	fb, err := parseMealFeedback(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.EstimatedCalories != nil {
		t.Errorf("expected calories forced to nil, got %v", *fb.EstimatedCalories)
	}
	if fb.MealLogEntry != "pasta and veggies" {
		t.Errorf("unexpected meal entry: %q", fb.MealLogEntry)
	}
}

func TestParseMealFeedbackRejectsMissingFields(t *testing.T) {
	if _, err := parseMealFeedback(`{"meal_log_entry": "x"}`); err == nil {
		t.Error("expected error for missing fields")
	}
	if _, err := parseMealFeedback("not json"); err == nil {
		t.Error("expected error for non-JSON output")
	}
}

func TestParseMindfulnessReply(t *testing.T) {
	raw := `{
		"mood_acknowledgement": "That sounds heavy.",
		"journal_prompt": "What is one small thing that helped today?",
		"optional_breathing_or_grounding": "Try a slow 4-2-6 breath.",
		"supportive_message": "You're doing fine."
	}`
	reply, err := parseMindfulnessReply(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply.BreathingOrGrounding, "4-2-6") {
		t.Errorf("unexpected breathing field: %q", reply.BreathingOrGrounding)
	}

	if _, err := parseMindfulnessReply(`{"mood_acknowledgement": "x"}`); err == nil {
		t.Error("expected error for missing fields")
	}
}
