package flow

import (
	"testing"

	"github.com/trackr-ai/trackr/internal/models"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		message string
		want    models.Intent
	}{
		{"Give me a 20 min workout", models.IntentFitness},
		{"any exercise for today?", models.IntentFitness},
		{"I ate a sandwich", models.IntentNutrition},
		{"what should I have for dinner", models.IntentNutrition},
		{"I feel anxious today", models.IntentMindfulness},
		{"my mood is off", models.IntentMindfulness},
		{"show my progress summary", models.IntentAnalytics},
		{"stats please", models.IntentAnalytics},
		{"xyz123", models.IntentUnknown},
		{"hello there", models.IntentUnknown},
	}
	for _, tt := range tests {
		if got := DetectIntent(tt.message); got != tt.want {
			t.Errorf("DetectIntent(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestDetectIntentPriorityOrder(t *testing.T) {
	// Fitness keywords win over mindfulness ones when both appear.
	if got := DetectIntent("I feel like doing a workout"); got != models.IntentFitness {
		t.Errorf("expected fitness to take priority, got %q", got)
	}
}

func TestBuildRequestContextFitness(t *testing.T) {
	rctx := BuildRequestContext(models.IntentFitness, "give me a 30 minute workout")
	if rctx.Minutes != 30 {
		t.Errorf("expected 30 minutes extracted, got %d", rctx.Minutes)
	}

	rctx = BuildRequestContext(models.IntentFitness, "quick workout please")
	if rctx.Minutes != 0 {
		t.Errorf("expected 0 minutes when none mentioned, got %d", rctx.Minutes)
	}
}

func TestBuildRequestContextNutrition(t *testing.T) {
	rctx := BuildRequestContext(models.IntentNutrition, "I ate pasta and veggies")
	if rctx.MealDescription != "pasta and veggies" {
		t.Errorf("expected cleaned meal description, got %q", rctx.MealDescription)
	}
}

func TestBuildRequestContextMindfulness(t *testing.T) {
	tests := []struct {
		message string
		want    models.MoodLevel
	}{
		{"I feel stressed", models.MoodLow},
		{"feeling sad today", models.MoodLow},
		{"I feel great", models.MoodHigh},
		{"I feel tired", models.MoodNeutral},
		// Positive wins when both polarities appear.
		{"I was sad but now I feel happy", models.MoodHigh},
	}
	for _, tt := range tests {
		rctx := BuildRequestContext(models.IntentMindfulness, tt.message)
		if rctx.Mood != tt.want {
			t.Errorf("mood for %q = %q, want %q", tt.message, rctx.Mood, tt.want)
		}
		if rctx.Note != tt.message {
			t.Errorf("expected note to carry the raw message, got %q", rctx.Note)
		}
	}
}

func TestExtractMinutes(t *testing.T) {
	if got := extractMinutes("45 min full body"); got != 45 {
		t.Errorf("expected 45, got %d", got)
	}
	if got := extractMinutes("no numbers here"); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
