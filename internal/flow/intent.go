package flow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/trackr-ai/trackr/internal/models"
)

// Keyword sets for intent classification. Matching is case-insensitive
// substring search; the first matching category in priority order wins.
// This is a best-effort heuristic: false positives and negatives are
// accepted by design.
var (
	fitnessKeywords     = []string{"workout", "exercise", "gym", "pushups", "squats"}
	nutritionKeywords   = []string{"i ate", "meal", "breakfast", "lunch", "dinner", "food"}
	mindfulnessKeywords = []string{"feel", "mood", "stress", "sad", "happy", "anxious"}
	analyticsKeywords   = []string{"progress", "summary", "stats", "report"}

	negativeMoodKeywords = []string{"sad", "low", "stressed", "bad", "anxious"}
	positiveMoodKeywords = []string{"happy", "good", "great"}
)

var minutesPattern = regexp.MustCompile(`(\d+)`)

// DetectIntent classifies a message into one of the four agent intents, or
// IntentUnknown when no keyword matches.
func DetectIntent(message string) models.Intent {
	text := strings.ToLower(message)
	switch {
	case containsAny(text, fitnessKeywords):
		return models.IntentFitness
	case containsAny(text, nutritionKeywords):
		return models.IntentNutrition
	case containsAny(text, mindfulnessKeywords):
		return models.IntentMindfulness
	case containsAny(text, analyticsKeywords):
		return models.IntentAnalytics
	default:
		return models.IntentUnknown
	}
}

// BuildRequestContext extracts the per-intent parameters from the message:
// requested minutes for fitness, the cleaned meal description for
// nutrition, and the mood bucket plus note for mindfulness.
func BuildRequestContext(intent models.Intent, message string) models.RequestContext {
	var rctx models.RequestContext
	switch intent {
	case models.IntentFitness:
		rctx.Minutes = extractMinutes(message)
	case models.IntentNutrition:
		rctx.MealDescription = extractMealDescription(message)
	case models.IntentMindfulness:
		rctx.Mood = moodFromMessage(message)
		rctx.Note = message
	}
	return rctx
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// extractMinutes returns the first number in the message, or 0 when none
// is present (the fitness agent applies its default).
func extractMinutes(message string) int {
	m := minutesPattern.FindString(message)
	if m == "" {
		return 0
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return minutes
}

// extractMealDescription strips the leading "i ate" phrasing.
func extractMealDescription(message string) string {
	cleaned := strings.ToLower(message)
	cleaned = strings.Replace(cleaned, "i ate", "", 1)
	return strings.TrimSpace(cleaned)
}

// moodFromMessage buckets the message into low/neutral/high. Positive
// keywords win over negative ones when both appear, matching the original
// check order.
func moodFromMessage(message string) models.MoodLevel {
	text := strings.ToLower(message)
	mood := models.MoodNeutral
	if containsAny(text, negativeMoodKeywords) {
		mood = models.MoodLow
	}
	if containsAny(text, positiveMoodKeywords) {
		mood = models.MoodHigh
	}
	return mood
}
