package models

// Intent is the routing category derived from a user message.
type Intent string

const (
	IntentFitness     Intent = "fitness"
	IntentNutrition   Intent = "nutrition"
	IntentMindfulness Intent = "mindfulness"
	IntentAnalytics   Intent = "analytics"
	IntentUnknown     Intent = "unknown"
)

// AgentName identifies which component produced a response.
type AgentName string

const (
	AgentSystem      AgentName = "system"
	AgentFitness     AgentName = "fitness"
	AgentNutrition   AgentName = "nutrition"
	AgentMindfulness AgentName = "mindfulness"
	AgentAnalytics   AgentName = "analytics"
)

// MoodLevel is the coarse mood bucket derived from message keywords.
type MoodLevel string

const (
	MoodLow     MoodLevel = "low"
	MoodNeutral MoodLevel = "neutral"
	MoodHigh    MoodLevel = "high"
)

// RequestContext carries parameters extracted from the message before
// dispatch (requested workout minutes, cleaned meal description, mood bucket).
type RequestContext struct {
	Minutes         int       `json:"minutes,omitempty"`
	MealDescription string    `json:"meal_description,omitempty"`
	Mood            MoodLevel `json:"mood,omitempty"`
	Note            string    `json:"note,omitempty"`
}

// GenerationSource tags whether a structured result came from the model or
// from the static fallback, and why. Kept explicit rather than swallowed so
// the distinction survives for telemetry.
type GenerationSource string

const (
	// SourceModel means the text-generation backend returned output that
	// passed the schema check.
	SourceModel GenerationSource = "model"
	// SourceFallback means the static safe structure was substituted.
	SourceFallback GenerationSource = "fallback"
	// SourceLocal means the result was computed without any external call.
	SourceLocal GenerationSource = "local"
)

// WorkoutPlan is the fitness agent's fixed output schema.
type WorkoutPlan struct {
	WorkoutName string   `json:"workout_name"`
	Duration    string   `json:"duration"`
	Intensity   string   `json:"intensity"`
	Steps       []string `json:"steps"`
	Tips        string   `json:"tips"`
}

// MealFeedback is the nutrition agent's fixed output schema.
// EstimatedCalories is carried for forward compatibility and is always nil:
// the agent never estimates calories.
type MealFeedback struct {
	MealLogEntry         string `json:"meal_log_entry"`
	EstimatedCalories    *int   `json:"estimated_calories"`
	NutritionType        string `json:"nutrition_type"`
	SuggestedImprovement string `json:"suggested_improvement"`
}

// MindfulnessReply is the mindfulness agent's fixed output schema.
type MindfulnessReply struct {
	MoodAcknowledgement  string `json:"mood_acknowledgement"`
	JournalPrompt        string `json:"journal_prompt"`
	BreathingOrGrounding string `json:"optional_breathing_or_grounding"`
	SupportiveMessage    string `json:"supportive_message"`
}

// StreakSummary holds per-category consecutive-day streak lengths.
type StreakSummary struct {
	WorkoutStreakDays int `json:"workout_streak_days"`
	MealStreakDays    int `json:"meal_streak_days"`
	MoodStreakDays    int `json:"mood_streak_days"`
}

// ProgressStats holds per-category totals plus streaks.
type ProgressStats struct {
	TotalWorkouts     int           `json:"total_workouts"`
	TotalMealsLogged  int           `json:"total_meals_logged"`
	TotalMoodCheckins int           `json:"total_mood_checkins"`
	Streaks           StreakSummary `json:"streaks"`
}

// ProgressSummary is the analytics agent's output: totals, streaks, the
// badge earned by the best streak, and profile-aware encouragement.
type ProgressSummary struct {
	SummaryRange  string        `json:"summary_range"`
	Stats         ProgressStats `json:"stats"`
	BestStreak    int           `json:"best_streak"`
	Badge         string        `json:"achievement_badge"`
	Encouragement string        `json:"encouragement"`
	NextMicroGoal string        `json:"next_micro_goal"`
}

// Response is what the orchestrator hands back for one user message.
type Response struct {
	Agent          AgentName        `json:"agent"`
	Source         GenerationSource `json:"source,omitempty"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	Data           any              `json:"data,omitempty"`
	Message        string           `json:"message,omitempty"`
}
