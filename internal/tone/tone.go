// Package tone derives personalization directives from a user profile for
// prompt construction: an age-bracket tone directive plus optional
// diet- and goal-based content directives.
package tone

import (
	"fmt"

	"github.com/trackr-ai/trackr/internal/models"
)

// Age bracket boundaries for tone selection. A zero age means unset and
// selects the balanced default.
const (
	YouthAgeLimit  = 20
	SeniorAgeFloor = 45
)

// ---- Tone directives ----

const (
	toneYouth    = "Use a relatable, encouraging tone like a supportive older sibling."
	toneSenior   = "Use a grounded, gentle tone with respect and reassurance."
	toneBalanced = "Use a balanced, calm, supportive tone."
)

// ForAge returns the tone directive for an age bracket.
func ForAge(age int) string {
	switch {
	case age > 0 && age < YouthAgeLimit:
		return toneYouth
	case age > SeniorAgeFloor:
		return toneSenior
	default:
		return toneBalanced
	}
}

// DietContext returns a content directive for a non-default diet
// preference, or "" when the default applies.
func DietContext(p models.Profile) string {
	if p.DietType == "" || p.DietType == models.DefaultDietType {
		return ""
	}
	return fmt.Sprintf("The user prefers a %s style of eating. Keep suggestions aligned with this preference without enforcing rules.", p.DietType)
}

// GoalContext returns a content directive tying encouragement to the user's
// stated goal, or "" when no goal is set.
func GoalContext(p models.Profile) string {
	if p.Goals == "" {
		return ""
	}
	return fmt.Sprintf("Their personal goal is: %q. Offer subtle encouragement connected to this goal without pressure.", p.Goals)
}

// SafetyBoundaries is the fixed content-safety block embedded in every
// agent system prompt: no clinical claims, no diagnosis, no crisis language.
const SafetyBoundaries = `Strict boundaries:
- DO NOT provide medical, clinical, or diagnostic guidance.
- DO NOT mention therapy, diagnosis, trauma, disorders, or crisis language.
- Keep suggestions small, safe, and actionable.
- Be supportive without judgment.`
