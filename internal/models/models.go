// Package models defines the core data structures for Trackr.
//
// It includes the user record, activity log entries, and the structured
// results produced by the domain agents, which are shared across modules.
package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// LogCategory identifies one of the append-only activity log streams kept
// per user.
type LogCategory string

const (
	// LogCategoryWorkouts stores workout plans produced by the fitness agent.
	LogCategoryWorkouts LogCategory = "workouts"
	// LogCategoryMeals stores meal entries produced by the nutrition agent.
	LogCategoryMeals LogCategory = "meals"
	// LogCategoryMood stores mood check-ins produced by the mindfulness agent.
	LogCategoryMood LogCategory = "mood"
	// LogCategoryJournal stores free-form journal entries.
	LogCategoryJournal LogCategory = "journal"
)

// AllLogCategories lists every category a fresh user record starts with.
var AllLogCategories = []LogCategory{
	LogCategoryWorkouts,
	LogCategoryMeals,
	LogCategoryMood,
	LogCategoryJournal,
}

// IsValidLogCategory checks if the given category is one of the known streams.
func IsValidLogCategory(c LogCategory) bool {
	switch c {
	case LogCategoryWorkouts, LogCategoryMeals, LogCategoryMood, LogCategoryJournal:
		return true
	default:
		return false
	}
}

// Validation constants for user input and profile fields.
const (
	// MaxMessageLength defines the maximum accepted length for one user message.
	MaxMessageLength = 4096
	// MaxAge is the upper bound accepted during onboarding.
	MaxAge = 120
)

// Error variables for better error handling and testability.
var (
	ErrEmptyUserID        = errors.New("user id cannot be empty")
	ErrEmptyMessage       = errors.New("message cannot be empty")
	ErrMessageTooLong     = errors.New("message exceeds maximum length")
	ErrInvalidLogCategory = errors.New("invalid log category")
	ErrNegativeAge        = errors.New("age cannot be negative")
	ErrUserNotFound       = errors.New("user not found")
)

// Gender is the fixed enumerated set accepted during onboarding. The empty
// string means unset.
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderNonBinary   Gender = "non-binary"
	GenderUnspecified Gender = "prefer not to say"
)

// ParseGender matches a case-folded, trimmed token against the accepted set.
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderNonBinary:
		return GenderNonBinary, true
	case GenderUnspecified:
		return GenderUnspecified, true
	default:
		return "", false
	}
}

// Default profile field values applied when a record is first created.
const (
	DefaultFitnessLevel = "beginner"
	DefaultDietType     = "general"
	// DefaultDisplayName is substituted wherever a name is needed but unset.
	DefaultDisplayName = "friend"
)

// Profile holds the user-supplied personalization fields. Zero values mean
// unset for Name, Age and Gender.
type Profile struct {
	Name         string   `json:"name,omitempty"`
	Age          int      `json:"age,omitempty"`
	Gender       Gender   `json:"gender,omitempty"`
	FitnessLevel string   `json:"fitness_level"`
	DietType     string   `json:"diet_type"`
	Equipment    []string `json:"equipment"`
	Goals        string   `json:"goals,omitempty"`
}

// DefaultProfile returns the profile shape every new record starts with.
// Defined once here so callers never re-derive it (auto-create contract).
func DefaultProfile() Profile {
	return Profile{
		FitnessLevel: DefaultFitnessLevel,
		DietType:     DefaultDietType,
		Equipment:    []string{},
	}
}

// DisplayName returns the profile name or the generic placeholder.
func (p Profile) DisplayName() string {
	if p.Name == "" {
		return DefaultDisplayName
	}
	return p.Name
}

// Validate performs basic sanity checks on a profile before it is persisted.
func (p *Profile) Validate() error {
	if p.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}

// OnboardingState enumerates the sequential profile-completion steps.
type OnboardingState string

const (
	StateAwaitingName   OnboardingState = "awaiting_name"
	StateAwaitingAge    OnboardingState = "awaiting_age"
	StateAwaitingGender OnboardingState = "awaiting_gender"
	StateComplete       OnboardingState = "complete"
)

// OnboardingStatus tracks where a user is in the onboarding flow. It is
// persisted with the user record so the machine is resumable.
type OnboardingStatus struct {
	State    OnboardingState `json:"state"`
	Complete bool            `json:"complete"`
}

// NewOnboardingStatus returns the initial status for a fresh record.
func NewOnboardingStatus() OnboardingStatus {
	return OnboardingStatus{State: StateAwaitingName}
}

// LogEntry is one immutable record in a per-category activity log. Payload
// holds the category-specific document as JSON.
type LogEntry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// UserRecord is the unit of persistence: one document per user, keyed by an
// external identifier (email or user id).
type UserRecord struct {
	ID         string                     `json:"id"`
	Profile    Profile                    `json:"profile"`
	Logs       map[LogCategory][]LogEntry `json:"logs"`
	Onboarding OnboardingStatus           `json:"onboarding"`
	CreatedAt  time.Time                  `json:"created_at"`
}
