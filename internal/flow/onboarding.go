package flow

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/trackr-ai/trackr/internal/models"
	"github.com/trackr-ai/trackr/internal/store"
)

// Onboarding re-prompt and transition messages.
const (
	promptAskName   = "What's your name?"
	promptAskAge    = "Please enter a valid age number."
	promptAskGender = "Choose one: male / female / non-binary / prefer not to say"
)

var digitRun = regexp.MustCompile(`\d+`)

// Onboarding drives the mandatory sequential profile-completion flow:
// awaiting_name -> awaiting_age -> awaiting_gender -> complete. One message
// per call; invalid input re-prompts without advancing. State persists with
// the user record, so the machine is resumable. Complete is terminal.
type Onboarding struct {
	store store.Store
}

// NewOnboarding creates the onboarding state machine over the given store.
func NewOnboarding(st store.Store) *Onboarding {
	return &Onboarding{store: st}
}

// Process consumes one message. When onboarding is still in progress it
// returns the next prompt and handled=true; once the flow is complete it
// returns handled=false and the message falls through to intent routing.
func (o *Onboarding) Process(userID, message string) (reply string, handled bool, err error) {
	user, err := o.store.GetOrCreateUser(userID)
	if err != nil {
		return "", false, fmt.Errorf("onboarding failed to load user: %w", err)
	}
	if user.Onboarding.Complete {
		return "", false, nil
	}

	switch user.Onboarding.State {
	case models.StateAwaitingName:
		name := titleCase(strings.TrimSpace(message))
		if name == "" {
			return promptAskName, true, nil
		}
		user.Profile.Name = name
		if err := o.advance(user, models.StateAwaitingAge); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("Nice to meet you, %s! How old are you?", name), true, nil

	case models.StateAwaitingAge:
		run := digitRun.FindString(message)
		if run == "" {
			return promptAskAge, true, nil
		}
		age, convErr := strconv.Atoi(run)
		if convErr != nil || age <= 0 || age > models.MaxAge {
			return promptAskAge, true, nil
		}
		user.Profile.Age = age
		if err := o.advance(user, models.StateAwaitingGender); err != nil {
			return "", false, err
		}
		return "Thanks! What gender do you identify with? (male / female / non-binary / prefer not to say)", true, nil

	case models.StateAwaitingGender:
		gender, ok := models.ParseGender(message)
		if !ok {
			return promptAskGender, true, nil
		}
		user.Profile.Gender = gender
		user.Onboarding.Complete = true
		if err := o.advance(user, models.StateComplete); err != nil {
			return "", false, err
		}
		slog.Info("Onboarding complete", "user_id", userID)
		return fmt.Sprintf(
			"Great! You're all set, %s.\nYou can now log meals, request workouts, or check in with your mood.",
			user.Profile.Name), true, nil

	default:
		// Unknown persisted state: treat as complete rather than trapping
		// the user.
		slog.Warn("Onboarding found unknown state, marking complete", "user_id", userID, "state", user.Onboarding.State)
		user.Onboarding.Complete = true
		if err := o.advance(user, models.StateComplete); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
}

// PromptFor returns the question to ask for a given onboarding state, so
// the surface can greet a user whose onboarding is still in progress.
func PromptFor(state models.OnboardingState) string {
	switch state {
	case models.StateAwaitingAge:
		return "How old are you?"
	case models.StateAwaitingGender:
		return "What gender do you identify with? (male / female / non-binary / prefer not to say)"
	default:
		return promptAskName
	}
}

// advance persists the updated profile and the new onboarding state.
func (o *Onboarding) advance(user *models.UserRecord, next models.OnboardingState) error {
	if err := o.store.UpdateProfile(user.ID, user.Profile); err != nil {
		return fmt.Errorf("onboarding failed to save profile: %w", err)
	}
	user.Onboarding.State = next
	if err := o.store.SaveOnboarding(user.ID, user.Onboarding); err != nil {
		return fmt.Errorf("onboarding failed to save state: %w", err)
	}
	return nil
}

// titleCase upper-cases the first rune of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
