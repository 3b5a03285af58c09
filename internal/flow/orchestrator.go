package flow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/trackr-ai/trackr/internal/genai"
	"github.com/trackr-ai/trackr/internal/models"
	"github.com/trackr-ai/trackr/internal/store"
)

// HelpMessage is shown when no intent keyword matches.
const HelpMessage = `I'm not sure what you meant. Try:
- "Give me a 20 min workout"
- "I ate pasta and veggies"
- "I feel stressed"
- "Show my progress summary"`

// Orchestrator owns the per-message pipeline: onboarding check, intent
// classification, and dispatch to the matching agent.
type Orchestrator struct {
	store      store.Store
	onboarding *Onboarding
	agents     map[models.Intent]Agent
}

// NewOrchestrator wires the onboarding machine and the four domain agents
// over the given store and text-generation client. A nil client is allowed:
// every LLM-backed agent then serves its fallback structure.
func NewOrchestrator(st store.Store, client genai.ClientInterface) *Orchestrator {
	o := &Orchestrator{
		store:      st,
		onboarding: NewOnboarding(st),
		agents:     make(map[models.Intent]Agent),
	}
	o.Register(models.IntentFitness, NewFitnessAgent(st, client))
	o.Register(models.IntentNutrition, NewNutritionAgent(st, client))
	o.Register(models.IntentMindfulness, NewMindfulnessAgent(st, client))
	o.Register(models.IntentAnalytics, NewAnalyticsAgent(st))
	return o
}

// Register associates an intent with an agent implementation.
func (o *Orchestrator) Register(intent models.Intent, agent Agent) {
	o.agents[intent] = agent
}

// Greeting returns the opening line for a session: the pending onboarding
// question for new or interrupted users, a welcome-back otherwise.
func (o *Orchestrator) Greeting(userID string) (string, error) {
	user, err := o.store.GetOrCreateUser(userID)
	if err != nil {
		return "", err
	}
	if !user.Onboarding.Complete {
		return PromptFor(user.Onboarding.State), nil
	}
	return "Welcome back, " + user.Profile.DisplayName() + "!", nil
}

// Handle runs one message through the pipeline and returns the response to
// render.
func (o *Orchestrator) Handle(ctx context.Context, userID, message string) (models.Response, error) {
	if userID == "" {
		return models.Response{}, models.ErrEmptyUserID
	}
	if strings.TrimSpace(message) == "" {
		return models.Response{}, models.ErrEmptyMessage
	}
	if len(message) > models.MaxMessageLength {
		return models.Response{}, models.ErrMessageTooLong
	}

	// Onboarding runs to completion before any intent routing.
	reply, handled, err := o.onboarding.Process(userID, message)
	if err != nil {
		return models.Response{}, err
	}
	if handled {
		return models.Response{Agent: models.AgentSystem, Message: reply}, nil
	}

	intent := DetectIntent(message)
	slog.Debug("Orchestrator classified message", "user_id", userID, "intent", intent)

	agent, ok := o.agents[intent]
	if !ok {
		return models.Response{Agent: models.AgentSystem, Message: HelpMessage}, nil
	}

	rctx := BuildRequestContext(intent, message)
	if intent == models.IntentNutrition && rctx.MealDescription != "" {
		// The nutrition agent receives the cleaned meal description as the
		// message, mirroring what gets logged.
		message = rctx.MealDescription
	}
	return agent.Handle(ctx, userID, message, rctx)
}
