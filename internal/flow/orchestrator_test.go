package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/trackr-ai/trackr/internal/models"
	"github.com/trackr-ai/trackr/internal/store"
)

// completeOnboarding puts a user past the onboarding flow so messages reach
// intent routing.
func completeOnboarding(t *testing.T, st store.Store, userID, name string) {
	t.Helper()
	if _, err := st.GetOrCreateUser(userID); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	profile := models.DefaultProfile()
	profile.Name = name
	profile.Age = 30
	if err := st.UpdateProfile(userID, profile); err != nil {
		t.Fatalf("failed to set profile: %v", err)
	}
	status := models.OnboardingStatus{State: models.StateComplete, Complete: true}
	if err := st.SaveOnboarding(userID, status); err != nil {
		t.Fatalf("failed to complete onboarding: %v", err)
	}
}

func TestOrchestratorValidation(t *testing.T) {
	o := NewOrchestrator(store.NewInMemoryStore(), nil)
	ctx := context.Background()

	if _, err := o.Handle(ctx, "", "hello"); !errors.Is(err, models.ErrEmptyUserID) {
		t.Errorf("expected ErrEmptyUserID, got %v", err)
	}
	if _, err := o.Handle(ctx, "u1", "   "); !errors.Is(err, models.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	long := strings.Repeat("a", models.MaxMessageLength+1)
	if _, err := o.Handle(ctx, "u1", long); !errors.Is(err, models.ErrMessageTooLong) {
		t.Errorf("expected ErrMessageTooLong, got %v", err)
	}
}

func TestOrchestratorOnboardingRunsFirst(t *testing.T) {
	st := store.NewInMemoryStore()
	o := NewOrchestrator(st, nil)

	// Even an intent-shaped message is consumed by onboarding.
	resp, err := o.Handle(context.Background(), "u1", "give me a workout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Agent != models.AgentSystem {
		t.Errorf("expected system reply during onboarding, got %q", resp.Agent)
	}
	logs, _ := st.GetLogs("u1", models.LogCategoryWorkouts)
	if len(logs) != 0 {
		t.Error("no agent may run before onboarding completes")
	}
}

func TestOrchestratorDispatch(t *testing.T) {
	st := store.NewInMemoryStore()
	o := NewOrchestrator(st, nil)
	completeOnboarding(t, st, "u1", "Alice")
	ctx := context.Background()

	tests := []struct {
		message string
		agent   models.AgentName
	}{
		{"give me a 15 minute workout", models.AgentFitness},
		{"I ate rice and beans", models.AgentNutrition},
		{"I feel stressed", models.AgentMindfulness},
		{"show my progress", models.AgentAnalytics},
	}
	for _, tt := range tests {
		resp, err := o.Handle(ctx, "u1", tt.message)
		if err != nil {
			t.Fatalf("Handle(%q) failed: %v", tt.message, err)
		}
		if resp.Agent != tt.agent {
			t.Errorf("Handle(%q) routed to %q, want %q", tt.message, resp.Agent, tt.agent)
		}
	}
}

func TestOrchestratorUnknownIntentHelp(t *testing.T) {
	st := store.NewInMemoryStore()
	o := NewOrchestrator(st, nil)
	completeOnboarding(t, st, "u1", "Alice")

	resp, err := o.Handle(context.Background(), "u1", "xyz123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Agent != models.AgentSystem || resp.Message != HelpMessage {
		t.Errorf("expected help message, got %+v", resp)
	}
}

func TestOrchestratorCleansNutritionMessage(t *testing.T) {
	st := store.NewInMemoryStore()
	o := NewOrchestrator(st, nil)
	completeOnboarding(t, st, "u1", "Alice")

	resp, err := o.Handle(context.Background(), "u1", "I ate pasta and veggies")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fb, ok := resp.Data.(models.MealFeedback)
	if !ok {
		t.Fatalf("expected MealFeedback, got %T", resp.Data)
	}
	if fb.MealLogEntry != "pasta and veggies" {
		t.Errorf("expected cleaned meal entry, got %q", fb.MealLogEntry)
	}
}

func TestOrchestratorGreeting(t *testing.T) {
	st := store.NewInMemoryStore()
	o := NewOrchestrator(st, nil)

	greeting, err := o.Greeting("new-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if greeting != PromptFor(models.StateAwaitingName) {
		t.Errorf("expected onboarding prompt for new user, got %q", greeting)
	}

	completeOnboarding(t, st, "u2", "Alice")
	greeting, err = o.Greeting("u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(greeting, "Welcome back") || !strings.Contains(greeting, "Alice") {
		t.Errorf("expected personalized welcome back, got %q", greeting)
	}
}

func TestOrchestratorRegisterOverride(t *testing.T) {
	st := store.NewInMemoryStore()
	o := NewOrchestrator(st, nil)
	completeOnboarding(t, st, "u1", "Alice")

	o.Register(models.IntentFitness, agentFunc(func(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error) {
		return models.Response{Agent: models.AgentSystem, Message: "custom"}, nil
	}))

	resp, err := o.Handle(context.Background(), "u1", "workout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Message != "custom" {
		t.Errorf("expected overridden agent to run, got %+v", resp)
	}
}

// agentFunc adapts a function to the Agent interface.
type agentFunc func(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error)

func (f agentFunc) Handle(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error) {
	return f(ctx, userID, message, rctx)
}
