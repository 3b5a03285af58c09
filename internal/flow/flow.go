// Package flow implements Trackr's conversational pipeline: the domain
// agents (fitness, nutrition, mindfulness, analytics), the onboarding state
// machine, keyword intent classification, and the orchestrator that ties
// them together.
package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trackr-ai/trackr/internal/genai"
	"github.com/trackr-ai/trackr/internal/models"
)

// Agent maps a user message plus profile context to a structured,
// domain-specific response.
//
// Contract: an agent never propagates text-generation or parse failures;
// those are absorbed into a statically safe fallback structure, tagged on
// the response source. The returned error covers storage access only.
// Each invocation appends exactly one log entry to the agent's category and
// performs no other mutation.
type Agent interface {
	Handle(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error)
}

// newLogEntry builds an immutable log entry with a fresh id and the given
// payload document.
func newLogEntry(payload any) (models.LogEntry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("failed to encode log payload: %w", err)
	}
	return models.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// generate invokes the text-generation client and absorbs every failure
// into an empty result, per the fallback contract.
func generate(ctx context.Context, client genai.ClientInterface, agent models.AgentName, systemPrompt, userPrompt string) string {
	if client == nil {
		return ""
	}
	raw, err := client.GeneratePrompt(ctx, systemPrompt, userPrompt)
	if err != nil {
		slog.Warn("Agent generation failed, using fallback", "agent", agent, "error", err)
		return ""
	}
	return raw
}
