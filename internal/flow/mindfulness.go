package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trackr-ai/trackr/internal/genai"
	"github.com/trackr-ai/trackr/internal/models"
	"github.com/trackr-ai/trackr/internal/store"
	"github.com/trackr-ai/trackr/internal/tone"
)

const mindfulnessSystemPrompt = `You are the Mindfulness & Emotional Support Agent for Trackr.

%s
%s

Rules:
- Respond with empathy, validation, and warmth.
- Keep suggestions small and actionable (breathing, awareness, journaling).

%s

Respond ONLY as valid JSON with keys:
{
  "mood_acknowledgement": "",
  "journal_prompt": "",
  "optional_breathing_or_grounding": "",
  "supportive_message": ""
}`

const mindfulnessUserPrompt = `User name: %s
Mood label: %s
User message: %q`

// moodCheckin is the payload written to the mood log: the structured reply
// plus the raw mood label and note.
type moodCheckin struct {
	Mood  models.MoodLevel        `json:"mood"`
	Note  string                  `json:"note"`
	Reply models.MindfulnessReply `json:"reply"`
}

// MindfulnessAgent provides emotionally safe support and reflection,
// logging each mood check-in.
type MindfulnessAgent struct {
	store store.Store
	genai genai.ClientInterface
}

// NewMindfulnessAgent creates a mindfulness agent.
func NewMindfulnessAgent(st store.Store, client genai.ClientInterface) *MindfulnessAgent {
	return &MindfulnessAgent{store: st, genai: client}
}

// Handle produces a mindfulness reply and appends one mood log entry
// carrying the raw mood label and note alongside the reply.
func (a *MindfulnessAgent) Handle(ctx context.Context, userID, message string, rctx models.RequestContext) (models.Response, error) {
	user, err := a.store.GetOrCreateUser(userID)
	if err != nil {
		return models.Response{}, fmt.Errorf("mindfulness agent failed to load user: %w", err)
	}
	profile := user.Profile

	mood := rctx.Mood
	if mood == "" {
		mood = models.MoodNeutral
	}
	note := rctx.Note
	if note == "" {
		note = message
	}

	systemPrompt := fmt.Sprintf(mindfulnessSystemPrompt,
		tone.ForAge(profile.Age), tone.GoalContext(profile), tone.SafetyBoundaries)
	userPrompt := fmt.Sprintf(mindfulnessUserPrompt, profile.DisplayName(), mood, note)

	raw := generate(ctx, a.genai, models.AgentMindfulness, systemPrompt, userPrompt)

	source := models.SourceModel
	reason := ""
	reply, parseErr := parseMindfulnessReply(raw)
	if parseErr != nil {
		source = models.SourceFallback
		reason = parseErr.Error()
		reply = fallbackMindfulnessReply(profile, mood)
		slog.Debug("MindfulnessAgent using fallback reply", "user_id", userID, "reason", reason)
	}

	entry, err := newLogEntry(moodCheckin{Mood: mood, Note: note, Reply: reply})
	if err != nil {
		return models.Response{}, err
	}
	if err := a.store.AppendLog(userID, models.LogCategoryMood, entry); err != nil {
		return models.Response{}, fmt.Errorf("mindfulness agent failed to append log: %w", err)
	}

	return models.Response{
		Agent:          models.AgentMindfulness,
		Source:         source,
		FallbackReason: reason,
		Data:           reply,
	}, nil
}

// fallbackMindfulnessReply is the statically known safe response
// substituted when generation fails.
func fallbackMindfulnessReply(profile models.Profile, mood models.MoodLevel) models.MindfulnessReply {
	return models.MindfulnessReply{
		MoodAcknowledgement: fmt.Sprintf(
			"Thank you for sharing how you're feeling, %s. Feeling %s is completely valid.",
			profile.DisplayName(), mood),
		JournalPrompt:        "If you feel okay, write one sentence about what's weighing on your mind or what brought you peace today.",
		BreathingOrGrounding: "Try a gentle grounding pause: inhale slowly for 4 seconds, hold for 2, then exhale for 6.",
		SupportiveMessage:    "You're doing something meaningful: you're acknowledging your emotions instead of bottling them. Growth often begins with awareness, and you're already there.",
	}
}
