package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/trackr-ai/trackr/internal/auth"
	"github.com/trackr-ai/trackr/internal/flow"
	"github.com/trackr-ai/trackr/internal/messaging"
	"github.com/trackr-ai/trackr/internal/store"
)

// runSession drives a full guest CLI session over scripted input lines and
// returns everything written to the output.
func runSession(t *testing.T, lines ...string) string {
	t.Helper()
	st := store.NewInMemoryStore()
	orch := flow.NewOrchestrator(st, nil)

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	cli := New(orch, nil, in, &out)
	if err := cli.Run(context.Background()); err != nil {
		t.Fatalf("session failed: %v", err)
	}
	return out.String()
}

func TestRunGuestSessionOnboardsAndQuits(t *testing.T) {
	out := runSession(t,
		"Alice",
		"30",
		"female",
		"exit",
	)
	if !strings.Contains(out, welcomeBanner) {
		t.Error("expected welcome banner")
	}
	if !strings.Contains(out, "What's your name?") {
		t.Error("expected onboarding to start")
	}
	if !strings.Contains(out, "Nice to meet you, Alice!") {
		t.Errorf("expected name acknowledgement, got:\n%s", out)
	}
	if !strings.Contains(out, "all set") {
		t.Errorf("expected onboarding completion, got:\n%s", out)
	}
	if !strings.Contains(out, farewell) {
		t.Error("expected farewell on exit")
	}
}

func TestRunRoutesMessagesAfterOnboarding(t *testing.T) {
	out := runSession(t,
		"Bob", "25", "male",
		"give me a 10 minute workout",
		"I ate pasta",
		"show my progress",
		"quit",
	)
	if !strings.Contains(out, "Workout Plan Ready") {
		t.Errorf("expected rendered workout plan, got:\n%s", out)
	}
	if !strings.Contains(out, "Nutrition Log Recorded") {
		t.Errorf("expected rendered meal feedback, got:\n%s", out)
	}
	if !strings.Contains(out, "Progress Overview") {
		t.Errorf("expected rendered progress summary, got:\n%s", out)
	}
	if !strings.Contains(out, "Workouts: 1") || !strings.Contains(out, "Meals: 1") {
		t.Errorf("expected totals to reflect the session, got:\n%s", out)
	}
}

func TestRunUnknownMessageShowsHelp(t *testing.T) {
	out := runSession(t,
		"Cara", "40", "female",
		"xyz123",
		"exit",
	)
	if !strings.Contains(out, "I'm not sure what you meant") {
		t.Errorf("expected help message, got:\n%s", out)
	}
}

func TestRunSkipsEmptyLines(t *testing.T) {
	out := runSession(t,
		"Dana", "33", "female",
		"",
		"   ",
		"exit",
	)
	if !strings.Contains(out, farewell) {
		t.Error("expected clean exit after blank lines")
	}
}

func TestRunEndOfInputExitsCleanly(t *testing.T) {
	st := store.NewInMemoryStore()
	orch := flow.NewOrchestrator(st, nil)
	var out bytes.Buffer
	cli := New(orch, nil, strings.NewReader(""), &out)

	if err := cli.Run(context.Background()); err != nil {
		t.Fatalf("expected nil on end of input, got %v", err)
	}
	if !strings.Contains(out.String(), farewell) {
		t.Error("expected farewell on end of input")
	}
}

func TestLoginBlankAddressFallsBackToGuest(t *testing.T) {
	st := store.NewInMemoryStore()
	orch := flow.NewOrchestrator(st, nil)
	authSvc := auth.NewService(auth.NewOTPStore(), messaging.NewConsoleSender(&bytes.Buffer{}))

	var out bytes.Buffer
	cli := New(orch, authSvc, strings.NewReader("\nexit\n"), &out)
	if err := cli.Run(context.Background()); err != nil {
		t.Fatalf("session failed: %v", err)
	}
	if !strings.Contains(out.String(), "What's your name?") {
		t.Errorf("expected guest session to proceed to onboarding, got:\n%s", out.String())
	}
}

func TestLoginWithConsoleDeliveredCode(t *testing.T) {
	st := store.NewInMemoryStore()
	orch := flow.NewOrchestrator(st, nil)

	// Codes are delivered into the same output buffer, so this test reads
	// the code the way a developer running locally would.
	var out bytes.Buffer
	authSvc := auth.NewService(auth.NewOTPStore(), messaging.NewConsoleSender(&out))

	// First pass: capture the code issued for this address.
	in := strings.NewReader("me@example.com\n000000\n\nexit\n")
	cli := New(orch, authSvc, in, &out)
	if err := cli.Run(context.Background()); err != nil {
		t.Fatalf("session failed: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "[debug delivery] to=me@example.com") {
		t.Fatalf("expected console-delivered code, got:\n%s", s)
	}
	if !strings.Contains(s, "That code didn't work") {
		t.Errorf("expected wrong-code message, got:\n%s", s)
	}
}

func TestIsQuit(t *testing.T) {
	for _, line := range []string{"exit", "quit", "EXIT", "Quit"} {
		if !isQuit(line) {
			t.Errorf("expected %q to quit", line)
		}
	}
	for _, line := range []string{"", "exit now", "hello"} {
		if isQuit(line) {
			t.Errorf("expected %q not to quit", line)
		}
	}
}
