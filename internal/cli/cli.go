// Package cli implements Trackr's line-based request/response surface:
// an optional OTP login step followed by a chat loop that routes each line
// through the orchestrator.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/trackr-ai/trackr/internal/auth"
	"github.com/trackr-ai/trackr/internal/flow"
	"github.com/trackr-ai/trackr/internal/util"
)

// MaxLoginAttempts bounds how many codes are issued before the session
// falls back to a local guest identity.
const MaxLoginAttempts = 3

const welcomeBanner = "Welcome to Trackr - your wellbeing companion."
const farewell = "Bye! Small steps build big change."

// CLI is the interactive loop. Reserved commands are exit and quit; every
// other line is a free-text message.
type CLI struct {
	orch    *flow.Orchestrator
	auth    *auth.Service
	scanner *bufio.Scanner
	out     io.Writer
}

// New creates a CLI over the given orchestrator. The auth service may be
// nil, in which case every session is a local guest session.
func New(orch *flow.Orchestrator, authSvc *auth.Service, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		orch:    orch,
		auth:    authSvc,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Run drives the session until exit/quit or end of input. Returns nil on
// normal termination.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprintf(c.out, "\n%s\n\n", welcomeBanner)

	userID, ok := c.login(ctx)
	if !ok {
		fmt.Fprintf(c.out, "\n%s\n", farewell)
		return nil
	}
	slog.Info("Session started", "user_id", userID)

	greeting, err := c.orch.Greeting(userID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	fmt.Fprintf(c.out, "%s\n", greeting)

	for {
		line, ok := c.prompt("You: ")
		if !ok || isQuit(line) {
			fmt.Fprintf(c.out, "\n%s\n", farewell)
			return nil
		}
		if line == "" {
			continue
		}

		resp, err := c.orch.Handle(ctx, userID, line)
		if err != nil {
			slog.Error("Message handling failed", "error", err, "user_id", userID)
			fmt.Fprintf(c.out, "Something went wrong, please try again.\n")
			continue
		}
		Render(c.out, resp)
	}
}

// login runs the OTP flow. Returns the session user id and whether the
// session should proceed; a blank address skips login and yields a local
// guest identity.
func (c *CLI) login(ctx context.Context) (string, bool) {
	if c.auth == nil {
		return guestID(), true
	}

	for attempt := 0; attempt < MaxLoginAttempts; attempt++ {
		address, ok := c.prompt("Email for login (leave blank to stay local): ")
		if !ok || isQuit(address) {
			return "", false
		}
		if address == "" {
			return guestID(), true
		}

		if err := c.auth.StartLogin(ctx, address); err != nil {
			slog.Warn("Login start failed", "error", err)
			fmt.Fprintf(c.out, "Could not send a login code: %v\n", err)
			continue
		}

		code, ok := c.prompt("Enter the 6-digit code: ")
		if !ok || isQuit(code) {
			return "", false
		}
		if c.auth.Verify(address, code) {
			fmt.Fprintf(c.out, "You're logged in.\n\n")
			return strings.ToLower(strings.TrimSpace(address)), true
		}
		// Codes are single-use: a wrong or expired attempt invalidates the
		// pending record, so the next round issues a fresh one.
		fmt.Fprintf(c.out, "That code didn't work or has expired. Let's try again.\n")
	}

	fmt.Fprintf(c.out, "Continuing as a local guest.\n\n")
	return guestID(), true
}

// prompt prints a prompt and reads one trimmed line. ok=false means end of
// input.
func (c *CLI) prompt(label string) (line string, ok bool) {
	fmt.Fprint(c.out, label)
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}

func guestID() string {
	return util.GenerateRandomID("guest_", 8)
}
