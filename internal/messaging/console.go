package messaging

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsoleSender writes messages to a writer instead of delivering them.
// Used in development when no email or SMS transport is configured, so the
// login code is still reachable.
type ConsoleSender struct {
	out io.Writer
}

// NewConsoleSender creates a console sender writing to out.
func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{out: out}
}

// ValidateRecipient only rejects blank recipients; any identifier works on
// a console.
func (s *ConsoleSender) ValidateRecipient(recipient string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(recipient))
	if canonical == "" {
		return "", ErrEmptyRecipient
	}
	return canonical, nil
}

// Send prints the message.
func (s *ConsoleSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.out, "[debug delivery] to=%s subject=%q\n%s\n", to, subject, body)
	return err
}
