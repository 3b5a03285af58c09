// Package messaging provides pluggable delivery of one-time passcodes.
//
// Senders exist for SMTP email, Twilio SMS, and a console fallback used in
// development when no transport is configured.
package messaging

import (
	"context"
	"errors"
)

// ErrEmptyRecipient is returned when a recipient identifier is blank.
var ErrEmptyRecipient = errors.New("recipient cannot be empty")

// Sender defines a pluggable passcode delivery abstraction.
type Sender interface {
	// ValidateRecipient validates and canonicalizes a recipient identifier.
	// Each sender implements its own rules (email shape, phone shape).
	ValidateRecipient(recipient string) (string, error)

	// Send delivers a message to a recipient.
	Send(ctx context.Context, to, subject, body string) error
}
