package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trackr-ai/trackr/internal/messaging"
	"github.com/trackr-ai/trackr/internal/util"
)

// OTP parameters.
const (
	// CodeLength is the number of digits in a passcode.
	CodeLength = 6
	// DefaultCodeTTL is how long a passcode stays valid.
	DefaultCodeTTL = 5 * time.Minute
)

const otpSubject = "Your Trackr Login Code"

// Opts holds configuration options for the auth service.
type Opts struct {
	CodeTTL time.Duration
}

// Option defines a configuration option for the auth service.
type Option func(*Opts)

// WithCodeTTL overrides the passcode validity window.
func WithCodeTTL(ttl time.Duration) Option {
	return func(o *Opts) { o.CodeTTL = ttl }
}

// Service drives the OTP login flow over an explicit store and a pluggable
// delivery sender.
type Service struct {
	otps    *OTPStore
	sender  messaging.Sender
	codeTTL time.Duration
}

// NewService creates an auth service. The OTP store is injected rather
// than ambient so its lifecycle is owned by the caller.
func NewService(otps *OTPStore, sender messaging.Sender, opts ...Option) *Service {
	cfg := Opts{CodeTTL: DefaultCodeTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{otps: otps, sender: sender, codeTTL: cfg.CodeTTL}
}

// StartLogin generates a passcode for the recipient, stores it, and sends
// it through the configured sender.
func (s *Service) StartLogin(ctx context.Context, recipient string) error {
	canonical, err := s.sender.ValidateRecipient(recipient)
	if err != nil {
		return fmt.Errorf("invalid login recipient: %w", err)
	}

	code := util.GenerateNumericCode(CodeLength)
	s.otps.Put(canonical, code, s.codeTTL)

	body := fmt.Sprintf("Your login code is: %s\n\nIt expires in %d minutes.\n- Trackr", code, int(s.codeTTL.Minutes()))
	if err := s.sender.Send(ctx, canonical, otpSubject, body); err != nil {
		slog.Error("Failed to send OTP", "error", err, "recipient", canonical)
		return fmt.Errorf("failed to send login code: %w", err)
	}
	slog.Info("OTP sent", "recipient", canonical)
	return nil
}

// Verify checks an attempt. Returns true exactly once per issued code:
// expiry, a wrong attempt, and a successful attempt all invalidate the
// pending record.
func (s *Service) Verify(recipient, attempt string) bool {
	canonical, err := s.sender.ValidateRecipient(recipient)
	if err != nil {
		return false
	}
	ok := s.otps.Consume(canonical, attempt)
	slog.Debug("OTP verification attempt", "recipient", canonical, "ok", ok)
	return ok
}
