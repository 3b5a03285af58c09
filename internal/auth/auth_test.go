package auth

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingSender records sent messages and canonicalizes recipients by
// lower-casing, mirroring the email sender.
type capturingSender struct {
	lastTo   string
	lastBody string
	sent     int
	failSend bool
}

func (s *capturingSender) ValidateRecipient(recipient string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(recipient))
	if canonical == "" {
		return "", assert.AnError
	}
	return canonical, nil
}

func (s *capturingSender) Send(ctx context.Context, to, subject, body string) error {
	if s.failSend {
		return assert.AnError
	}
	s.sent++
	s.lastTo = to
	s.lastBody = body
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func sentCode(t *testing.T, sender *capturingSender) string {
	t.Helper()
	m := codePattern.FindStringSubmatch(sender.lastBody)
	require.NotNil(t, m, "expected a 6-digit code in the message body: %q", sender.lastBody)
	return m[1]
}

func TestStartLoginSendsSixDigitCode(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(NewOTPStore(), sender)

	err := svc.StartLogin(context.Background(), "User@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", sender.lastTo, "recipient should be canonicalized")
	assert.Len(t, sentCode(t, sender), CodeLength)
}

func TestVerifyCorrectCodeOnce(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(NewOTPStore(), sender)

	require.NoError(t, svc.StartLogin(context.Background(), "user@example.com"))
	code := sentCode(t, sender)

	assert.True(t, svc.Verify("user@example.com", code))
	assert.False(t, svc.Verify("user@example.com", code), "codes are single-use")
}

func TestVerifyWrongCodeInvalidatesRecord(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(NewOTPStore(), sender)

	require.NoError(t, svc.StartLogin(context.Background(), "user@example.com"))
	code := sentCode(t, sender)

	assert.False(t, svc.Verify("user@example.com", "000000"))
	// The wrong attempt consumed the record: even the right code fails now.
	assert.False(t, svc.Verify("user@example.com", code))
}

func TestVerifyExpiredCode(t *testing.T) {
	sender := &capturingSender{}
	otps := NewOTPStore()
	svc := NewService(otps, sender, WithCodeTTL(5*time.Minute))

	require.NoError(t, svc.StartLogin(context.Background(), "user@example.com"))
	code := sentCode(t, sender)

	// Jump the store's clock past the expiry instant.
	otps.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	assert.False(t, svc.Verify("user@example.com", code), "expired code must be rejected even when correct")
}

func TestVerifyCanonicalizesRecipient(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(NewOTPStore(), sender)

	require.NoError(t, svc.StartLogin(context.Background(), "User@Example.com"))
	code := sentCode(t, sender)
	assert.True(t, svc.Verify("  USER@example.COM ", code))
}

func TestVerifyUnknownRecipient(t *testing.T) {
	svc := NewService(NewOTPStore(), &capturingSender{})
	assert.False(t, svc.Verify("nobody@example.com", "123456"))
}

func TestStartLoginNewCodeReplacesOld(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(NewOTPStore(), sender)
	ctx := context.Background()

	require.NoError(t, svc.StartLogin(ctx, "user@example.com"))
	first := sentCode(t, sender)
	require.NoError(t, svc.StartLogin(ctx, "user@example.com"))
	second := sentCode(t, sender)

	if first != second {
		assert.False(t, svc.Verify("user@example.com", first), "replaced code must be dead")
		// Verify consumed the record even though the attempt failed, so
		// the second code is gone too. Issue once, verify once.
		assert.False(t, svc.Verify("user@example.com", second))
	}
}

func TestStartLoginSendFailure(t *testing.T) {
	sender := &capturingSender{failSend: true}
	svc := NewService(NewOTPStore(), sender)

	err := svc.StartLogin(context.Background(), "user@example.com")
	assert.Error(t, err)
}

func TestStartLoginInvalidRecipient(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(NewOTPStore(), sender)

	err := svc.StartLogin(context.Background(), "   ")
	assert.Error(t, err)
	assert.Zero(t, sender.sent, "nothing should be sent for an invalid recipient")
}
