package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPStoreConsumeLifecycle(t *testing.T) {
	s := NewOTPStore()
	s.Put("a@example.com", "123456", time.Minute)

	assert.False(t, s.Consume("a@example.com", "999999"), "wrong code")
	assert.False(t, s.Consume("a@example.com", "123456"), "record consumed by wrong attempt")

	s.Put("a@example.com", "654321", time.Minute)
	assert.True(t, s.Consume("a@example.com", "654321"))
	assert.False(t, s.Consume("a@example.com", "654321"), "single use")
}

func TestOTPStoreExpiry(t *testing.T) {
	s := NewOTPStore()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	s.Put("a@example.com", "123456", 5*time.Minute)

	s.now = func() time.Time { return base.Add(5*time.Minute + time.Second) }
	assert.False(t, s.Consume("a@example.com", "123456"), "expired code is rejected")
}

func TestOTPStoreMissingRecipient(t *testing.T) {
	s := NewOTPStore()
	assert.False(t, s.Consume("ghost@example.com", "123456"))
}

func TestOTPStorePutReplaces(t *testing.T) {
	s := NewOTPStore()
	s.Put("a@example.com", "111111", time.Minute)
	s.Put("a@example.com", "222222", time.Minute)

	assert.False(t, s.Consume("a@example.com", "111111"))
	s.Put("a@example.com", "333333", time.Minute)
	assert.True(t, s.Consume("a@example.com", "333333"))
}
