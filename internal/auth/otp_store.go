// Package auth implements Trackr's one-time-passcode login flow: code
// generation, delivery through a messaging sender, and single-use
// verification with expiry.
package auth

import (
	"sync"
	"time"
)

// OTPRecord is one pending passcode: the code and its expiry instant.
type OTPRecord struct {
	Code      string
	ExpiresAt time.Time
}

// OTPStore is an explicit keyed store for short-lived, single-use
// credentials, keyed by recipient address. It is owned by the auth service
// and passed in explicitly; there is no package-level instance.
type OTPStore struct {
	mu      sync.Mutex
	records map[string]OTPRecord
	now     func() time.Time
}

// NewOTPStore creates an empty OTP store.
func NewOTPStore() *OTPStore {
	return &OTPStore{
		records: make(map[string]OTPRecord),
		now:     time.Now,
	}
}

// Put inserts or replaces the pending code for a recipient.
func (s *OTPStore) Put(recipient, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recipient] = OTPRecord{Code: code, ExpiresAt: s.now().Add(ttl)}
}

// Consume checks an attempt against the pending code. The record is
// removed on every terminal outcome: expiry, a correct code, and a wrong
// code all invalidate it, so a code can be tried exactly once.
func (s *OTPStore) Consume(recipient, attempt string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recipient]
	if !ok {
		return false
	}
	delete(s.records, recipient)

	if s.now().After(rec.ExpiresAt) {
		return false
	}
	return attempt == rec.Code
}
