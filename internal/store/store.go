// Package store provides storage backends for Trackr user records.
//
// A user record is one document: profile fields, onboarding status, and a
// set of append-only activity logs. Backends exist for SQLite, PostgreSQL,
// and in-memory use (tests, ephemeral runs). Records are auto-created on
// first access with the default shape from the models package.
package store

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/trackr-ai/trackr/internal/models"
)

// Opts holds configuration options for store backends.
type Opts struct {
	// DSN is the database connection string: a file path for SQLite, a
	// postgres:// URL or key=value string for PostgreSQL.
	DSN string
}

// Option defines a configuration option for store construction.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// Store defines the user record persistence operations consumed by the
// orchestrator and agents.
type Store interface {
	// GetOrCreateUser returns the record for userID, creating it with the
	// default shape if it does not exist yet.
	GetOrCreateUser(userID string) (*models.UserRecord, error)

	// UpdateProfile replaces the stored profile wholesale.
	UpdateProfile(userID string, profile models.Profile) error

	// SaveOnboarding persists the onboarding status.
	SaveOnboarding(userID string, status models.OnboardingStatus) error

	// AppendLog appends exactly one entry to the given category. Entries
	// are immutable once written.
	AppendLog(userID string, category models.LogCategory, entry models.LogEntry) error

	// GetLogs returns the entries of one category in insertion order.
	GetLogs(userID string, category models.LogCategory) ([]models.LogEntry, error)

	// Close releases any underlying resources.
	Close() error
}

// NewStore selects a backend from the DSN shape: PostgreSQL for
// postgres:// URLs and key=value connection strings, SQLite for plain file
// paths.
func NewStore(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") || strings.Contains(cfg.DSN, "host=") {
		slog.Debug("NewStore selecting Postgres backend")
		return NewPostgresStore(opts...)
	}
	slog.Debug("NewStore selecting SQLite backend")
	return NewSQLiteStore(opts...)
}

// InMemoryStore is a mutex-guarded map-backed store.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.UserRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]*models.UserRecord)}
}

func (s *InMemoryStore) GetOrCreateUser(userID string) (*models.UserRecord, error) {
	if userID == "" {
		return nil, models.ErrEmptyUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		rec = newDefaultRecord(userID)
		s.users[userID] = rec
		slog.Debug("InMemoryStore created user record", "user_id", userID)
	}
	return cloneRecord(rec), nil
}

func (s *InMemoryStore) UpdateProfile(userID string, profile models.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensureLocked(userID)
	rec.Profile = profile
	return nil
}

func (s *InMemoryStore) SaveOnboarding(userID string, status models.OnboardingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensureLocked(userID)
	rec.Onboarding = status
	return nil
}

func (s *InMemoryStore) AppendLog(userID string, category models.LogCategory, entry models.LogEntry) error {
	if !models.IsValidLogCategory(category) {
		return models.ErrInvalidLogCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.ensureLocked(userID)
	rec.Logs[category] = append(rec.Logs[category], entry)
	return nil
}

func (s *InMemoryStore) GetLogs(userID string, category models.LogCategory) ([]models.LogEntry, error) {
	if !models.IsValidLogCategory(category) {
		return nil, models.ErrInvalidLogCategory
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[userID]
	if !ok {
		return []models.LogEntry{}, nil
	}
	out := make([]models.LogEntry, len(rec.Logs[category]))
	copy(out, rec.Logs[category])
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }

// ensureLocked returns the live record for userID, creating it if needed.
// Caller must hold the write lock.
func (s *InMemoryStore) ensureLocked(userID string) *models.UserRecord {
	rec, ok := s.users[userID]
	if !ok {
		rec = newDefaultRecord(userID)
		s.users[userID] = rec
	}
	return rec
}

// newDefaultRecord builds the default record shape, defined once for every
// backend (auto-create-on-read contract).
func newDefaultRecord(userID string) *models.UserRecord {
	logs := make(map[models.LogCategory][]models.LogEntry, len(models.AllLogCategories))
	for _, c := range models.AllLogCategories {
		logs[c] = []models.LogEntry{}
	}
	return &models.UserRecord{
		ID:         userID,
		Profile:    models.DefaultProfile(),
		Logs:       logs,
		Onboarding: models.NewOnboardingStatus(),
		CreatedAt:  time.Now().UTC(),
	}
}

// cloneRecord copies a record so callers cannot mutate stored state.
func cloneRecord(rec *models.UserRecord) *models.UserRecord {
	out := *rec
	out.Logs = make(map[models.LogCategory][]models.LogEntry, len(rec.Logs))
	for c, entries := range rec.Logs {
		cp := make([]models.LogEntry, len(entries))
		copy(cp, entries)
		out.Logs[c] = cp
	}
	if rec.Profile.Equipment != nil {
		out.Profile.Equipment = append([]string(nil), rec.Profile.Equipment...)
	}
	return &out
}
