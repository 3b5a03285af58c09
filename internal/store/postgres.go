package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/trackr-ai/trackr/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists user records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) GetOrCreateUser(userID string) (*models.UserRecord, error) {
	if userID == "" {
		return nil, models.ErrEmptyUserID
	}

	var (
		profileJSON    string
		onboardingJSON string
		createdAt      time.Time
	)
	err := s.db.QueryRow(`SELECT profile, onboarding, created_at FROM users WHERE id = $1`, userID).
		Scan(&profileJSON, &onboardingJSON, &createdAt)
	if err == sql.ErrNoRows {
		rec := newDefaultRecord(userID)
		if err := s.insertUser(rec); err != nil {
			return nil, err
		}
		slog.Debug("PostgresStore created user record", "user_id", userID)
		return rec, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetOrCreateUser query failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to query user %s: %w", userID, err)
	}

	rec := newDefaultRecord(userID)
	rec.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(profileJSON), &rec.Profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile for %s: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(onboardingJSON), &rec.Onboarding); err != nil {
		return nil, fmt.Errorf("failed to decode onboarding status for %s: %w", userID, err)
	}
	for _, c := range models.AllLogCategories {
		entries, err := s.GetLogs(userID, c)
		if err != nil {
			return nil, err
		}
		rec.Logs[c] = entries
	}
	return rec, nil
}

func (s *PostgresStore) insertUser(rec *models.UserRecord) error {
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	onboardingJSON, err := json.Marshal(rec.Onboarding)
	if err != nil {
		return fmt.Errorf("failed to encode onboarding status: %w", err)
	}
	// ON CONFLICT keeps concurrent first reads idempotent.
	_, err = s.db.Exec(`INSERT INTO users (id, profile, onboarding, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
		rec.ID, string(profileJSON), string(onboardingJSON), rec.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore insertUser failed", "error", err, "user_id", rec.ID)
		return fmt.Errorf("failed to insert user %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) UpdateProfile(userID string, profile models.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if _, err := s.GetOrCreateUser(userID); err != nil {
		return err
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	_, err = s.db.Exec(`UPDATE users SET profile = $1 WHERE id = $2`, string(profileJSON), userID)
	if err != nil {
		slog.Error("PostgresStore UpdateProfile failed", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update profile for %s: %w", userID, err)
	}
	slog.Debug("PostgresStore UpdateProfile succeeded", "user_id", userID)
	return nil
}

func (s *PostgresStore) SaveOnboarding(userID string, status models.OnboardingStatus) error {
	if _, err := s.GetOrCreateUser(userID); err != nil {
		return err
	}
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode onboarding status: %w", err)
	}
	_, err = s.db.Exec(`UPDATE users SET onboarding = $1 WHERE id = $2`, string(statusJSON), userID)
	if err != nil {
		slog.Error("PostgresStore SaveOnboarding failed", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save onboarding status for %s: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) AppendLog(userID string, category models.LogCategory, entry models.LogEntry) error {
	if !models.IsValidLogCategory(category) {
		return models.ErrInvalidLogCategory
	}
	if _, err := s.GetOrCreateUser(userID); err != nil {
		return err
	}
	var payload any
	if len(entry.Payload) > 0 {
		payload = string(entry.Payload)
	}
	_, err := s.db.Exec(`INSERT INTO logs (id, user_id, category, timestamp, payload) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, userID, string(category), entry.Timestamp, payload)
	if err != nil {
		slog.Error("PostgresStore AppendLog failed", "error", err, "user_id", userID, "category", category)
		return fmt.Errorf("failed to append %s log for %s: %w", category, userID, err)
	}
	slog.Debug("PostgresStore AppendLog succeeded", "user_id", userID, "category", category)
	return nil
}

func (s *PostgresStore) GetLogs(userID string, category models.LogCategory) ([]models.LogEntry, error) {
	if !models.IsValidLogCategory(category) {
		return nil, models.ErrInvalidLogCategory
	}
	rows, err := s.db.Query(`SELECT id, timestamp, payload FROM logs WHERE user_id = $1 AND category = $2 ORDER BY seq`,
		userID, string(category))
	if err != nil {
		slog.Error("PostgresStore GetLogs query failed", "error", err, "user_id", userID, "category", category)
		return nil, fmt.Errorf("failed to query %s logs for %s: %w", category, userID, err)
	}
	defer rows.Close()
	return scanLogRows(rows)
}

// Close closes the underlying database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
