package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/trackr-ai/trackr/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists user records in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN is a file path to the SQLite database file; the containing
// directory is created if it does not exist.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetOrCreateUser(userID string) (*models.UserRecord, error) {
	if userID == "" {
		return nil, models.ErrEmptyUserID
	}

	var (
		profileJSON    string
		onboardingJSON string
		createdAt      time.Time
	)
	err := s.db.QueryRow(`SELECT profile, onboarding, created_at FROM users WHERE id = ?`, userID).
		Scan(&profileJSON, &onboardingJSON, &createdAt)
	if err == sql.ErrNoRows {
		rec := newDefaultRecord(userID)
		if err := s.insertUser(rec); err != nil {
			return nil, err
		}
		slog.Debug("SQLiteStore created user record", "user_id", userID)
		return rec, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetOrCreateUser query failed", "error", err, "user_id", userID)
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

func (s *SQLiteStore) insertUser(rec *models.UserRecord) error {
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	onboardingJSON, err := json.Marshal(rec.Onboarding)
	if err != nil {
		return fmt.Errorf("failed to encode onboarding status: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO users (id, profile, onboarding, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, string(profileJSON), string(onboardingJSON), rec.CreatedAt)
	if err != nil {
		slog.Error("SQLiteStore insertUser failed", "error", err, "user_id", rec.ID)
		return fmt.Errorf("failed to insert user %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateProfile(userID string, profile models.Profile) error {
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
	_, err = s.db.Exec(`UPDATE users SET profile = ? WHERE id = ?`, string(profileJSON), userID)
	if err != nil {
		slog.Error("SQLiteStore UpdateProfile failed", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update profile for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore UpdateProfile succeeded", "user_id", userID)
	return nil
}

func (s *SQLiteStore) SaveOnboarding(userID string, status models.OnboardingStatus) error {
	if _, err := s.GetOrCreateUser(userID); err != nil {
		return err
	}
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode onboarding status: %w", err)
	}
	_, err = s.db.Exec(`UPDATE users SET onboarding = ? WHERE id = ?`, string(statusJSON), userID)
	if err != nil {
		slog.Error("SQLiteStore SaveOnboarding failed", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save onboarding status for %s: %w", userID, err)
	}
	return nil
}

func (s *SQLiteStore) AppendLog(userID string, category models.LogCategory, entry models.LogEntry) error {
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
	_, err := s.db.Exec(`INSERT INTO logs (id, user_id, category, timestamp, payload) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, userID, string(category), entry.Timestamp, payload)
	if err != nil {
		slog.Error("SQLiteStore AppendLog failed", "error", err, "user_id", userID, "category", category)
		return fmt.Errorf("failed to append %s log for %s: %w", category, userID, err)
	}
	slog.Debug("SQLiteStore AppendLog succeeded", "user_id", userID, "category", category)
	return nil
}

func (s *SQLiteStore) GetLogs(userID string, category models.LogCategory) ([]models.LogEntry, error) {
	if !models.IsValidLogCategory(category) {
		return nil, models.ErrInvalidLogCategory
	}
	rows, err := s.db.Query(`SELECT id, timestamp, payload FROM logs WHERE user_id = ? AND category = ? ORDER BY rowid`,
		userID, string(category))
	if err != nil {
		slog.Error("SQLiteStore GetLogs query failed", "error", err, "user_id", userID, "category", category)
		return nil, fmt.Errorf("failed to query %s logs for %s: %w", category, userID, err)
	}
	defer rows.Close()
	return scanLogRows(rows)
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
