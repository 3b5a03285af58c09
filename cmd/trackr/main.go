// Command trackr runs the conversational wellness assistant on a terminal.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/trackr-ai/trackr/internal/auth"
	"github.com/trackr-ai/trackr/internal/cli"
	"github.com/trackr-ai/trackr/internal/flow"
	"github.com/trackr-ai/trackr/internal/genai"
	"github.com/trackr-ai/trackr/internal/lockfile"
	"github.com/trackr-ai/trackr/internal/messaging"
	"github.com/trackr-ai/trackr/internal/store"
	"github.com/trackr-ai/trackr/internal/util"
)

// Default configuration constants.
const (
	// DefaultStateDirName is the state directory created under the user's
	// home directory when TRACKR_STATE_DIR is not set.
	DefaultStateDirName = ".trackr"
	// DefaultDBFileName is the default SQLite database filename.
	DefaultDBFileName = "trackr.db"
)

// Config holds environment configuration.
type Config struct {
	DatabaseDSN string
	StateDir    string
	OpenAIKey   string
	OpenAIModel string
	OTPSender   string
}

// Flags holds command line flag values.
type Flags struct {
	stateDir  *string
	dbDSN     *string
	openaiKey *string
	model     *string
	otpSender *string
	debug     *bool
}

func main() {
	flags := parseCommandLineFlags()
	initializeLogger(*flags.debug)
	config := loadEnvironmentConfig()
	applyFlagOverrides(&config, flags)

	if err := os.MkdirAll(config.StateDir, 0755); err != nil {
		slog.Error("Failed to create state directory", "error", err, "state_dir", config.StateDir)
		os.Exit(1)
	}

	lock, err := lockfile.Acquire(config.StateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	// Storage connectivity failure is fatal at startup.
	st, err := store.NewStore(store.WithDSN(config.DatabaseDSN))
	if err != nil {
		slog.Error("Failed to open user record store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	orch := flow.NewOrchestrator(st, buildGenAIClient(config))
	authSvc := buildAuthService(config)

	slog.Info("Trackr starting", "state_dir", config.StateDir, "dsn_set", config.DatabaseDSN != "")
	app := cli.New(orch, authSvc, os.Stdin, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		slog.Error("Trackr session failed", "error", err)
		os.Exit(1)
	}
	slog.Debug("Trackr exited normally")
}

// initializeLogger sets up structured logging.
func initializeLogger(debug bool) {
	level := slog.LevelInfo
	if debug || util.ParseBoolEnv("TRACKR_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and
// a .env file.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseDSN: os.Getenv("TRACKR_DB_DSN"),
		StateDir:    os.Getenv("TRACKR_STATE_DIR"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),
		OTPSender:   os.Getenv("OTP_SENDER"),
	}
	if config.DatabaseDSN == "" {
		config.DatabaseDSN = os.Getenv("DATABASE_URL")
	}
	if config.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		config.StateDir = filepath.Join(home, DefaultStateDirName)
		slog.Debug("No TRACKR_STATE_DIR set, using default", "state_dir", config.StateDir)
	}
	return config
}

// parseCommandLineFlags defines and parses the command line flags.
func parseCommandLineFlags() Flags {
	flags := Flags{
		stateDir:  flag.String("state-dir", "", "state directory (overrides TRACKR_STATE_DIR)"),
		dbDSN:     flag.String("db-dsn", "", "database DSN: SQLite file path or postgres:// URL"),
		openaiKey: flag.String("openai-key", "", "OpenAI API key (overrides OPENAI_API_KEY)"),
		model:     flag.String("model", "", "chat model (overrides OPENAI_MODEL)"),
		otpSender: flag.String("otp-sender", "", "OTP delivery: smtp, twilio, console, or none"),
		debug:     flag.Bool("debug", false, "enable debug logging"),
	}
	flag.Parse()
	return flags
}

// applyFlagOverrides lets flags win over environment values and derives the
// default SQLite DSN from the state directory.
func applyFlagOverrides(config *Config, flags Flags) {
	if *flags.stateDir != "" {
		config.StateDir = *flags.stateDir
	}
	if *flags.dbDSN != "" {
		config.DatabaseDSN = *flags.dbDSN
	}
	if *flags.openaiKey != "" {
		config.OpenAIKey = *flags.openaiKey
	}
	if *flags.model != "" {
		config.OpenAIModel = *flags.model
	}
	if *flags.otpSender != "" {
		config.OTPSender = *flags.otpSender
	}
	if config.DatabaseDSN == "" {
		config.DatabaseDSN = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN set, using SQLite default", "dsn", config.DatabaseDSN)
	}
}

// buildGenAIClient constructs the text-generation client, or nil when no
// API key is configured: every agent then serves its safe fallback.
func buildGenAIClient(config Config) genai.ClientInterface {
	opts := []genai.Option{genai.WithAPIKey(config.OpenAIKey)}
	if config.OpenAIModel != "" {
		opts = append(opts, genai.WithModel(config.OpenAIModel))
	}
	client, err := genai.NewClient(opts...)
	if err != nil {
		slog.Warn("GenAI client unavailable, agents will use fallback content", "error", err)
		return nil
	}
	return client
}

// buildAuthService constructs the OTP login service with the configured
// delivery sender, or nil when login is disabled.
func buildAuthService(config Config) *auth.Service {
	sender := buildSender(config)
	if sender == nil {
		return nil
	}
	return auth.NewService(auth.NewOTPStore(), sender)
}

// buildSender picks the OTP delivery transport: an explicit OTP_SENDER
// choice, otherwise whichever of SMTP and Twilio is configured, otherwise
// the console.
func buildSender(config Config) messaging.Sender {
	switch config.OTPSender {
	case "none":
		return nil
	case "smtp":
		return mustSMTP()
	case "twilio":
		return mustTwilio()
	case "console":
		return messaging.NewConsoleSender(os.Stdout)
	}

	if os.Getenv("SMTP_EMAIL") != "" {
		if sender, err := messaging.NewSMTPSender(); err == nil {
			return sender
		}
	}
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		if sender, err := messaging.NewTwilioSender(); err == nil {
			return sender
		}
	}
	slog.Debug("No OTP transport configured, using console delivery")
	return messaging.NewConsoleSender(os.Stdout)
}

func mustSMTP() messaging.Sender {
	sender, err := messaging.NewSMTPSender()
	if err != nil {
		slog.Error("Failed to configure SMTP sender", "error", err)
		os.Exit(1)
	}
	return sender
}

func mustTwilio() messaging.Sender {
	sender, err := messaging.NewTwilioSender()
	if err != nil {
		slog.Error("Failed to configure Twilio sender", "error", err)
		os.Exit(1)
	}
	return sender
}
