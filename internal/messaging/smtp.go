package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"os"
	"regexp"
	"strings"
)

// DefaultSMTPPort is used when no port is configured.
const DefaultSMTPPort = "587"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SMTPOpts holds configuration options for the SMTP sender.
type SMTPOpts struct {
	Host     string
	Port     string
	From     string
	Password string
}

// SMTPOption defines a configuration option for the SMTP sender.
type SMTPOption func(*SMTPOpts)

// WithSMTPHost sets the SMTP server hostname.
func WithSMTPHost(host string) SMTPOption {
	return func(o *SMTPOpts) { o.Host = host }
}

// WithSMTPPort sets the SMTP server port.
func WithSMTPPort(port string) SMTPOption {
	return func(o *SMTPOpts) { o.Port = port }
}

// WithSMTPFrom sets the sender address (also the auth username).
func WithSMTPFrom(from string) SMTPOption {
	return func(o *SMTPOpts) { o.From = from }
}

// WithSMTPPassword sets the auth password.
func WithSMTPPassword(password string) SMTPOption {
	return func(o *SMTPOpts) { o.Password = password }
}

// SMTPSender delivers passcodes by email over authenticated SMTP.
type SMTPSender struct {
	host     string
	port     string
	from     string
	password string
}

// NewSMTPSender creates an SMTP sender. Options fall back to the
// SMTP_HOST, SMTP_PORT, SMTP_EMAIL, and SMTP_PASSWORD environment
// variables when not provided.
func NewSMTPSender(opts ...SMTPOption) (*SMTPSender, error) {
	var cfg SMTPOpts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Host == "" {
		cfg.Host = os.Getenv("SMTP_HOST")
	}
	if cfg.Port == "" {
		cfg.Port = os.Getenv("SMTP_PORT")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("SMTP_EMAIL")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("SMTP_PASSWORD")
	}
	if cfg.Port == "" {
		cfg.Port = DefaultSMTPPort
	}
	slog.Debug("SMTP sender config loaded",
		"host_set", cfg.Host != "",
		"from_set", cfg.From != "",
		"password_set", cfg.Password != "")

	if cfg.Host == "" || cfg.From == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP host, email, and password must be provided")
	}
	return &SMTPSender{host: cfg.Host, port: cfg.Port, from: cfg.From, password: cfg.Password}, nil
}

// ValidateRecipient checks for an email-shaped recipient and lower-cases it.
func (s *SMTPSender) ValidateRecipient(recipient string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(recipient))
	if canonical == "" {
		return "", ErrEmptyRecipient
	}
	if !emailPattern.MatchString(canonical) {
		return "", fmt.Errorf("invalid email address: %q", recipient)
	}
	return canonical, nil
}

// Send delivers one message. The context is honored only up to the SMTP
// dial; net/smtp has no per-command cancellation.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	canonical, err := s.ValidateRecipient(to)
	if err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + canonical,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{canonical}, []byte(msg)); err != nil {
		slog.Error("SMTPSender send failed", "error", err, "to", canonical)
		return fmt.Errorf("failed to send email to %s: %w", canonical, err)
	}
	slog.Debug("SMTPSender send succeeded", "to", canonical)
	return nil
}
