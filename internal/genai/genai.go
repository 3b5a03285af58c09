// Package genai wraps the OpenAI chat-completions API for Trackr's agents.
//
// The external model is treated as a black box: prompt pair in, raw text
// out. Transient failures are retried a bounded number of times with a fixed
// cooldown; once the budget is exhausted the caller receives an error and is
// expected to fall back to static content rather than propagate.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Default generation parameters.
const (
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = shared.ChatModelGPT4oMini
	// DefaultMaxTokens bounds the generated output length.
	DefaultMaxTokens = 512
	// DefaultMaxRetries is the number of attempts before giving up.
	DefaultMaxRetries = 2
	// DefaultRetryCooldown is the fixed pause between attempts.
	DefaultRetryCooldown = 1200 * time.Millisecond
)

// chatService defines the minimal interface for chat completions, so tests
// can substitute a scripted implementation.
type chatService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// ClientInterface is the seam consumed by the flow package.
type ClientInterface interface {
	// GeneratePrompt sends a system and user instruction pair and returns
	// the raw model text. The returned string is empty whenever err != nil.
	GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Opts holds configuration options for the GenAI client.
type Opts struct {
	APIKey        string
	Model         shared.ChatModel
	MaxTokens     int64
	MaxRetries    int
	RetryCooldown time.Duration
}

// Option defines a configuration option for the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the chat model.
func WithModel(model shared.ChatModel) Option {
	return func(o *Opts) { o.Model = model }
}

// WithMaxTokens overrides the output token bound.
func WithMaxTokens(n int64) Option {
	return func(o *Opts) { o.MaxTokens = n }
}

// WithMaxRetries overrides the attempt budget.
func WithMaxRetries(n int) Option {
	return func(o *Opts) { o.MaxRetries = n }
}

// WithRetryCooldown overrides the pause between attempts.
func WithRetryCooldown(d time.Duration) Option {
	return func(o *Opts) { o.RetryCooldown = d }
}

// Client wraps the OpenAI chat-completion service.
type Client struct {
	chat          chatService
	model         shared.ChatModel
	maxTokens     int64
	maxRetries    int
	retryCooldown time.Duration
}

// NewClient initializes a GenAI client. The API key falls back to the
// OPENAI_API_KEY environment variable when not provided via options.
func NewClient(opts ...Option) (*Client, error) {
	cfg := Opts{
		Model:         DefaultModel,
		MaxTokens:     DefaultMaxTokens,
		MaxRetries:    DefaultMaxRetries,
		RetryCooldown: DefaultRetryCooldown,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	slog.Debug("GenAI client configured", "model", cfg.Model, "max_retries", cfg.MaxRetries)

	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{
		chat:          &cli.Chat.Completions,
		model:         cfg.Model,
		maxTokens:     cfg.MaxTokens,
		maxRetries:    cfg.MaxRetries,
		retryCooldown: cfg.RetryCooldown,
	}, nil
}

// GeneratePrompt generates a response for the given system and user prompts,
// retrying transient failures up to the configured budget.
func (c *Client) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		MaxTokens: openai.Int(c.maxTokens),
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.chat.New(ctx, params)
		if err == nil {
			if len(resp.Choices) == 0 {
				err = fmt.Errorf("no choices returned")
			} else if content := resp.Choices[0].Message.Content; content != "" {
				slog.Debug("GenAI generation succeeded", "attempt", attempt)
				return content, nil
			} else {
				err = fmt.Errorf("empty completion content")
			}
		}
		lastErr = err
		slog.Warn("GenAI generation attempt failed", "attempt", attempt, "error", err)

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryCooldown):
			}
		}
	}
	return "", fmt.Errorf("generation failed after %d attempts: %w", c.maxRetries, lastErr)
}
