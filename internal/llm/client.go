package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"policyrag/internal/domain"
)

// Client calls a Groq/OpenAI-compatible chat-completions endpoint. One prompt,
// one round trip: retries are disabled and failures surface as a
// GenerationError for the caller to handle per question.
type Client struct {
	api         openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// Config configures the generative-model client. The API key is read from the
// environment variable named by APIKeyEnv and is required.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// NewClient creates a generator client, failing fast when the credential is
// absent.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	api := openai.NewClient(
		option.WithAPIKey(key),
		// the SDK resolves endpoint paths relative to the base URL, so it
		// must end with a slash or the last path segment is dropped
		option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/") + "/"),
		option.WithHTTPClient(&http.Client{Timeout: t}),
		option.WithMaxRetries(0),
	)
	return &Client{
		api:         api,
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends the assembled prompt as a single user message and returns
// the model's reply verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", &domain.GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.GenerationError{Err: errors.New("model returned no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}
