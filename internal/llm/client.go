// Package llm talks to an OpenAI-compatible chat completion endpoint
// (the Hugging Face router by default) and turns article text into a
// Markdown critique.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/msomdec/factcheck/internal/domain"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL   = "https://router.huggingface.co/v1"
	DefaultModel     = "meta-llama/Meta-Llama-3-8B-Instruct"
	DefaultTimeout   = 120 * time.Second
	DefaultCacheSize = 128

	maxTokens   = 2048
	temperature = 0.7
)

// Config configures a Client. Zero values fall back to the defaults above,
// except CacheSize where zero disables memoisation.
type Config struct {
	Token     string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	CacheSize int
}

// Client streams chat completions and memoises successful responses.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	memo    *memo
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.Token)
	oc.BaseURL = cfg.BaseURL
	if oc.BaseURL == "" {
		oc.BaseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client:  openai.NewClientWithConfig(oc),
		model:   model,
		timeout: timeout,
		memo:    newMemo(cfg.CacheSize),
	}
}

// Analyze returns the model's critique of articleText.
func (c *Client) Analyze(ctx context.Context, articleText string) (string, error) {
	return c.Complete(ctx, SystemPrompt, UserPrompt(articleText))
}

// Complete runs one streaming completion for the (system, user) pair and
// returns the trimmed accumulated content. Errors wrap domain.ErrGeneration
// or domain.ErrGenerationTimeout.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	key := newMemoKey(system, user)
	if out, ok := c.memo.get(key); ok {
		slog.Debug("llm memo hit", "model", c.model)
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.stream(ctx, system, user)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %v", domain.ErrGenerationTimeout, c.timeout, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	if out == "" {
		return "", fmt.Errorf("%w: model returned no content", domain.ErrGeneration)
	}

	slog.Info("llm completion", "model", c.model, "chars", len(out), "duration", time.Since(start))
	c.memo.add(key, out)
	return out, nil
}

func (c *Client) stream(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stream:      true,
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion stream: %w", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("receive chunk: %w", err)
		}
		if len(resp.Choices) > 0 {
			sb.WriteString(resp.Choices[0].Delta.Content)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
