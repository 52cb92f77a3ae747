// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package llm abstracts the text-generation capability used for claim
// extraction, query planning, evidence synthesis, and explanations.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/crisiswatch/claimwatch/pkg/types"
)

// Generator produces text from a prompt. The pipeline only ever depends on
// this interface so tests can supply a mock.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string, temperature float32, maxTokens int) (string, error)
}

// OpenAIGenerator calls the OpenAI chat-completion API.
type OpenAIGenerator struct {
	client     *openai.Client
	model      string
	maxRetries int
}

// NewOpenAI builds a generator from configuration.
func NewOpenAI(cfg types.AIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for the reasoning capability")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("no model configured, defaulting", "model", model)
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &OpenAIGenerator{
		client:     openai.NewClient(cfg.APIKey),
		model:      model,
		maxRetries: maxRetries,
	}, nil
}

// backoffBase controls the base duration for exponential backoff between
// retries. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// Generate sends a chat-completion request, retrying transient failures
// with exponential backoff.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt, systemPrompt string, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			slog.Debug("generation attempt failed", "attempt", attempt, "error", err)
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty completion response")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("after %d retries: %w", g.maxRetries, lastErr)
}
