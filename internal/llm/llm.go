// Package llm is the invocation layer between the stage processors and the
// text-generation provider. It owns retry/backoff against rate limiting and
// the extraction of structured JSON from free-form model output.
package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/resilience"
	"github.com/sells-group/campaign-cli/pkg/groq"
)

// Client generates text from a chat model. Both methods return an error for
// every failure mode; callers are expected to degrade to a documented
// fallback rather than propagate.
type Client interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt, systemPrompt string) (string, error)
}

const jsonInstruction = "\n\nRespond ONLY with valid JSON. No explanations or markdown."

// GroqClient implements Client against the Groq chat-completions API.
// Rate-limited requests are retried on the 2^attempt+1 schedule; any other
// provider or transport failure aborts immediately.
type GroqClient struct {
	api         groq.Client
	model       string
	temperature float64
	maxTokens   int
	retry       resilience.RetryConfig
}

// NewGroq wraps a Groq API client with the campaign retry policy.
func NewGroq(api groq.Client, cfg config.LLMConfig) *GroqClient {
	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 5
	}
	return &GroqClient{
		api:         api,
		model:       cfg.GroqModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retry: resilience.RetryConfig{
			MaxAttempts: attempts,
			Backoff:     resilience.RateLimitBackoff,
			ShouldRetry: isRateLimited,
			OnRetry:     resilience.RetryLogger("groq", "chat_completion"),
		},
	}
}

func isRateLimited(err error) bool {
	var apiErr *groq.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

func (c *GroqClient) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	var messages []groq.Message
	if systemPrompt != "" {
		messages = append(messages, groq.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, groq.Message{Role: "user", Content: prompt})

	temp := c.temperature
	maxTokens := c.maxTokens
	req := groq.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}

	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*groq.ChatCompletionResponse, error) {
		return c.api.ChatCompletion(ctx, req)
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: generate")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("llm: completion has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateJSON is Generate with an appended instruction demanding a bare JSON
// object. It does not validate that the result parses; that is ExtractJSON's job.
func (c *GroqClient) GenerateJSON(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return c.Generate(ctx, prompt, systemPrompt+jsonInstruction)
}
