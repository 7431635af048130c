package llm

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/config"
)

// AnthropicClient implements Client via the official anthropic-sdk-go.
// Selected with llm.provider "anthropic"; the SDK handles retry/backoff for
// rate-limited requests itself.
type AnthropicClient struct {
	api         sdk.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewAnthropic creates an Anthropic-backed generator.
func NewAnthropic(cfg config.LLMConfig) *AnthropicClient {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &AnthropicClient{
		api: sdk.NewClient(
			option.WithAPIKey(cfg.AnthropicKey),
			option.WithMaxRetries(maxRetries),
		),
		model:       cfg.AnthropicModel,
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxTokens),
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: sdk.Float(c.temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []sdk.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic generate")
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", eris.New("llm: anthropic completion has no text block")
}

// GenerateJSON mirrors GroqClient.GenerateJSON for the Anthropic provider.
func (c *AnthropicClient) GenerateJSON(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return c.Generate(ctx, prompt, systemPrompt+jsonInstruction)
}
