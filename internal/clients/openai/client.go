package openai

import (
	"context"
	"fmt"

	"nexa-crm/internal/observability"

	"github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

// Client wraps the OpenAI chat completions API for single-turn prompts.
type Client struct {
	apiKey string
	logger *observability.Logger
}

func New(apiKey string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &Client{apiKey: apiKey, logger: logger}, nil
}

// Complete sends a single-turn chat completion and returns the raw
// assistant message content.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
	options := []openaiOption.RequestOption{
		openaiOption.WithAPIKey(c.apiKey),
	}
	client := openai.NewClient(options...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModelGPT4oMini,
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		c.logger.Error(ctx, "failed to get chat completion", err)
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
