// Package anthropic adapts the Anthropic messages endpoint to ai.ChatModel.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/logger"
)

const (
	defaultModel     = "claude-3-opus-20240229"
	defaultMaxTokens = 2048
	providerName     = "anthropic"
)

type messages interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client implements ai.ChatModel. Anthropic has no embedding endpoint.
type Client struct {
	messages messages
	model    string
	logger   *zap.Logger
}

func New(apiKey, model string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return newClient(&client.Messages, model, log), nil
}

func newClient(m messages, model string, log *zap.Logger) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		messages: m,
		model:    model,
		logger:   logger.WithCommonFields(log, providerName, model),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	msg, err := c.messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   defaultMaxTokens,
		Temperature: sdk.Float(0),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	if msg == nil {
		return "", errors.New("anthropic api returned no message")
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", errors.New("anthropic api returned empty response")
	}

	c.logger.Debug("message finished",
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return strings.Join(parts, "\n"), nil
}

func (c *Client) Model() string { return c.model }
