// Package openai adapts the OpenAI chat and embedding endpoints.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/logger"
)

const (
	defaultModel          = goopenai.GPT4
	defaultEmbeddingModel = goopenai.AdaEmbeddingV2
	providerName          = "openai"
)

type api interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
	CreateEmbeddings(ctx context.Context, conv goopenai.EmbeddingRequestConverter) (goopenai.EmbeddingResponse, error)
}

// Client implements ai.ChatModel and ai.Embedder.
type Client struct {
	api            api
	model          string
	embeddingModel string
	logger         *zap.Logger
}

func New(apiKey, model, embeddingModel string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	return newClient(goopenai.NewClient(apiKey), model, embeddingModel, log), nil
}

func newClient(a api, model, embeddingModel string, log *zap.Logger) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if embeddingModel = strings.TrimSpace(embeddingModel); embeddingModel == "" {
		embeddingModel = string(defaultEmbeddingModel)
	}

	return &Client{
		api:            a,
		model:          model,
		embeddingModel: embeddingModel,
		logger:         logger.WithCommonFields(log, providerName, model),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		// A literal zero is dropped by omitempty and the API default of 1 applies.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}

	c.logger.Debug("chat completion finished",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return output, nil
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.api.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai api returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("openai api returned embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	c.logger.Debug("embedded texts", zap.Int("count", len(vectors)), zap.String("embedding_model", c.embeddingModel))
	return vectors, nil
}

func (c *Client) Model() string { return c.model }
