// Package providers assembles ai.Models from user credentials.
package providers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/ai/anthropic"
	"github.com/spigell/jobmatch/internal/ai/gemini"
	"github.com/spigell/jobmatch/internal/ai/openai"
)

const (
	EmbeddingOpenAI = "openai"
	EmbeddingGemini = "gemini"
)

// ProviderConfig selects models for one provider.
type ProviderConfig struct {
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	APIKeyFile     string `mapstructure:"api-key-file"`
}

type Config struct {
	EmbeddingProvider string         `mapstructure:"embedding-provider"`
	OpenAI            ProviderConfig `mapstructure:"openai"`
	Anthropic         ProviderConfig `mapstructure:"anthropic"`
	Gemini            ProviderConfig `mapstructure:"gemini"`
}

type builders struct {
	openai    func(key, model, embeddingModel string, log *zap.Logger) (openAIClient, error)
	anthropic func(key, model string, log *zap.Logger) (ai.ChatModel, error)
	gemini    func(ctx context.Context, key, model, embeddingModel string, log *zap.Logger) (geminiClient, error)
}

type openAIClient interface {
	ai.ChatModel
	ai.Embedder
}

type geminiClient interface {
	ai.ChatModel
	ai.Embedder
}

func defaultBuilders() builders {
	return builders{
		openai: func(key, model, embeddingModel string, log *zap.Logger) (openAIClient, error) {
			return openai.New(key, model, embeddingModel, log)
		},
		anthropic: func(key, model string, log *zap.Logger) (ai.ChatModel, error) {
			return anthropic.New(key, model, log)
		},
		gemini: func(ctx context.Context, key, model, embeddingModel string, log *zap.Logger) (geminiClient, error) {
			return gemini.NewGenerator(ctx, key, model, embeddingModel, log)
		},
	}
}

// New returns a factory building a model for every provider with a key.
// The embedding provider's key is mandatory.
func New(cfg Config, log *zap.Logger) ai.Factory {
	return newFactory(cfg, defaultBuilders(), log)
}

func newFactory(cfg Config, b builders, log *zap.Logger) ai.Factory {
	if log == nil {
		log = zap.NewNop()
	}

	return func(ctx context.Context, creds ai.Credentials) (*ai.Models, error) {
		embeddingProvider := strings.ToLower(strings.TrimSpace(cfg.EmbeddingProvider))
		if embeddingProvider == "" {
			embeddingProvider = EmbeddingOpenAI
		}

		var (
			embedder ai.Embedder
			chats    = make(map[string]ai.ChatModel)
		)

		if key := strings.TrimSpace(creds.OpenAI); key != "" {
			client, err := b.openai(key, cfg.OpenAI.Model, cfg.OpenAI.EmbeddingModel, log)
			if err != nil {
				return nil, fmt.Errorf("create openai client: %w", err)
			}
			chats[ai.ModelGPT4] = client
			if embeddingProvider == EmbeddingOpenAI {
				embedder = client
			}
		}

		if key := strings.TrimSpace(creds.Anthropic); key != "" {
			client, err := b.anthropic(key, cfg.Anthropic.Model, log)
			if err != nil {
				return nil, fmt.Errorf("create anthropic client: %w", err)
			}
			chats[ai.ModelClaude] = client
		}

		if key := strings.TrimSpace(creds.Gemini); key != "" {
			client, err := b.gemini(ctx, key, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel, log)
			if err != nil {
				return nil, fmt.Errorf("create gemini client: %w", err)
			}
			chats[ai.ModelGemini] = client
			if embeddingProvider == EmbeddingGemini {
				embedder = client
			}
		}

		if embedder == nil {
			switch embeddingProvider {
			case EmbeddingOpenAI:
				return nil, fmt.Errorf("%w: OpenAI API key not found, set it with `jobmatch keys set --openai`", ai.ErrMissingCredential)
			case EmbeddingGemini:
				return nil, fmt.Errorf("%w: Gemini API key not found, set it with `jobmatch keys set --gemini`", ai.ErrMissingCredential)
			default:
				return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
			}
		}

		models := ai.NewModels(embedder)
		for name, chat := range chats {
			models.WithChat(name, chat)
		}

		log.Debug("models ready", zap.Strings("chat_models", models.Names()), zap.String("embedding_provider", embeddingProvider))
		return models, nil
	}
}
