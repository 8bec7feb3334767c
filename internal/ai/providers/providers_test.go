package providers

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
)

type stubClient struct {
	name string
}

func (s *stubClient) Generate(context.Context, string) (string, error) { return s.name, nil }
func (s *stubClient) Model() string                                    { return s.name }
func (s *stubClient) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func stubBuilders() builders {
	return builders{
		openai: func(_, model, _ string, _ *zap.Logger) (openAIClient, error) {
			return &stubClient{name: "openai"}, nil
		},
		anthropic: func(_, _ string, _ *zap.Logger) (ai.ChatModel, error) {
			return &stubClient{name: "anthropic"}, nil
		},
		gemini: func(_ context.Context, _, _, _ string, _ *zap.Logger) (geminiClient, error) {
			return &stubClient{name: "gemini"}, nil
		},
	}
}

func TestFactoryRequiresEmbeddingKey(t *testing.T) {
	factory := newFactory(Config{}, stubBuilders(), nil)

	_, err := factory(context.Background(), ai.Credentials{Anthropic: "sk-ant"})
	if !errors.Is(err, ai.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestFactoryRegistersConfiguredModels(t *testing.T) {
	factory := newFactory(Config{}, stubBuilders(), zap.NewNop())

	models, err := factory(context.Background(), ai.Credentials{OpenAI: "sk", Anthropic: "sk-ant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := models.Names(), []string{ai.ModelClaude, ai.ModelGPT4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected models: got %v want %v", got, want)
	}

	chat, err := models.Chat("")
	if err != nil || chat.Model() != "openai" {
		t.Fatalf("expected default model to be openai, got %v err=%v", chat, err)
	}

	if _, err := models.Chat(ai.ModelGemini); !errors.Is(err, ai.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestFactoryGeminiEmbeddings(t *testing.T) {
	factory := newFactory(Config{EmbeddingProvider: "Gemini"}, stubBuilders(), zap.NewNop())

	models, err := factory(context.Background(), ai.Credentials{Gemini: "g"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embedder, err := models.Embedder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder.(*stubClient).name != "gemini" {
		t.Fatalf("expected gemini embedder")
	}

	if _, err := factory(context.Background(), ai.Credentials{OpenAI: "sk"}); !errors.Is(err, ai.ErrMissingCredential) {
		t.Fatalf("expected missing gemini credential, got %v", err)
	}
}

func TestFactoryUnknownEmbeddingProvider(t *testing.T) {
	factory := newFactory(Config{EmbeddingProvider: "cohere"}, stubBuilders(), zap.NewNop())

	if _, err := factory(context.Background(), ai.Credentials{OpenAI: "sk"}); err == nil {
		t.Fatal("expected error for unknown embedding provider")
	}
}
