// Package ai defines the language model and embedding capabilities the
// matching pipeline consumes, independent of any provider.
package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrModelUnavailable  = errors.New("model not available")
)

// Model names accepted in requests.
const (
	ModelGPT4   = "gpt4"
	ModelClaude = "claude"
	ModelGemini = "gemini"

	DefaultModel = ModelGPT4
)

// ChatModel turns a prompt into a textual completion.
type ChatModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Credentials are the provider API keys supplied by the user.
type Credentials struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

// Models is the set of handles available to one request.
type Models struct {
	chat     map[string]ChatModel
	embedder Embedder
}

func NewModels(embedder Embedder) *Models {
	return &Models{chat: make(map[string]ChatModel), embedder: embedder}
}

// WithChat registers model under name.
func (m *Models) WithChat(name string, model ChatModel) *Models {
	m.chat[name] = model
	return m
}

// Chat returns the named model, the default one when name is blank.
func (m *Models) Chat(name string) (ChatModel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultModel
	}

	model, ok := m.chat[name]
	if !ok {
		return nil, fmt.Errorf("%w: model %s is not configured, check the API keys", ErrModelUnavailable, name)
	}
	return model, nil
}

// Embedder returns the embedding service.
func (m *Models) Embedder() (Embedder, error) {
	if m.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider is configured", ErrModelUnavailable)
	}
	return m.embedder, nil
}

// Names lists the configured chat models.
func (m *Models) Names() []string {
	names := make([]string, 0, len(m.chat))
	for name := range m.chat {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory builds the models available for creds.
type Factory func(ctx context.Context, creds Credentials) (*Models, error)
