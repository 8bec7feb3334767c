package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai/providers"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/orchestrator"
	"github.com/spigell/jobmatch/internal/store"
)

// env bundles what every command needs.
type env struct {
	config  *Config
	logger  *zap.Logger
	store   store.Store
	session *orchestrator.Session
	closers []io.Closer
}

func (e *env) Close() {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Warn("closing resource", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// setup builds the logger, config, store and session, exiting on failure.
func setup(ctx context.Context) *env {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	e := &env{config: config, logger: logger}

	s, closer, err := openStore(ctx, config.Storage)
	if err != nil {
		logger.Fatal("opening the store",
			zap.Error(err),
			zap.String("driver", config.Storage.Driver),
			zap.String("hint", "check storage.driver, storage.path and storage.redis-url"),
		)
	}
	e.store = s
	if closer != nil {
		e.closers = append(e.closers, closer)
	}

	factory := providers.New(providers.Config{
		EmbeddingProvider: config.AI.EmbeddingProvider,
		OpenAI:            providers.ProviderConfig(config.AI.OpenAI),
		Anthropic:         providers.ProviderConfig(config.AI.Anthropic),
		Gemini:            providers.ProviderConfig(config.AI.Gemini),
	}, logger)

	e.session = orchestrator.NewSession(s, factory, orchestrator.SessionConfig{
		CacheIndex:   config.Analysis.CacheIndex,
		TopK:         config.Analysis.TopK,
		MaxLogLength: config.AI.MaxLogLength,
		KeyFiles: orchestrator.KeyFiles{
			OpenAI:    config.AI.OpenAI.APIKeyFile,
			Anthropic: config.AI.Anthropic.APIKeyFile,
			Gemini:    config.AI.Gemini.APIKeyFile,
		},
	}, logger)

	logger.Debug("configuration loaded",
		zap.String("storage", config.Storage.Driver),
		zap.String("embedding_provider", config.AI.EmbeddingProvider),
		zap.String("default_model", config.AI.DefaultModel),
	)

	return e
}

func openStore(ctx context.Context, cfg StorageConfig) (store.Store, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		s, err := store.NewFile(cfg.Path)
		return s, nil, err
	case "redis":
		s, err := store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "memory":
		return store.NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// model resolves the --model flag against the configured default.
func (e *env) model(flag string) string {
	if m := strings.TrimSpace(flag); m != "" {
		return m
	}
	return e.config.AI.DefaultModel
}
