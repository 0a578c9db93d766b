package bootstrap

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"

	"contractiq/internal/ai"
	"contractiq/internal/config"
	"contractiq/internal/dataset"
	"contractiq/internal/session"
)

type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Catalog   *dataset.Catalog
	Embedder  embeddings.Embedder
	ChatModel llms.Model
	Sessions  *session.Store

	StartedAt time.Time
}

func New(logger zerolog.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is not set; refusing to start without a credential")
	}

	embedder, err := ai.NewEmbedder(cfg.LLM)
	if err != nil {
		return nil, err
	}
	chatModel, err := ai.NewChatModel(cfg.LLM)
	if err != nil {
		return nil, err
	}

	catalog := dataset.Default()
	if cfg.Dataset.XLSXPath != "" {
		loaded, err := dataset.FromXLSX(cfg.Dataset.XLSXPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Dataset.XLSXPath).
				Msg("loading sample catalog failed, falling back to built-in data")
		} else {
			catalog = loaded
		}
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Embedder:  embedder,
		ChatModel: chatModel,
		Sessions:  session.NewStore(),
		StartedAt: time.Now(),
	}, nil
}
