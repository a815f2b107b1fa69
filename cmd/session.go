package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dataspeak/dataspeak-engine/pkg/config"
	"github.com/dataspeak/dataspeak-engine/pkg/dataset"
	"github.com/dataspeak/dataspeak-engine/pkg/llm"
	"github.com/dataspeak/dataspeak-engine/pkg/schema"
	"github.com/dataspeak/dataspeak-engine/pkg/translate"
)

// session bundles the loaded dataset and the translation wiring every
// command needs.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *dataset.Store
	sc     *schema.Context
}

// newSession loads the configured CSV into an in-memory store and derives the
// schema context strategies translate against.
func newSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*session, error) {
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("no dataset configured: set --data, dataset.path in config.yaml, or DATASET_PATH")
	}

	store, err := dataset.NewStore(cfg.Dataset.TableName, logger)
	if err != nil {
		return nil, fmt.Errorf("open dataset store: %w", err)
	}

	if err := store.LoadCSVFile(ctx, cfg.Dataset.Path); err != nil {
		store.Close()
		return nil, fmt.Errorf("load dataset %s: %w", cfg.Dataset.Path, err)
	}

	sc, err := schema.NewContext(store.Descriptor())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("derive schema context: %w", err)
	}

	logger.Info("dataset loaded",
		zap.String("path", cfg.Dataset.Path),
		zap.String("table", cfg.Dataset.TableName),
		zap.Strings("columns", sc.ColumnNames()))

	return &session{cfg: cfg, logger: logger, store: store, sc: sc}, nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing dataset store", zap.Error(err))
	}
}

// strategyDeps builds the shared strategy dependencies, including the LLM
// client when the AI provider is configured. Without AI configuration the
// assisted strategy still works in pattern-only mode.
func (s *session) strategyDeps() translate.Deps {
	deps := translate.Deps{
		Logger:          s.logger,
		LLMTimeout:      s.cfg.AI.RequestTimeout,
		DefaultRowLimit: s.cfg.Translation.DefaultRowLimit,
	}

	if s.cfg.AIConfigured() {
		client, err := llm.NewClient(s.cfg.AI.Provider, llm.Config{
			Endpoint: s.cfg.AI.Endpoint,
			Model:    s.cfg.AI.Model,
			APIKey:   s.cfg.AI.APIKey,
		}, s.logger)
		if err != nil {
			s.logger.Warn("LLM client unavailable, assisted strategy falls back to patterns", zap.Error(err))
		} else {
			deps.LLM = client
		}
	}

	return deps
}

// strategy constructs one named strategy bound to the loaded dataset.
func (s *session) strategy(name string) (translate.Strategy, error) {
	strat, err := translate.New(name, s.strategyDeps())
	if err != nil {
		return nil, err
	}
	strat.SetSchemaContext(s.sc, s.store.Table())
	return strat, nil
}

// allStrategies constructs every registered strategy bound to the dataset.
func (s *session) allStrategies() []translate.Strategy {
	strategies := translate.NewAll(s.strategyDeps())
	for _, strat := range strategies {
		strat.SetSchemaContext(s.sc, s.store.Table())
	}
	return strategies
}
