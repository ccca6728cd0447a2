package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/config"
	"github.com/user/seo-meta-service/internal/generation"
	"github.com/user/seo-meta-service/internal/monitoring"
	"github.com/user/seo-meta-service/internal/pagefetch"
	"github.com/user/seo-meta-service/internal/pipeline"
	"github.com/user/seo-meta-service/pkg/logger"
)

// app is everything both subcommands share.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	pipeline *pipeline.Pipeline
	fetcher  pagefetch.Fetcher
}

// newApp loads configuration and wires the generation pipeline. adjust may
// tweak the loaded config before it is validated.
func newApp(ctx context.Context, cmd *cobra.Command, reg prometheus.Registerer, adjust func(*config.Config)) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	if adjust != nil {
		adjust(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics := monitoring.NewMetrics(reg)

	gen, err := generation.New(ctx, generation.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	fetcher, err := pagefetch.New(cfg.PageFetchMode, cfg.FetchTimeout(), cfg.PageFetchMaxBytes, metrics, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	log.Debug("application wired",
		zap.String("model", gen.Model()),
		zap.String("page_fetch_mode", cfg.PageFetchMode),
		zap.Bool("api_key_configured", cfg.GeminiAPIKey != ""),
	)

	var pageFetcher pipeline.PageFetcher
	if fetcher != nil {
		pageFetcher = fetcher
	}
	return &app{
		cfg:      cfg,
		logger:   log,
		metrics:  metrics,
		pipeline: pipeline.New(gen, pageFetcher, metrics, log),
		fetcher:  fetcher,
	}, nil
}

func (a *app) Close() {
	if a.fetcher != nil {
		if err := a.fetcher.Close(); err != nil {
			a.logger.Warn("failed to close page fetcher", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
