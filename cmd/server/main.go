// Package main runs the persona analysis HTTP service: curated collection
// cache, persona matching, per-collection analytics, and deep-dive synthesis.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nft-persona-lab/internal/alchemy"
	"nft-persona-lab/internal/analytics"
	"nft-persona-lab/internal/api"
	"nft-persona-lab/internal/cache"
	"nft-persona-lab/internal/config"
	"nft-persona-lab/internal/gateway"
	"nft-persona-lab/internal/persona"
	"nft-persona-lab/internal/synthesis"
	"nft-persona-lab/internal/textgen"
	"nft-persona-lab/internal/workflow"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := alchemy.NewHTTPClient(cfg.Alchemy.APIKey,
		alchemy.WithBaseURL(cfg.Alchemy.BaseURL),
		alchemy.WithTimeout(cfg.Alchemy.Timeout),
		alchemy.WithMaxRetries(cfg.Alchemy.MaxRetries),
		alchemy.WithRetryDelay(cfg.Alchemy.RetryDelay),
	)

	g := gateway.New(provider,
		gateway.WithItemDelay(cfg.Alchemy.ItemDelay),
		gateway.WithLogger(logger.Named("gateway")),
	)
	c := cache.New(g,
		cache.WithProgressWindow(cfg.Cache.ProgressFloor, cfg.Cache.ProgressCeil),
		cache.WithLogger(logger.Named("cache")),
	)
	analyzer := analytics.NewAnalyzer(provider)

	// Without a generation credential the matcher runs on its deterministic
	// fallback and /ai-analysis reports the missing credential.
	var gen textgen.Generator = textgen.Disabled{}
	if cfg.Gemini.APIKey != "" {
		gemini, err := textgen.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return fmt.Errorf("init text generation: %w", err)
		}
		gen = gemini
		logger.Info("text generation enabled", zap.String("model", cfg.Gemini.Model))
	} else {
		logger.Warn("no generation credential; persona matching and deep dives degraded")
	}

	matcher := persona.NewMatcher(gen, logger.Named("persona"))
	ctl := workflow.NewController(c, analyzer, matcher, synthesis.NewLocal(), logger.Named("workflow"))

	opts := []api.Option{api.WithLogger(logger.Named("api"))}
	if cfg.Gemini.APIKey != "" {
		opts = append(opts, api.WithProvider(synthesis.NewProvider(gen, logger.Named("synthesis"))))
	}
	srv := api.NewServer(c, analyzer, matcher, ctl, opts...)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Warm the cache in the background so the first request is fast. A
	// failure here is not fatal: Load falls back to the static set.
	go func() {
		result := c.Load(ctx, nil)
		logger.Info("cache warmed",
			zap.Int("collections", len(result.Collections)),
			zap.Bool("fallback", result.FromFallback))
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	// Second signal forces immediate exit.
	go func() {
		<-sigCh
		logger.Warn("received second signal, forcing immediate shutdown")
		os.Exit(1)
	}()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
