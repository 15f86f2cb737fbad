package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/config"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/handler/health"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/quizapi"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/scoreboard"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Quiz API ---
	api, err := quizapi.New(cfg.APIBaseURL,
		quizapi.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		quizapi.WithRateLimit(rate.Limit(cfg.APIRateLimit), cfg.APIBurst),
		quizapi.WithMetrics(quizapi.NewMetrics(reg)),
		quizapi.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("creating quiz api client: %w", err)
	}
	logger.Info("using quiz api", "base_url", cfg.APIBaseURL)

	boards := scoreboard.NewRegistry(api, scoreboard.Options{
		TTL:          cfg.BoardTTL,
		FetchTimeout: cfg.APITimeout,
		IdleTimeout:  cfg.BoardIdleTimeout,
		Logger:       logger,
	})
	defer boards.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Views:    boards,
		Checks:   map[string]health.Checker{"quizapi": api},
		Registry: reg,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
