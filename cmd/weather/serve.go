package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/weather-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/weather-dashboard/internal/adapter/openweather"
	"github.com/couchcryptid/weather-dashboard/internal/config"
	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
	"github.com/couchcryptid/weather-dashboard/internal/proxy"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the weather proxy HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var source domain.WeatherSource = openweather.NewClient(cfg.APIKey, openweather.Options{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.UpstreamTimeout,
		Freshness:   cfg.FreshnessTTL,
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	}, logger, metrics)

	// Revalidation cache (feature-flagged via UPSTREAM_CACHE_SIZE).
	if cfg.CacheSize > 0 {
		source = openweather.NewCachedSource(source, cfg.CacheSize, cfg.FreshnessTTL, metrics)
		logger.Info("upstream cache enabled", "cache_size", cfg.CacheSize, "ttl", cfg.FreshnessTTL)
	}

	// Reading events (feature-flagged via KAFKA_BROKERS).
	var publisher proxy.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		publisher = writer
		logger.Info("reading events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("reading events disabled")
	}

	p := proxy.New(source, publisher, cfg.DefaultCity, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, cfg.FreshnessTTL, logger, metrics)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		logger.Error("http server error", "error", runErr)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return runErr
}
