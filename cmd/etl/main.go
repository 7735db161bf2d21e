package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/oxygen-conversion-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/oxygen-conversion-service/internal/adapter/kafka"
	"github.com/couchcryptid/oxygen-conversion-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/oxygen-conversion-service/internal/adapter/victoriametrics"
	"github.com/couchcryptid/oxygen-conversion-service/internal/config"
	"github.com/couchcryptid/oxygen-conversion-service/internal/domain"
	"github.com/couchcryptid/oxygen-conversion-service/internal/observability"
	"github.com/couchcryptid/oxygen-conversion-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// sink is a BatchLoader that owns a connection.
type sink interface {
	pipeline.BatchLoader
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Air pressure enrichment is feature-flagged via OPENMETEO_ENABLED.
	var provider domain.AirPressureProvider
	if cfg.OpenMeteoEnabled {
		client := openmeteo.NewClient(cfg.OpenMeteoURL, cfg.OpenMeteoArchiveURL, cfg.OpenMeteoTimeout, metrics, logger)
		provider = openmeteo.NewCachedProvider(client, cfg.OpenMeteoCacheSize, metrics)
		metrics.AirPressureEnabled.Set(1)
		logger.Info("open-meteo air pressure enabled", "cache_size", cfg.OpenMeteoCacheSize, "timeout", cfg.OpenMeteoTimeout)
	} else {
		logger.Info("open-meteo air pressure disabled", "default_air_pressure", cfg.DefaultAirPressure)
	}

	writer, err := newSink(cfg, logger)
	if err != nil {
		logger.Error("failed to create sink", "sink", cfg.Sink, "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	transformer := pipeline.NewTransformer(provider, domain.ConvertOptions{
		DefaultAirPressure: cfg.DefaultAirPressure,
		Strict:             cfg.StrictRanges,
	}, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.StrictRanges, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("sink close error", "sink", cfg.Sink, "error", err)
	}

	logger.Info("shutdown complete")
}

func newSink(cfg *config.Config, logger *slog.Logger) (sink, error) {
	if cfg.Sink == config.SinkVictoriaMetrics {
		logger.Info("writing converted readings to victoriametrics", "url", cfg.VMInsertURL)
		return victoriametrics.NewWriter(cfg.VMInsertURL, logger)
	}
	logger.Info("writing converted readings to kafka", "topic", cfg.KafkaSinkTopic)
	return kafkaadapter.NewWriter(cfg, logger), nil
}
