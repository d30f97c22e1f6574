// Command fraud-inference serves the fraud classifier over gRPC and HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/config"
	"fraud-inference/internal/features"
	"fraud-inference/internal/lifecycle"
	"fraud-inference/internal/logger"
	"fraud-inference/internal/model"
	"fraud-inference/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallbackLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Service stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Service stopped")
}

// run owns every resource it opens and releases them before returning.
func run(cfg *config.Config, log zerolog.Logger) error {
	var geo audit.GeoResolver
	if cfg.GeoIPCityDB != "" {
		g, err := audit.OpenGeoIP(cfg.GeoIPCityDB)
		if err != nil {
			return err
		}
		defer g.Close()
		geo = g
	}

	var pub audit.Publisher = audit.Nop{}
	var components []lifecycle.Component
	if cfg.KafkaEnabled() {
		k, err := audit.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaAuditTopic, geo, log)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		pub = k

		if cfg.StreamEnabled {
			c, err := stream.NewConsumer(cfg.KafkaBroker, cfg.KafkaStreamTopic, cfg.KafkaGroupID, log)
			if err != nil {
				k.Close()
				return fmt.Errorf("create kafka consumer: %w", err)
			}
			components = append(components, c)
		}
	}

	loader := &model.Loader{
		Schema:   features.TrainingSchema,
		CacheDir: cfg.ModelCacheDir,
		Region:   cfg.AWSRegion,
	}

	// The manager closes pub and every component on all exit paths.
	mgr := lifecycle.New(lifecycle.Config{
		Log:             log,
		ModelPath:       cfg.ModelPath,
		Load:            loader.Load,
		RPCListen:       lifecycle.Listen(cfg.RPCAddr),
		HTTPListen:      lifecycle.Listen(cfg.HTTPAddr),
		RPCWorkers:      cfg.RPCWorkers,
		ShutdownTimeout: cfg.HTTPShutdownTimeout,
		Audit:           pub,
		Components:      components,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("rpc_addr", cfg.RPCAddr).
		Str("http_addr", cfg.HTTPAddr).
		Str("model_path", cfg.ModelPath).
		Bool("kafka", cfg.KafkaEnabled()).
		Msg("Starting fraud inference service")

	return mgr.Run(ctx)
}
