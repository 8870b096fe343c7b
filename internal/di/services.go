// Package di provides dependency injection for services.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/minjicho/jeonseguard/internal/config"
	"github.com/minjicho/jeonseguard/internal/events"
	"github.com/minjicho/jeonseguard/internal/modules/assessment"
	"github.com/minjicho/jeonseguard/internal/modules/model"
	"github.com/minjicho/jeonseguard/internal/modules/stats"
	"github.com/rs/zerolog"
)

// InitializeServices creates the event bus, the predictor and the domain
// services. The predictor is resolved once at startup: a loadable artifact
// wins, otherwise the rule fallback takes over when the model is optional.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.EventBus = events.NewBus(log)

	if err := initializePredictor(container, cfg, log); err != nil {
		return err
	}

	container.Engine = assessment.NewEngine(
		container.Predictor,
		assessment.DefaultRuleConfig(),
		assessment.DefaultComposerConfig(),
		log,
	)

	container.StatsService = stats.NewService(
		container.StatsRepo,
		assessment.DefaultComposerConfig(),
		container.EventBus,
		log,
	)

	log.Info().Str("predictor", container.Predictor.Name()).Msg("Services initialized")

	return nil
}

func initializePredictor(container *Container, cfg *config.Config, log zerolog.Logger) error {
	// Refresh the local artifact from S3 first when configured. A failed
	// download is not fatal as long as a previously downloaded artifact
	// still loads.
	if cfg.ModelS3Bucket != "" && cfg.ModelS3Key != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := model.FetchArtifactFromS3(ctx, cfg.ModelS3Bucket, cfg.ModelS3Key, cfg.ModelPath, log)
		cancel()
		if err != nil {
			log.Warn().Err(err).
				Str("bucket", cfg.ModelS3Bucket).
				Str("key", cfg.ModelS3Key).
				Msg("Model artifact download failed, trying local copy")
		}
	}

	handle, err := model.NewHandle(cfg.ModelPath, log)
	if err != nil {
		if !cfg.ModelOptional {
			return fmt.Errorf("failed to load model artifact %s: %w", cfg.ModelPath, err)
		}

		log.Warn().Err(err).
			Str("path", cfg.ModelPath).
			Msg("Model artifact unavailable, scoring with rule fallback")

		container.Predictor = model.NewFallbackPredictor()
		container.ModelHandle = nil
		return nil
	}

	container.Predictor = handle
	container.ModelHandle = handle
	return nil
}
