// Package main is the entry point for the JeonseGuard risk assessment service.
// The service scores jeonse contracts for deposit default risk, computes HUG
// guarantee insurance eligibility, and maintains regional risk statistics.
//
// Startup sequence:
// 1. Load configuration from environment variables (.env supported)
// 2. Initialize structured logging
// 3. Wire dependencies (databases, repositories, model, services, jobs)
// 4. Register scheduled jobs and start the scheduler
// 5. Start the HTTP server
// 6. Wait for SIGINT/SIGTERM and shut down gracefully
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minjicho/jeonseguard/internal/config"
	"github.com/minjicho/jeonseguard/internal/di"
	"github.com/minjicho/jeonseguard/internal/scheduler"
	"github.com/minjicho/jeonseguard/internal/server"
	"github.com/minjicho/jeonseguard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting JeonseGuard")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	// Scheduled background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.StatsRefreshSchedule, jobs.StatsRefresh); err != nil {
		log.Fatal().Err(err).Msg("Failed to register stats refresh job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
