package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alarmclock/config"
	"alarmclock/database"
	"alarmclock/logger"
	"alarmclock/services"
)

func main() {
	// Load configuration
	cfg := config.GetConfig()
	if err := config.LoadError(); err != nil {
		logger.Error("Failed to load configuration", "path", config.Path(), "error", err)
		os.Exit(1)
	}

	if err := logger.Configure(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		logger.Error("Failed to configure logger", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "path", config.Path(), "error", err)
		os.Exit(1)
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Error("Failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.ShouldSeed() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.SeedAlarms(ctx); err != nil {
			logger.Error("Failed to seed alarms", "error", err)
		}
		cancel()
	}

	app := NewApp(cfg, defaultRoutes(cfg))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Error shutting down", "error", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("Starting alarm clock", "addr", addr, "driver", cfg.DatabaseDriver, "production", cfg.Production)
	if err := app.Listen(addr); err != nil {
		logger.Error("Failed to start server", "error", err)
		services.FlushEvents()
		os.Exit(1)
	}

	services.FlushEvents()
}
