// Package main is the entry point for the ArenaX sports API server.
//
// main stays minimal: load configuration, build the logger, create the
// server and run it. Everything else lives in internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arenax/arenax-api/internal/config"
	"github.com/arenax/arenax-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	// The derived refresh secret keeps tokens verifiable across restarts
	// but is not independent of the access secret. Configure
	// JWT_REFRESH_SECRET to remove the weakness.
	if cfg.RefreshSecretDerived {
		logger.Warn("JWT_REFRESH_SECRET not set — refresh secret derived from JWT_SECRET; " +
			"set an independent secret in production")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
