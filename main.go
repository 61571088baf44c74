package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"reservation-system/api"
	"reservation-system/config"
	"reservation-system/database"
	"reservation-system/logbuffer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Recent logs stay queryable through GET /api/logs.
	logs := logbuffer.New(100)
	logger := slog.New(logbuffer.Tee{
		slog.NewTextHandler(os.Stderr, nil),
		logs,
	})
	slog.SetDefault(logger)

	logger.Info("starting reservation service", "dsn", cfg.SQLiteDSN)

	db, err := database.Connect(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Init(context.Background(), db, logger); err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	service := api.NewAPI(db, api.Options{
		Logger:            logger,
		Logs:              logs,
		CORSOrigin:        cfg.CORSOrigin,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})
	service.RegisterRoutes()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("server listening", "addr", addr)
	if err := http.ListenAndServe(addr, service.Handler()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
