// Command devbackend serves the food ordering REST API locally, seeded with
// demo restaurants and users.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/food_client/internal/backend"
	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/pkg/config"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "devbackend")
	if err := cfg.ValidateDevBackend(); err != nil {
		logger.Error("config_error", "error", err)
		os.Exit(1)
	}
	ctx := logging.IntoContext(context.Background(), logger)

	pub, err := events.FromConfig(cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		logger.Error("events_init_error", "error", err)
		os.Exit(1)
	}

	srvBackend, err := backend.New(ctx, backend.Options{
		DatabaseURL:    cfg.DatabaseURL,
		SQLitePath:     cfg.DevSQLitePath,
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Events:         pub,
		Logger:         logger,
		Seed:           true,
	})
	if err != nil {
		logger.Error("backend_init_error", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.DevAddr,
		Handler:      srvBackend.Echo,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", cfg.DevAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := srvBackend.Close(); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("events_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
