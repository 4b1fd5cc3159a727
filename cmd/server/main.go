// cmd/server is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"eventbook/internal/config"
	"eventbook/internal/database"
	"eventbook/internal/handler"
	"eventbook/internal/repository"
	"eventbook/internal/service"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)

	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	if err := database.InitSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("initialize schema")
	}
	logger.Info().Msg("connected to postgres")

	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	eventSvc := service.NewEventService(eventRepo, bookingRepo)
	bookingSvc := service.NewBookingService(eventRepo, bookingRepo)
	eventHandler := handler.NewEventHandler(eventSvc, bookingSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)

	r := handler.NewRouter(logger, eventHandler, bookingHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in a background goroutine so we can listen for the shutdown signal.
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
