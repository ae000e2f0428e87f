package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitness-insights-go/internal/config"
	"fitness-insights-go/internal/extraction"
	"fitness-insights-go/internal/gateway"
	"fitness-insights-go/internal/handlers"
	"fitness-insights-go/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)
	log.WithField("service", "fitness-insights-go").Info("starting service")
	if cfg.GatewayAPIKey == "" {
		log.Warn("AI_GATEWAY_API_KEY not set, AI endpoints will answer 500")
	}

	gw := gateway.NewClient(gateway.Config{
		URL:        cfg.GatewayURL,
		APIKey:     cfg.GatewayAPIKey,
		Model:      cfg.Model,
		Timeout:    cfg.GatewayTimeout,
		MaxRetries: cfg.GatewayMaxRetries,
	}, log)
	svc := extraction.NewService(gw, log)
	router := handlers.NewRouter(handlers.NewHTTPHandler(svc, log), log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GatewayTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", addr).WithField("model", cfg.Model).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
