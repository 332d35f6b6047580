package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-bridge/config"
	"checkout-bridge/internal/adapter/gateway"
	httpHandler "checkout-bridge/internal/adapter/http/handler"
	"checkout-bridge/internal/adapter/mail"
	memoryStorage "checkout-bridge/internal/adapter/storage/memory"
	redisStorage "checkout-bridge/internal/adapter/storage/redis"
	"checkout-bridge/internal/core/ports"
	"checkout-bridge/internal/service"
	"checkout-bridge/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	// Refuse to start on missing credentials, before binding any listener.
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		os.Exit(1)
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Checkout Bridge")

	ctx := context.Background()

	// Payment gateway client
	gw := gateway.New(cfg.Gateway, cfg.URLs, &http.Client{Timeout: cfg.Gateway.Timeout}, log)

	// Mail notifier
	notifier := mail.New(cfg.Mail, log)

	// Dedup store: Redis when configured, in-process otherwise
	var dedup ports.DedupStore
	if cfg.Redis.Enabled() {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		dedup = redisStorage.NewDedupStore(rdb, cfg.Redis.ClaimTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis dedup store connected")
	} else {
		dedup = memoryStorage.NewDedupStore()
		log.Info().Msg("In-process dedup store selected, claims do not survive restarts")
	}

	// Webhook pipeline
	resolver := service.NewOrderResolver(gw, log)
	emails := service.NewEmailComposer(cfg.Gateway.Currency)
	dispatcher := service.NewDispatcher(resolver, dedup, notifier, emails, cfg.Mail.Admin, cfg.Webhook.DispatchTimeout, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Gateway:       gw,
		Dispatcher:    dispatcher,
		WebhookSecret: cfg.Webhook.Secret,
		Logger:        log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
