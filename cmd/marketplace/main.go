package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/propsignal/leadmarket/internal/config"
	"github.com/propsignal/leadmarket/internal/handlers"
	"github.com/propsignal/leadmarket/internal/janitor"
	"github.com/propsignal/leadmarket/internal/logger"
	"github.com/propsignal/leadmarket/internal/marketplace"
	"github.com/propsignal/leadmarket/internal/middleware"
	"github.com/propsignal/leadmarket/internal/notify"
	"github.com/propsignal/leadmarket/internal/payments"
	"github.com/propsignal/leadmarket/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second

	// notifyBuffer bounds the queue of pending investor notifications;
	// overflow is dropped rather than blocking lead processing.
	notifyBuffer = 256
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting marketplace service", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Wire the marketplace pipeline
	st := store.New()
	processor := payments.NewStripeProcessor(cfg.Stripe.APIKey)

	queue := notify.NewQueue(notifyBuffer, notify.NewLogDeliverer(log), log)
	queue.Start(context.Background())
	defer queue.Close()

	service := marketplace.NewService(st, processor, queue, cfg.Pipeline, log)

	// Start the expired-listing sweeper
	if cfg.Janitor.Enabled {
		sweeper := janitor.New(st, log)
		if err := sweeper.Start(cfg.Janitor.Schedule); err != nil {
			log.Fatal("Failed to start janitor", err, map[string]interface{}{
				"schedule": cfg.Janitor.Schedule,
			})
		}
		defer sweeper.Stop()
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> Policy
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.PolicyHeader())

	healthHandler := handlers.NewHealthHandler(cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/info", healthHandler.Info)

	marketplaceHandler := handlers.NewMarketplaceHandler(service)
	router.POST("/register-investor", marketplaceHandler.RegisterInvestor)
	router.POST("/process-overflow-lead", marketplaceHandler.ProcessOverflowLead)
	router.GET("/marketplace", marketplaceHandler.Marketplace)
	router.POST("/purchase-lead", marketplaceHandler.PurchaseLead)
	router.GET("/revenue-dashboard", marketplaceHandler.RevenueDashboard)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
