package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-stock-pulse/internal/collector/config"
	delivery "telegram-stock-pulse/internal/collector/delivery/http"
	streamdelivery "telegram-stock-pulse/internal/collector/delivery/stream"
	"telegram-stock-pulse/internal/collector/event"
	"telegram-stock-pulse/internal/collector/ingest"
	"telegram-stock-pulse/internal/collector/registry"
	"telegram-stock-pulse/internal/collector/scorer"
	"telegram-stock-pulse/internal/collector/service"
	"telegram-stock-pulse/internal/collector/stream"
	"telegram-stock-pulse/pkg/logger"
	"telegram-stock-pulse/pkg/redis"
	"telegram-stock-pulse/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the collector service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Collector Service", logger.Field("name", cfg.App.Name))

	// Initialize pipeline components
	reg := registry.New(appLogger)
	transport := telegram.NewTransport(cfg.Telegram.BotToken)
	collector := ingest.New(transport, ingest.Config{
		Channels:             cfg.Telegram.Channels,
		Keywords:             cfg.Telegram.Keywords,
		Stocks:               cfg.Telegram.Stocks,
		EnableSpamFilter:     cfg.Filters.EnableSpamFilter,
		MaxMessagesPerMinute: cfg.Filters.MaxMessagesPerMinute,
	}, appLogger)
	bus := event.NewBus()
	defer bus.Close()
	coordinator := stream.New(reg, collector, scorer.New(nil), bus, appLogger)

	// Initialize optional Redis fan-out
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()

		publisher := streamdelivery.NewPublisher(redisClient.Client, bus, cfg.Redis.StreamMaxLen, appLogger)
		publisher.Start(ctx)
		defer publisher.Stop()
	}

	// Initialize service
	collectorSvc := service.NewCollectorService(cfg, reg, coordinator, bus, appLogger)
	if err := collectorSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start collector service", logger.ErrorField(err))
	}
	defer collectorSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	collectorHandler := delivery.NewCollectorHandler(collectorSvc, appLogger)
	collectorHandler.RegisterRoutes(apiV1)

	channelHandler := delivery.NewChannelHandler(reg, appLogger)
	channelsGroup := apiV1.Group("/channels")
	channelHandler.RegisterRoutes(channelsGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "collector-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-collector.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing collector-service CLI: %s\n", err)
		os.Exit(1)
	}
}
