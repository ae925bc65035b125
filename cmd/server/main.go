package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/alphavantage"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/backend"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/cache"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/config"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/database"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/logging"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/repository"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

const symbolCacheSize = 1000

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.MarketData.APIKey == "" {
		logger.Warn("ALPHAVANTAGE_API_KEY is not set; market-data requests will be rejected")
	}

	// Open and migrate the commit journal
	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("Failed to create database directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("path", cfg.Database.Path))

	// Create clients
	backendClient := backend.NewClient(cfg.Backend.URL, cfg.Backend.Token, cfg.Backend.Timeout)
	marketClient := alphavantage.NewFinanceClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, cfg.MarketData.Timeout)

	symbolCache, err := cache.New(symbolCacheSize, cfg.MarketData.SearchCacheTTL)
	if err != nil {
		logger.Fatal("Failed to create symbol cache", zap.Error(err))
	}
	defer symbolCache.Close()

	// Create services
	store := service.NewSelectionStore()
	priceLookup := service.NewPriceLookup(marketClient, symbolCache, logger.Named("lookup"))
	portfolioSync := service.NewPortfolioSync(
		backendClient,
		repository.NewCommitRepository(db),
		cfg.Sync.MaxConcurrent,
		logger.Named("sync"),
	)
	services := api.Services{
		System:          service.NewSystemService(db),
		Store:           store,
		PortfolioSync:   portfolioSync,
		PriceLookup:     priceLookup,
		Recommendations: service.NewRecommendationService(backendClient, store, logger.Named("recommendations")),
		Portfolio:       service.NewPortfolioService(backendClient),
	}

	refresher := service.NewPriceRefresher(store, priceLookup, cfg.Sync.MaxConcurrent, cfg.Refresh.Timeout, logger.Named("refresh"))
	if cfg.Refresh.Enabled {
		if err := refresher.Start(cfg.Refresh.Schedule); err != nil {
			logger.Fatal("Invalid price refresh schedule", zap.String("schedule", cfg.Refresh.Schedule), zap.Error(err))
		}
		defer refresher.Stop()
	}

	// Create router
	router := api.NewRouter(services, cfg, logger.Named("http"))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // a commit waits for every per-ticker add
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("Server exited")
}
