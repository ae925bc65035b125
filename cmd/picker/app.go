package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/alphavantage"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/backend"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/config"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/database"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/logging"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/repository"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

// app holds the clients every command is built from.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *backend.Client
	market  *alphavantage.FinanceClient
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		backend: backend.NewClient(cfg.Backend.URL, cfg.Backend.Token, cfg.Backend.Timeout),
		market:  alphavantage.NewFinanceClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, cfg.MarketData.Timeout),
	}, nil
}

func (rt *app) priceLookup() *service.PriceLookup {
	return service.NewPriceLookup(rt.market, nil, rt.logger)
}

// openJournal opens and migrates the commit journal database.
func (rt *app) openJournal() (*sql.DB, *repository.CommitRepository, error) {
	if err := os.MkdirAll(filepath.Dir(rt.cfg.Database.Path), 0o755); err != nil {
		return nil, nil, err
	}
	db, err := database.Open(rt.cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repository.NewCommitRepository(db), nil
}

func (rt *app) close() {
	_ = rt.logger.Sync()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
