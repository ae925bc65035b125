package testutil

import (
	"database/sql"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/repository"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

// NewTestLogger returns a logger that writes through t.Log.
func NewTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
}

// NewTestPortfolioSync creates a PortfolioSync journaling into db.
// A nil db disables journaling.
func NewTestPortfolioSync(t *testing.T, db *sql.DB, backend service.PortfolioBackend) *service.PortfolioSync {
	t.Helper()
	if db == nil {
		return service.NewPortfolioSync(backend, nil, 0, NewTestLogger(t))
	}
	return service.NewPortfolioSync(backend, repository.NewCommitRepository(db), 0, NewTestLogger(t))
}

// NewTestPriceLookup creates an uncached PriceLookup over market.
func NewTestPriceLookup(t *testing.T, market *MockMarketData) *service.PriceLookup {
	t.Helper()
	return service.NewPriceLookup(market, nil, NewTestLogger(t))
}

// NewTestStore creates a SelectionStore holding catalog.
func NewTestStore(t *testing.T, catalog ...string) *service.SelectionStore {
	t.Helper()
	store := service.NewSelectionStore()
	store.ReplaceCatalog(Catalog(catalog...))
	return store
}
