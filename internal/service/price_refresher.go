package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PriceResolver resolves the latest price of a ticker. Implemented by *PriceLookup.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}

// PriceRefresher periodically re-resolves the price of every catalog ticker,
// so the selection's total cost follows the latest known prices.
// A ticker whose price cannot be resolved keeps its previous price.
type PriceRefresher struct {
	store         *SelectionStore
	prices        PriceResolver
	maxConcurrent int
	timeout       time.Duration
	logger        *zap.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewPriceRefresher creates a PriceRefresher. timeout bounds each scheduled
// run; 0 means no bound.
func NewPriceRefresher(store *SelectionStore, prices PriceResolver, maxConcurrent int, timeout time.Duration, logger *zap.Logger) *PriceRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceRefresher{
		store:         store,
		prices:        prices,
		maxConcurrent: maxConcurrent,
		timeout:       timeout,
		logger:        logger,
	}
}

// Start schedules Refresh with a cron spec such as "@every 1h" or "0 * * * *".
// Calling Start on a running refresher replaces its schedule.
func (r *PriceRefresher) Start(schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cron.New()
	if _, err := c.AddFunc(schedule, r.run); err != nil {
		return err
	}
	if r.cron != nil {
		r.cron.Stop()
	}
	r.cron = c
	c.Start()
	r.logger.Info("price refresher started", zap.String("schedule", schedule))
	return nil
}

// Stop cancels the schedule and waits for a running refresh to finish.
func (r *PriceRefresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (r *PriceRefresher) run() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	result := r.Refresh(ctx)
	r.logger.Info("prices refreshed", zap.Int("updated", len(result.Updated)), zap.Int("failed", len(result.Failed)))
}

// Refresh resolves every catalog ticker once and applies the new prices.
// Tickers are resolved concurrently and independently. Prices resolved for a
// catalog that was replaced during the run are discarded.
func (r *PriceRefresher) Refresh(ctx context.Context) RefreshResult {
	result := RefreshResult{Updated: []string{}, Failed: map[string]string{}}

	var mu sync.Mutex
	var g errgroup.Group
	if r.maxConcurrent > 0 {
		g.SetLimit(r.maxConcurrent)
	}

	snap := r.store.Snapshot()
	for _, entry := range snap.Catalog {
		g.Go(func() error {
			price, err := r.prices.ResolvePrice(ctx, entry.Ticker)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[entry.Ticker] = err.Error()
				r.logger.Warn("keeping previous price", zap.String("ticker", entry.Ticker), zap.Error(err))
				return nil
			}
			if r.store.UpdatePrice(snap.Generation, entry.Ticker, price) {
				result.Updated = append(result.Updated, entry.Ticker)
			} else {
				r.logger.Debug("discarding price for a replaced catalog", zap.String("ticker", entry.Ticker))
			}
			return nil
		})
	}
	_ = g.Wait()
	return result
}
