package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/alphavantage"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/validation"
)

// quoteTimeout bounds one shared GLOBAL_QUOTE call.
const quoteTimeout = 30 * time.Second

// SymbolCache stores symbol search matches between requests.
// Implemented by *cache.Cache.
type SymbolCache interface {
	Get(key string) (any, bool)
	Set(key string, val any)
}

// PriceLookup resolves tickers, prices and recent closes through the
// market-data provider. It holds no state between calls beyond the optional
// search cache.
type PriceLookup struct {
	client alphavantage.Client
	cache  SymbolCache
	quotes singleflight.Group
	logger *zap.Logger
}

// NewPriceLookup creates a PriceLookup. cache may be nil.
func NewPriceLookup(client alphavantage.Client, cache SymbolCache, logger *zap.Logger) *PriceLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceLookup{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Search looks up ticker and returns its best match as a priced catalog entry.
//
// The ticker must be 1-5 uppercase letters; anything else fails with
// apperrors.ErrInvalidTicker before the provider is called. A ticker the
// provider does not know returns found == false and a nil error. When a match
// exists but its price cannot be resolved, the error wraps
// apperrors.ErrPriceUnavailable; no zero-priced entry is ever returned.
func (p *PriceLookup) Search(ctx context.Context, ticker string) (model.CatalogEntry, bool, error) {
	if err := validation.ValidateTicker(ticker); err != nil {
		return model.CatalogEntry{}, false, err
	}

	match, found, err := p.bestMatch(ctx, ticker)
	if err != nil || !found {
		return model.CatalogEntry{}, false, err
	}

	price, err := p.ResolvePrice(ctx, match.Symbol)
	if err != nil {
		return model.CatalogEntry{}, false, err
	}

	return model.CatalogEntry{
		Ticker:       match.Symbol,
		DisplayName:  match.Name,
		CurrentPrice: price,
		Region:       match.Region,
		Currency:     match.Currency,
	}, true, nil
}

func (p *PriceLookup) bestMatch(ctx context.Context, ticker string) (alphavantage.SymbolMatch, bool, error) {
	key := "search:" + ticker
	if p.cache != nil {
		if v, ok := p.cache.Get(key); ok {
			if match, ok := v.(alphavantage.SymbolMatch); ok {
				return match, true, nil
			}
		}
	}

	response, err := p.client.SymbolSearch(ctx, ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			return alphavantage.SymbolMatch{}, false, nil
		}
		return alphavantage.SymbolMatch{}, false, err
	}
	if len(response.BestMatches) == 0 {
		return alphavantage.SymbolMatch{}, false, nil
	}

	match := response.BestMatches[0]
	if p.cache != nil {
		p.cache.Set(key, match)
	}
	return match, true, nil
}

// ResolvePrice fetches the latest price for ticker, rounded to cents.
//
// Any provider or parse failure is returned wrapping
// apperrors.ErrPriceUnavailable, together with the underlying cause, so a
// missing price is never mistaken for a zero price. A quote that rounds to
// zero is unavailable too.
//
// Concurrent lookups of the same ticker share one provider call. The shared
// call is detached from any single caller's cancellation and bounded by
// quoteTimeout instead; a caller whose ctx ends stops waiting on its own.
func (p *PriceLookup) ResolvePrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err := validation.ValidateSymbol(ticker); err != nil {
		return decimal.Decimal{}, err
	}

	shared := context.WithoutCancel(ctx)
	ch := p.quotes.DoChan(ticker, func() (any, error) {
		qctx, cancel := context.WithTimeout(shared, quoteTimeout)
		defer cancel()

		response, err := p.client.QueryGlobalQuote(qctx, ticker)
		if err != nil {
			return nil, err
		}
		quote, err := alphavantage.ParseQuote(response)
		if err != nil {
			return nil, err
		}
		price := quote.Price.Round(2)
		if !price.IsPositive() {
			return nil, fmt.Errorf("quote %s rounds to %s", quote.Price, price)
		}
		return price, nil
	})

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(decimal.Decimal), nil
		}
		err = res.Err
	}
	p.logger.Warn("price unavailable", zap.String("ticker", ticker), zap.Error(err))
	return decimal.Decimal{}, fmt.Errorf("%w: %s: %w", apperrors.ErrPriceUnavailable, ticker, err)
}

// FetchRecentSeries returns at most days of the most recent daily closes for
// ticker, oldest first. A ticker without data yields an empty series, not an
// error, and a short series is returned as-is rather than padded.
func (p *PriceLookup) FetchRecentSeries(ctx context.Context, ticker string, days int) ([]model.PricePoint, error) {
	if err := validation.ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	if days <= 0 {
		return []model.PricePoint{}, nil
	}

	response, err := p.client.QueryDailySeries(ctx, ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			return []model.PricePoint{}, nil
		}
		return nil, err
	}

	bars, err := alphavantage.ParseDailySeries(response)
	if err != nil {
		return nil, err
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, bar := range bars {
		points = append(points, model.PricePoint{Date: bar.Date, Close: bar.Close})
	}
	return points, nil
}
