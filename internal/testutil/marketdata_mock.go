package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/alphavantage"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
)

// MockMarketData is a mock implementation of alphavantage.Client for testing.
// It returns predefined responses per symbol instead of making API calls.
// Unknown symbols get an empty search result, an empty quote and a
// "symbol not found" series, mirroring the real provider.
type MockMarketData struct {
	mu sync.Mutex

	Matches map[string][]alphavantage.SymbolMatch
	Quotes  map[string]alphavantage.RawQuote
	Series  map[string]map[string]alphavantage.RawDaily

	// Err, when set, is returned by every call.
	Err error
	// QuoteErrs overrides the quote call for individual symbols.
	QuoteErrs map[string]error
	// QuoteHook, when set, runs at the start of every quote call without the
	// mock's lock held. A quote call whose context is done afterwards fails
	// with the context error.
	QuoteHook func(symbol string)

	SearchCount int
	QuoteCount  int
	SeriesCount int
}

// NewMockMarketData creates an empty mock.
func NewMockMarketData() *MockMarketData {
	return &MockMarketData{
		Matches:   map[string][]alphavantage.SymbolMatch{},
		Quotes:    map[string]alphavantage.RawQuote{},
		Series:    map[string]map[string]alphavantage.RawDaily{},
		QuoteErrs: map[string]error{},
	}
}

// WithStock registers a searchable symbol with a name and a price.
func (m *MockMarketData) WithStock(symbol, name, price string) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Matches[symbol] = []alphavantage.SymbolMatch{{
		Symbol:   symbol,
		Name:     name,
		Type:     "Equity",
		Region:   "United States",
		Currency: "USD",
	}}
	m.Quotes[symbol] = alphavantage.RawQuote{Symbol: symbol, Price: price}
	return m
}

// WithQuote sets only the quote for symbol.
func (m *MockMarketData) WithQuote(symbol, price string) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Quotes[symbol] = alphavantage.RawQuote{Symbol: symbol, Price: price}
	return m
}

// WithQuoteError makes the quote call for symbol fail with err.
func (m *MockMarketData) WithQuoteError(symbol string, err error) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuoteErrs[symbol] = err
	return m
}

// WithSeries registers closes for consecutive days ending at last.
// closes are given oldest first.
func (m *MockMarketData) WithSeries(symbol string, last time.Time, closes ...string) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()

	series := map[string]alphavantage.RawDaily{}
	for i, c := range closes {
		day := last.AddDate(0, 0, i-len(closes)+1)
		series[day.Format("2006-01-02")] = alphavantage.RawDaily{Open: c, High: c, Low: c, Close: c, Volume: "1000"}
	}
	m.Series[symbol] = series
	return m
}

// WithError configures the mock to fail every call with err.
func (m *MockMarketData) WithError(err error) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
	return m
}

// SymbolSearch mocks SYMBOL_SEARCH.
func (m *MockMarketData) SymbolSearch(_ context.Context, keywords string) (alphavantage.SymbolSearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SearchCount++
	if m.Err != nil {
		return alphavantage.SymbolSearchResponse{}, m.Err
	}
	return alphavantage.SymbolSearchResponse{BestMatches: m.Matches[keywords]}, nil
}

// QueryGlobalQuote mocks GLOBAL_QUOTE.
func (m *MockMarketData) QueryGlobalQuote(ctx context.Context, symbol string) (alphavantage.GlobalQuoteResponse, error) {
	m.mu.Lock()
	hook := m.QuoteHook
	m.mu.Unlock()
	if hook != nil {
		hook(symbol)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuoteCount++
	if err := ctx.Err(); err != nil {
		return alphavantage.GlobalQuoteResponse{}, err
	}
	if m.Err != nil {
		return alphavantage.GlobalQuoteResponse{}, m.Err
	}
	if err := m.QuoteErrs[symbol]; err != nil {
		return alphavantage.GlobalQuoteResponse{}, err
	}
	return alphavantage.GlobalQuoteResponse{GlobalQuote: m.Quotes[symbol]}, nil
}

// QueryDailySeries mocks TIME_SERIES_DAILY.
func (m *MockMarketData) QueryDailySeries(_ context.Context, symbol string) (alphavantage.TimeSeriesDailyResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SeriesCount++
	if m.Err != nil {
		return alphavantage.TimeSeriesDailyResponse{}, m.Err
	}
	series, ok := m.Series[symbol]
	if !ok {
		return alphavantage.TimeSeriesDailyResponse{}, apperrors.ErrSymbolNotFound
	}
	return alphavantage.TimeSeriesDailyResponse{TimeSeries: series}, nil
}

// Counts returns the call counters under the lock.
func (m *MockMarketData) Counts() (search, quote, series int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SearchCount, m.QuoteCount, m.SeriesCount
}
