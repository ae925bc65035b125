package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

// MockBackend is a mock of the portfolio backend client for testing.
// It is safe for concurrent use, as PortfolioSync calls it from several goroutines.
type MockBackend struct {
	mu sync.Mutex

	// AddErrs makes AddToPortfolio fail for individual tickers.
	AddErrs map[string]error
	// AddHook, when set, runs inside AddToPortfolio before the result is decided.
	// It is called without the mock's lock held.
	AddHook func(req model.CommitRequest)
	AddCalls []model.CommitRequest

	Valuation       model.PortfolioValuation
	History         map[string][]model.PricePoint
	NotificationSet []model.Notification
	Recs            map[model.Strategy][]model.Recommendation
	GenerateCount   int

	// Err, when set, is returned by every read call.
	Err error
}

// NewMockBackend creates a mock where every add succeeds.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		AddErrs:         map[string]error{},
		History:         map[string][]model.PricePoint{},
		Recs:            map[model.Strategy][]model.Recommendation{},
		NotificationSet: []model.Notification{},
		Valuation:       model.PortfolioValuation{Portfolio: []model.Holding{}},
	}
}

// WithAddError makes adds of ticker fail with err.
func (m *MockBackend) WithAddError(ticker string, err error) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddErrs[ticker] = err
	return m
}

// WithRecommendations sets the recommendations returned for strategy.
func (m *MockBackend) WithRecommendations(strategy model.Strategy, recs ...model.Recommendation) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recs[strategy] = recs
	return m
}

// AddToPortfolio records the request and succeeds unless an error is configured.
func (m *MockBackend) AddToPortfolio(_ context.Context, req model.CommitRequest) (string, error) {
	m.mu.Lock()
	hook := m.AddHook
	m.mu.Unlock()
	if hook != nil {
		hook(req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.AddCalls = append(m.AddCalls, req)
	if err := m.AddErrs[req.Ticker]; err != nil {
		return "", err
	}
	return fmt.Sprintf("%d shares of %s added to portfolio at price %s.", req.Shares, req.Ticker, req.ReferencePrice), nil
}

// Calls returns a copy of the recorded add requests.
func (m *MockBackend) Calls() []model.CommitRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CommitRequest(nil), m.AddCalls...)
}

// PortfolioValue returns the configured valuation.
func (m *MockBackend) PortfolioValue(_ context.Context) (model.PortfolioValuation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return model.PortfolioValuation{}, m.Err
	}
	return m.Valuation, nil
}

// StockHistory returns the configured history for ticker, empty when unset.
func (m *MockBackend) StockHistory(_ context.Context, ticker string) ([]model.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]model.PricePoint{}, m.History[ticker]...), nil
}

// Notifications returns the configured notifications.
func (m *MockBackend) Notifications(_ context.Context) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.NotificationSet, nil
}

// GenerateNotifications counts the call.
func (m *MockBackend) GenerateNotifications(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.GenerateCount++
	return "Notifications generated.", nil
}

// Recommendations returns the configured recommendations for strategy.
func (m *MockBackend) Recommendations(_ context.Context, strategy model.Strategy) ([]model.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]model.Recommendation{}, m.Recs[strategy]...), nil
}
