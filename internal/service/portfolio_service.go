package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/validation"
)

// PortfolioReader reads the user's portfolio from the backend.
// Implemented by *backend.Client.
type PortfolioReader interface {
	PortfolioValue(ctx context.Context) (model.PortfolioValuation, error)
	StockHistory(ctx context.Context, ticker string) ([]model.PricePoint, error)
	Notifications(ctx context.Context) ([]model.Notification, error)
	GenerateNotifications(ctx context.Context) (string, error)
}

// PortfolioService builds the dashboard views over the backend portfolio.
type PortfolioService struct {
	reader PortfolioReader
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(reader PortfolioReader) *PortfolioService {
	return &PortfolioService{
		reader: reader,
	}
}

var hundred = decimal.NewFromInt(100)

// Overview returns the holdings with their allocation over the portfolio.
//
// Weights are percentages of the summed value of the valued holdings, rounded
// to two decimals. Holdings the backend returned without a value are listed in
// UnpricedRows and carry no allocation, instead of being counted as zero.
func (s *PortfolioService) Overview(ctx context.Context) (model.PortfolioOverview, error) {
	valuation, err := s.reader.PortfolioValue(ctx)
	if err != nil {
		return model.PortfolioOverview{}, err
	}

	overview := model.PortfolioOverview{
		Holdings:    valuation.Portfolio,
		TotalValue:  valuation.TotalValue,
		Allocations: []model.Allocation{},
	}
	if overview.Holdings == nil {
		overview.Holdings = []model.Holding{}
	}

	valued := decimal.Zero
	for _, h := range overview.Holdings {
		if h.Value.Valid {
			valued = valued.Add(h.Value.Decimal)
		} else {
			overview.UnpricedRows = append(overview.UnpricedRows, h.Ticker)
		}
	}

	for _, h := range overview.Holdings {
		if !h.Value.Valid {
			continue
		}
		weight := decimal.Zero
		if valued.IsPositive() {
			weight = h.Value.Decimal.Div(valued).Mul(hundred).Round(2)
		}
		overview.Allocations = append(overview.Allocations, model.Allocation{
			Ticker: h.Ticker,
			Value:  h.Value.Decimal,
			Weight: weight,
		})
	}
	return overview, nil
}

// History returns the backend's stored price history for ticker.
func (s *PortfolioService) History(ctx context.Context, ticker string) ([]model.PricePoint, error) {
	if err := validation.ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	return s.reader.StockHistory(ctx, ticker)
}

// Notifications returns the backend's notifications for the user.
func (s *PortfolioService) Notifications(ctx context.Context) ([]model.Notification, error) {
	notifications, err := s.reader.Notifications(ctx)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return notifications, nil
}

// GenerateNotifications asks the backend to scan the portfolio for new alerts.
func (s *PortfolioService) GenerateNotifications(ctx context.Context) (string, error) {
	return s.reader.GenerateNotifications(ctx)
}
