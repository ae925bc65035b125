package model

import "github.com/shopspring/decimal"

// Holding is one position as valued by the backend.
// Price fields are optional: a missing quote stays distinguishable from a zero price.
type Holding struct {
	Ticker                string              `json:"ticker"`
	Shares                decimal.Decimal     `json:"shares"`
	CurrentPrice          decimal.NullDecimal `json:"current_price"`
	PreviousClose         decimal.NullDecimal `json:"previous_close"`
	DailyChange           decimal.NullDecimal `json:"daily_change"`
	DailyChangePercentage decimal.NullDecimal `json:"daily_change_percentage"`
	Value                 decimal.NullDecimal `json:"value"`
}

// PortfolioValuation is the backend's valuation of the user's portfolio.
type PortfolioValuation struct {
	Portfolio  []Holding       `json:"portfolio"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Allocation is the share of the portfolio value held in one ticker.
// Weight is a percentage rounded to two decimal places.
type Allocation struct {
	Ticker string          `json:"ticker"`
	Value  decimal.Decimal `json:"value"`
	Weight decimal.Decimal `json:"weight"`
}

// PortfolioOverview is the dashboard view: holdings, total and distribution.
type PortfolioOverview struct {
	Holdings     []Holding       `json:"holdings"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	Allocations  []Allocation    `json:"allocations"`
	UnpricedRows []string        `json:"unpriced,omitempty"` // Tickers the backend returned without a value
}
