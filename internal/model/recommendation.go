package model

import "github.com/shopspring/decimal"

// Strategy selects the backend's recommendation generator.
type Strategy string

const (
	StrategyGrowth           Strategy = "growth"
	StrategyDividend         Strategy = "dividend"
	StrategyRiskMinimization Strategy = "risk_minimization"
)

// Strategies lists the supported strategies in display order.
var Strategies = []Strategy{StrategyGrowth, StrategyDividend, StrategyRiskMinimization}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

// Recommendation is a stock suggested by the backend for a strategy.
type Recommendation struct {
	Ticker       string          `json:"ticker"`
	Reason       string          `json:"reason"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

// CatalogEntry converts the recommendation into a catalog entry.
func (r Recommendation) CatalogEntry() CatalogEntry {
	return CatalogEntry{
		Ticker:       r.Ticker,
		DisplayName:  r.Ticker,
		CurrentPrice: r.CurrentPrice,
		Reason:       r.Reason,
	}
}
