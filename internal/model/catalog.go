package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogEntry is a stock known to the picker together with its resolved price.
// Entries are values: a price refresh replaces the entry rather than mutating it.
type CatalogEntry struct {
	Ticker       string          `json:"ticker"`
	DisplayName  string          `json:"displayName"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Region       string          `json:"region,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	Reason       string          `json:"reason,omitempty"` // Set for entries sourced from recommendations
}

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// FindCatalogEntry returns the first entry in catalog matching ticker.
func FindCatalogEntry(catalog []CatalogEntry, ticker string) (CatalogEntry, bool) {
	for _, e := range catalog {
		if e.Ticker == ticker {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
