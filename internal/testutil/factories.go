package testutil

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

// CatalogEntryBuilder provides a fluent interface for creating catalog entries.
//
// Example usage:
//
//	entry := testutil.NewCatalogEntry("AAPL").WithPrice("150.00").Build()
type CatalogEntryBuilder struct {
	entry model.CatalogEntry
}

// NewCatalogEntry creates a builder with a $100 default price.
func NewCatalogEntry(ticker string) *CatalogEntryBuilder {
	return &CatalogEntryBuilder{entry: model.CatalogEntry{
		Ticker:       ticker,
		DisplayName:  ticker + " Inc.",
		CurrentPrice: decimal.NewFromInt(100),
		Currency:     "USD",
	}}
}

// WithPrice sets the price from a decimal string; it panics on malformed input.
func (b *CatalogEntryBuilder) WithPrice(price string) *CatalogEntryBuilder {
	b.entry.CurrentPrice = decimal.RequireFromString(price)
	return b
}

// WithName sets the display name.
func (b *CatalogEntryBuilder) WithName(name string) *CatalogEntryBuilder {
	b.entry.DisplayName = name
	return b
}

// WithReason marks the entry as recommended.
func (b *CatalogEntryBuilder) WithReason(reason string) *CatalogEntryBuilder {
	b.entry.Reason = reason
	return b
}

// Build returns the entry.
func (b *CatalogEntryBuilder) Build() model.CatalogEntry {
	return b.entry
}

// Catalog builds entries from ticker/price pairs.
//
// Example usage:
//
//	catalog := testutil.Catalog("AAPL", "150.00", "MSFT", "400.10")
func Catalog(tickerPrices ...string) []model.CatalogEntry {
	entries := make([]model.CatalogEntry, 0, len(tickerPrices)/2)
	for i := 0; i+1 < len(tickerPrices); i += 2 {
		entries = append(entries, NewCatalogEntry(tickerPrices[i]).WithPrice(tickerPrices[i+1]).Build())
	}
	return entries
}

// Recommendation creates a recommendation with the given price.
func Recommendation(ticker, price, reason string) model.Recommendation {
	return model.Recommendation{
		Ticker:       ticker,
		Reason:       reason,
		CurrentPrice: decimal.RequireFromString(price),
	}
}

// Dec parses a decimal string; it panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
