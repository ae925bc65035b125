package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/validation"
)

// SelectionStore holds the ordered catalog of priced stocks and the user's
// sparse ticker → shares selection over it.
//
// The total cost is recomputed on every mutation, including catalog price
// changes, so it always reflects the prices known at computation time rather
// than the prices at selection time. Share counts are never negative: invalid
// input is stored as 0 instead of being reported.
//
// SelectionStore is safe for concurrent use. HTTP handlers and the price
// refresher mutate it from separate goroutines; the mutex serializes them.
type SelectionStore struct {
	mu         sync.RWMutex
	catalog    []model.CatalogEntry
	generation uint64
	selection  model.Selection
	totalCost  decimal.Decimal
}

// SelectionSnapshot is a consistent, independent copy of the store state.
// Generation identifies the catalog the snapshot was taken from.
type SelectionSnapshot struct {
	Catalog    []model.CatalogEntry
	Generation uint64
	Selection  model.Selection
	TotalCost  decimal.Decimal
}

// NewSelectionStore creates an empty store.
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{
		catalog:   []model.CatalogEntry{},
		selection: model.Selection{},
		totalCost: decimal.Zero,
	}
}

// ReplaceCatalog swaps in a new catalog and resets the selection, as loading a
// fresh recommendation list does. Duplicate tickers keep their first entry.
func (s *SelectionStore) ReplaceCatalog(entries []model.CatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = dedupeCatalog(entries)
	s.generation++
	s.selection = model.Selection{}
	s.recompute()
}

// UpsertCatalogEntry adds entry to the end of the catalog, or replaces the
// existing entry for the same ticker in place. The selection is kept.
func (s *SelectionStore) UpsertCatalogEntry(entry model.CatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	for i := range s.catalog {
		if s.catalog[i].Ticker == entry.Ticker {
			s.catalog[i] = entry
			s.recompute()
			return
		}
	}
	s.catalog = append(s.catalog, entry)
	s.recompute()
}

// UpdatePrice sets the price of a catalog ticker, provided the catalog is
// still the one of the given generation (see Snapshot). Returns false when
// the catalog has been replaced or upserted since, or the ticker is not in it.
func (s *SelectionStore) UpdatePrice(generation uint64, ticker string, price decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}
	for i := range s.catalog {
		if s.catalog[i].Ticker == ticker {
			s.catalog[i].CurrentPrice = price
			s.recompute()
			return true
		}
	}
	return false
}

// Catalog returns a copy of the catalog in insertion order.
func (s *SelectionStore) Catalog() []model.CatalogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CatalogEntry{}, s.catalog...)
}

// SetShares parses raw as a non-negative base-10 integer and stores it for
// ticker. Input that does not parse, or parses negative, is stored as 0.
func (s *SelectionStore) SetShares(ticker, raw string) {
	s.SetShareCount(ticker, validation.ParseShareCount(raw))
}

// SetShareCount stores n shares for ticker, clamped at 0.
// Tickers outside the catalog are accepted; they contribute nothing to the
// total cost and fail with an unknown-ticker error at commit time.
func (s *SelectionStore) SetShareCount(ticker string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection[ticker] = validation.NormalizeShareCount(n)
	s.recompute()
}

// IncrementShares adds delta to the current count for ticker, floored at 0.
func (s *SelectionStore) IncrementShares(ticker string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection[ticker] = validation.NormalizeShareCount(s.selection[ticker] + delta)
	s.recompute()
}

// TotalCost returns the sum of price × shares over catalog tickers with a
// positive share count. It is 0 for an empty selection.
func (s *SelectionStore) TotalCost() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalCost
}

// Clear empties the selection and resets the total cost to 0.
// The catalog is kept.
func (s *SelectionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = model.Selection{}
	s.totalCost = decimal.Zero
}

// Selection returns a copy of the current selection.
func (s *SelectionStore) Selection() model.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Clone()
}

// Snapshot returns the catalog, selection and total cost as of one instant.
func (s *SelectionStore) Snapshot() SelectionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SelectionSnapshot{
		Catalog:    append([]model.CatalogEntry{}, s.catalog...),
		Generation: s.generation,
		Selection:  s.selection.Clone(),
		TotalCost:  s.totalCost,
	}
}

// recompute must be called with the write lock held.
func (s *SelectionStore) recompute() {
	s.totalCost = TotalCost(s.selection, s.catalog)
}

// TotalCost computes Σ price × shares over the catalog tickers selected with a
// positive count. Selected tickers missing from the catalog are ignored.
func TotalCost(selection model.Selection, catalog []model.CatalogEntry) decimal.Decimal {
	total := decimal.Zero
	for ticker, shares := range selection {
		if shares <= 0 {
			continue
		}
		entry, ok := model.FindCatalogEntry(catalog, ticker)
		if !ok {
			continue
		}
		total = total.Add(entry.CurrentPrice.Mul(decimal.NewFromInt(int64(shares))))
	}
	return total
}

func dedupeCatalog(entries []model.CatalogEntry) []model.CatalogEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Ticker] {
			continue
		}
		seen[e.Ticker] = true
		out = append(out, e)
	}
	return out
}
