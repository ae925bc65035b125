package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/validation"
)

// RecommendationSource returns strategy recommendations. Implemented by *backend.Client.
type RecommendationSource interface {
	Recommendations(ctx context.Context, strategy model.Strategy) ([]model.Recommendation, error)
}

// RecommendationService loads strategy recommendations into the selection catalog.
type RecommendationService struct {
	source RecommendationSource
	store  *SelectionStore
	logger *zap.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(source RecommendationSource, store *SelectionStore, logger *zap.Logger) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Load fetches the recommendations for strategy and makes them the catalog.
// Loading resets the selection. On failure the current catalog and selection
// are left untouched.
//
// Recommended symbols only need to pass the loose symbol check, so tickers
// such as "BRK-B" are kept. Malformed symbols are dropped and logged.
func (s *RecommendationService) Load(ctx context.Context, strategy string) ([]model.CatalogEntry, error) {
	st, err := validation.ValidateStrategy(strategy)
	if err != nil {
		return nil, err
	}

	recs, err := s.source.Recommendations(ctx, st)
	if err != nil {
		return nil, err
	}

	entries := make([]model.CatalogEntry, 0, len(recs))
	for _, rec := range recs {
		if err := validation.ValidateSymbol(rec.Ticker); err != nil {
			s.logger.Warn("dropping recommendation", zap.String("ticker", rec.Ticker), zap.Error(err))
			continue
		}
		entries = append(entries, rec.CatalogEntry())
	}

	s.store.ReplaceCatalog(entries)
	s.logger.Info("recommendations loaded", zap.String("strategy", string(st)), zap.Int("count", len(entries)))
	return s.store.Catalog(), nil
}
