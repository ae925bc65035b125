package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

// PortfolioBackend is the remote "add to portfolio" capability.
// Implemented by *backend.Client.
type PortfolioBackend interface {
	AddToPortfolio(ctx context.Context, req model.CommitRequest) (string, error)
}

// CommitJournal records commit attempts. Implemented by *repository.CommitRepository.
type CommitJournal interface {
	RecordCommit(ctx context.Context, record model.CommitRecord) error
	ListCommits(ctx context.Context, limit int) ([]model.CommitRecord, error)
	GetCommit(ctx context.Context, id string) (model.CommitRecord, error)
}

// PortfolioSync commits a selection to the remote portfolio store.
//
// Every ticker is committed independently: one add call per ticker, issued
// concurrently, with no ordering between tickers and no rollback. A commit
// returns only after every call has settled, successfully or not. Nothing is
// retried or deduplicated; committing the same selection twice adds twice.
type PortfolioSync struct {
	backend       PortfolioBackend
	journal       CommitJournal
	maxConcurrent int
	logger        *zap.Logger
}

// NewPortfolioSync creates a PortfolioSync.
//
// Parameters:
//   - backend: remote store receiving one add call per ticker
//   - journal: optional; nil disables journaling
//   - maxConcurrent: upper bound on in-flight add calls; 0 means unbounded
//   - logger: per-ticker failures are logged at warn level
func NewPortfolioSync(backend PortfolioBackend, journal CommitJournal, maxConcurrent int, logger *zap.Logger) *PortfolioSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioSync{
		backend:       backend,
		journal:       journal,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// BuildRequests derives the commit requests for the tickers selected with a
// positive count, sorted by ticker. The reference price is taken from the
// first catalog entry for the ticker. Tickers with no catalog entry are
// returned in failed, wrapping apperrors.ErrUnknownTicker.
func BuildRequests(selection model.Selection, catalog []model.CatalogEntry) ([]model.CommitRequest, map[string]error) {
	requests := []model.CommitRequest{}
	failed := map[string]error{}

	for _, ticker := range selection.Active() {
		entry, ok := model.FindCatalogEntry(catalog, ticker)
		if !ok {
			failed[ticker] = fmt.Errorf("%w: %s has no catalog price", apperrors.ErrUnknownTicker, ticker)
			continue
		}
		requests = append(requests, model.CommitRequest{
			Ticker:         ticker,
			Shares:         selection[ticker],
			ReferencePrice: entry.CurrentPrice,
		})
	}
	return requests, failed
}

// Commit issues one add call per selected ticker and aggregates the settled
// results. The request set is fixed before the first call is made, so later
// changes to selection or catalog do not affect a running commit.
//
// A failure for one ticker never cancels or undoes another: the errgroup is
// used as a join only, so its goroutines always return nil and ctx is not
// cancelled on the first error.
//
// Once issued, a commit runs to completion for every ticker. Cancellation of
// ctx is ignored; its values and the client timeouts still apply.
func (s *PortfolioSync) Commit(ctx context.Context, selection model.Selection, catalog []model.CatalogEntry) model.CommitOutcome {
	ctx = context.WithoutCancel(ctx)
	requests, failed := BuildRequests(selection, catalog)
	outcome := model.CommitOutcome{
		Requests:  requests,
		Succeeded: []string{},
		Failed:    failed,
		Messages:  map[string]string{},
	}

	for ticker, err := range failed {
		s.logger.Warn("commit skipped", zap.String("ticker", ticker), zap.Error(err))
	}

	var mu sync.Mutex
	var g errgroup.Group
	if s.maxConcurrent > 0 {
		g.SetLimit(s.maxConcurrent)
	}

	for _, req := range requests {
		g.Go(func() error {
			msg, err := s.backend.AddToPortfolio(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.Failed[req.Ticker] = err
				s.logger.Warn("add to portfolio failed",
					zap.String("ticker", req.Ticker),
					zap.Int("shares", req.Shares),
					zap.Error(err))
				return nil
			}
			outcome.Succeeded = append(outcome.Succeeded, req.Ticker)
			outcome.Messages[req.Ticker] = msg
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(outcome.Succeeded)
	return outcome
}

// CommitSelection commits the store's current selection, then clears it
// whatever the per-ticker outcome, and journals the attempt.
//
// The returned error reports a journaling failure only. The outcome is
// complete and authoritative even when the error is non-nil. Like Commit, it
// is not interrupted by cancellation of ctx, so a settled commit is always
// journaled.
func (s *PortfolioSync) CommitSelection(ctx context.Context, store *SelectionStore) (model.CommitOutcome, model.CommitRecord, error) {
	ctx = context.WithoutCancel(ctx)
	snapshot := store.Snapshot()
	outcome := s.Commit(ctx, snapshot.Selection, snapshot.Catalog)
	store.Clear()

	record := NewCommitRecord(outcome, snapshot.Selection, time.Now())
	s.logger.Info("commit settled",
		zap.String("commit_id", record.ID),
		zap.Int("succeeded", len(outcome.Succeeded)),
		zap.Int("failed", len(outcome.Failed)))

	if outcome.Empty() || s.journal == nil {
		return outcome, record, nil
	}
	if err := s.journal.RecordCommit(ctx, record); err != nil {
		s.logger.Error("failed to journal commit", zap.String("commit_id", record.ID), zap.Error(err))
		return outcome, record, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordCommit, err)
	}
	return outcome, record, nil
}

// ListCommits returns the most recent journaled commits, newest first.
func (s *PortfolioSync) ListCommits(ctx context.Context, limit int) ([]model.CommitRecord, error) {
	if s.journal == nil {
		return []model.CommitRecord{}, nil
	}
	return s.journal.ListCommits(ctx, limit)
}

// GetCommit returns one journaled commit.
func (s *PortfolioSync) GetCommit(ctx context.Context, id string) (model.CommitRecord, error) {
	if s.journal == nil {
		return model.CommitRecord{}, apperrors.ErrCommitNotFound
	}
	return s.journal.GetCommit(ctx, id)
}

// NewCommitRecord converts an outcome into a journal record with fresh IDs.
// Results are ordered by ticker. Shares for tickers that failed before a
// request was built are taken from selection.
func NewCommitRecord(outcome model.CommitOutcome, selection model.Selection, at time.Time) model.CommitRecord {
	record := model.CommitRecord{
		ID:        uuid.New().String(),
		CreatedAt: at.UTC(),
		Results:   []model.CommitResult{},
	}

	requested := make(map[string]model.CommitRequest, len(outcome.Requests))
	for _, req := range outcome.Requests {
		requested[req.Ticker] = req
	}

	for _, ticker := range selection.Active() {
		result := model.CommitResult{
			ID:     uuid.New().String(),
			Ticker: ticker,
			Shares: selection[ticker],
		}
		if req, ok := requested[ticker]; ok {
			result.ReferencePrice.Decimal = req.ReferencePrice
			result.ReferencePrice.Valid = true
		}

		if err, failed := outcome.Failed[ticker]; failed {
			result.Status = model.CommitFailed
			result.Reason = apperrors.Kind(err)
			result.Message = errorMessage(err)
		} else {
			result.Status = model.CommitSucceeded
			result.Message = outcome.Messages[ticker]
		}
		record.Results = append(record.Results, result)
	}
	return record
}

// errorMessage prefers the remote store's own message for rejections.
func errorMessage(err error) string {
	var remote *apperrors.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return err.Error()
}
