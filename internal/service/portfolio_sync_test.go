package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/repository"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/testutil"
)

// TestPortfolioSync_Commit tests per-ticker commit semantics.
//
// WHY: A commit is a batch of independent remote adds with no transaction
// around them. One ticker failing must never hide or undo another ticker's
// success, and every failure must carry a reason the caller can report.
func TestPortfolioSync_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("partial failure keeps the success", func(t *testing.T) {
		backend := testutil.NewMockBackend().
			WithAddError("ZZZZ", &apperrors.RemoteError{StatusCode: 404, Message: "Stock not found"})
		ps := testutil.NewTestPortfolioSync(t, nil, backend)
		catalog := testutil.Catalog("AAPL", "150.00", "ZZZZ", "1.00")

		outcome := ps.Commit(ctx, model.Selection{"AAPL": 2, "ZZZZ": 3}, catalog)

		if len(outcome.Succeeded) != 1 || outcome.Succeeded[0] != "AAPL" {
			t.Errorf("Expected succeeded [AAPL], got %v", outcome.Succeeded)
		}
		if len(outcome.Failed) != 1 {
			t.Fatalf("Expected 1 failure, got %v", outcome.Failed)
		}
		if !errors.Is(outcome.Failed["ZZZZ"], apperrors.ErrRemoteRejected) {
			t.Errorf("Expected ZZZZ to fail with RemoteRejected, got %v", outcome.Failed["ZZZZ"])
		}
		if outcome.Messages["AAPL"] == "" {
			t.Error("Expected a backend message for AAPL")
		}
		if len(backend.Calls()) != 2 {
			t.Errorf("Expected 2 add calls, got %d", len(backend.Calls()))
		}
	})

	t.Run("ticker without catalog entry fails with UnknownTicker and is not sent", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		ps := testutil.NewTestPortfolioSync(t, nil, backend)

		outcome := ps.Commit(ctx, model.Selection{"AAPL": 1, "ZZZZ": 3}, testutil.Catalog("AAPL", "150.00"))

		if !errors.Is(outcome.Failed["ZZZZ"], apperrors.ErrUnknownTicker) {
			t.Errorf("Expected ZZZZ to fail with UnknownTicker, got %v", outcome.Failed["ZZZZ"])
		}
		for _, call := range backend.Calls() {
			if call.Ticker == "ZZZZ" {
				t.Error("Expected no remote call for ZZZZ")
			}
		}
		if len(outcome.Succeeded) != 1 {
			t.Errorf("Expected AAPL to succeed, got %v", outcome.Succeeded)
		}
	})

	t.Run("zero counts are not committed", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		ps := testutil.NewTestPortfolioSync(t, nil, backend)

		outcome := ps.Commit(ctx, model.Selection{"AAPL": 0}, testutil.Catalog("AAPL", "150.00"))

		if !outcome.Empty() {
			t.Errorf("Expected empty outcome, got %+v", outcome)
		}
		if len(backend.Calls()) != 0 {
			t.Errorf("Expected no add calls, got %d", len(backend.Calls()))
		}
	})

	t.Run("requests carry shares and catalog price", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		ps := testutil.NewTestPortfolioSync(t, nil, backend)

		ps.Commit(ctx, model.Selection{"AAPL": 3}, testutil.Catalog("AAPL", "150.25"))

		calls := backend.Calls()
		if len(calls) != 1 {
			t.Fatalf("Expected 1 call, got %d", len(calls))
		}
		if calls[0].Shares != 3 || !calls[0].ReferencePrice.Equal(testutil.Dec("150.25")) {
			t.Errorf("Unexpected request %+v", calls[0])
		}
	})

	t.Run("committing twice adds twice", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		ps := testutil.NewTestPortfolioSync(t, nil, backend)
		selection := model.Selection{"AAPL": 2}
		catalog := testutil.Catalog("AAPL", "150.00")

		ps.Commit(ctx, selection, catalog)
		ps.Commit(ctx, selection, catalog)

		if got := len(backend.Calls()); got != 2 {
			t.Errorf("Expected 2 independent add calls, got %d", got)
		}
	})

	t.Run("waits for every call to settle", func(t *testing.T) {
		backend := testutil.NewMockBackend().WithAddError("MSFT", apperrors.ErrNetwork)
		var finished atomic.Int32
		backend.AddHook = func(req model.CommitRequest) {
			if req.Ticker == "AAPL" {
				time.Sleep(50 * time.Millisecond)
			}
			finished.Add(1)
		}
		ps := testutil.NewTestPortfolioSync(t, nil, backend)

		outcome := ps.Commit(ctx, model.Selection{"AAPL": 1, "MSFT": 1}, testutil.Catalog("AAPL", "1", "MSFT", "1"))

		if finished.Load() != 2 {
			t.Errorf("Expected both calls settled before return, got %d", finished.Load())
		}
		if len(outcome.Succeeded) != 1 || !errors.Is(outcome.Failed["MSFT"], apperrors.ErrNetwork) {
			t.Errorf("Unexpected outcome %+v", outcome)
		}
	})

	t.Run("calls run concurrently", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		arrived := make(chan struct{}, 3)
		release := make(chan struct{})
		backend.AddHook = func(model.CommitRequest) {
			arrived <- struct{}{}
			<-release
		}
		ps := testutil.NewTestPortfolioSync(t, nil, backend)

		done := make(chan model.CommitOutcome)
		go func() {
			done <- ps.Commit(ctx, model.Selection{"A": 1, "B": 1, "C": 1}, testutil.Catalog("A", "1", "B", "1", "C", "1"))
		}()

		for i := 0; i < 3; i++ {
			select {
			case <-arrived:
			case <-time.After(2 * time.Second):
				t.Fatalf("Only %d of 3 calls were in flight at once", i)
			}
		}
		close(release)

		if outcome := <-done; len(outcome.Succeeded) != 3 {
			t.Errorf("Expected 3 successes, got %v", outcome.Succeeded)
		}
	})

	t.Run("concurrency limit is respected", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		var inFlight, peak atomic.Int32
		backend.AddHook = func(model.CommitRequest) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
		}
		limited := service.NewPortfolioSync(backend, nil, 2, testutil.NewTestLogger(t))

		outcome := limited.Commit(ctx, model.Selection{"A": 1, "B": 1, "C": 1, "D": 1, "E": 1},
			testutil.Catalog("A", "1", "B", "1", "C", "1", "D", "1", "E", "1"))

		if peak.Load() > 2 {
			t.Errorf("Expected at most 2 calls in flight, saw %d", peak.Load())
		}
		if len(outcome.Succeeded) != 5 {
			t.Errorf("Expected 5 successes, got %v", outcome.Succeeded)
		}
	})

	t.Run("succeeded is sorted", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		ps := testutil.NewTestPortfolioSync(t, nil, backend)

		outcome := ps.Commit(ctx, model.Selection{"MSFT": 1, "AAPL": 1, "GOOG": 1},
			testutil.Catalog("MSFT", "1", "AAPL", "1", "GOOG", "1"))

		want := []string{"AAPL", "GOOG", "MSFT"}
		for i, ticker := range want {
			if outcome.Succeeded[i] != ticker {
				t.Fatalf("Expected %v, got %v", want, outcome.Succeeded)
			}
		}
	})
}

// TestPortfolioSync_CommitSelection tests the store-driven commit flow.
//
// WHY: After a commit the selection is cleared whatever happened per ticker,
// and the attempt is journaled so failed tickers can be reviewed afterwards.
func TestPortfolioSync_CommitSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the store and journals every ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		backend := testutil.NewMockBackend().WithAddError("MSFT", apperrors.ErrNetwork)
		ps := testutil.NewTestPortfolioSync(t, db, backend)
		store := testutil.NewTestStore(t, "AAPL", "150.00", "MSFT", "400.00")
		store.SetShares("AAPL", "2")
		store.SetShares("MSFT", "1")
		store.SetShares("ZZZZ", "4")

		outcome, record, err := ps.CommitSelection(ctx, store)

		if err != nil {
			t.Fatalf("CommitSelection() returned unexpected error: %v", err)
		}
		if len(outcome.Succeeded) != 1 || len(outcome.Failed) != 2 {
			t.Errorf("Unexpected outcome %+v", outcome)
		}
		if len(store.Selection()) != 0 || !store.TotalCost().IsZero() {
			t.Error("Expected store to be cleared after commit")
		}

		testutil.AssertRowCount(t, db, "commit_attempt", 1)
		testutil.AssertRowCount(t, db, "commit_result", 3)

		stored, err := ps.GetCommit(ctx, record.ID)
		if err != nil {
			t.Fatalf("GetCommit() returned unexpected error: %v", err)
		}
		reasons := map[string]string{}
		for _, r := range stored.Results {
			reasons[r.Ticker] = r.Reason
		}
		if reasons["AAPL"] != "" || reasons["MSFT"] != "NetworkError" || reasons["ZZZZ"] != "UnknownTicker" {
			t.Errorf("Unexpected journaled reasons %v", reasons)
		}
	})

	t.Run("commit works from a snapshot", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		store := testutil.NewTestStore(t, "AAPL", "150.00", "MSFT", "400.00")
		store.SetShares("AAPL", "2")
		backend.AddHook = func(model.CommitRequest) {
			store.SetShares("MSFT", "10")
		}
		ps := testutil.NewTestPortfolioSync(t, nil, backend)

		outcome, _, err := ps.CommitSelection(ctx, store)

		if err != nil {
			t.Fatalf("CommitSelection() returned unexpected error: %v", err)
		}
		if len(outcome.Requests) != 1 || outcome.Requests[0].Ticker != "AAPL" {
			t.Errorf("Expected only the AAPL request, got %+v", outcome.Requests)
		}
	})

	t.Run("empty selection is not journaled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		backend := testutil.NewMockBackend()
		ps := testutil.NewTestPortfolioSync(t, db, backend)

		outcome, _, err := ps.CommitSelection(ctx, testutil.NewTestStore(t, "AAPL", "150.00"))

		if err != nil {
			t.Fatalf("CommitSelection() returned unexpected error: %v", err)
		}
		if !outcome.Empty() {
			t.Errorf("Expected empty outcome, got %+v", outcome)
		}
		testutil.AssertRowCount(t, db, "commit_attempt", 0)
	})

	t.Run("cancelled context still sends and journals every ticker", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockBackend()
		arrived := make(chan struct{}, 3)
		release := make(chan struct{})
		mock.AddHook = func(model.CommitRequest) {
			arrived <- struct{}{}
			<-release
		}
		backend := contextBackend{mock}
		ps := service.NewPortfolioSync(backend, repository.NewCommitRepository(db), 1, testutil.NewTestLogger(t))
		store := testutil.NewTestStore(t, "AAPL", "150.00", "GOOG", "140.00", "MSFT", "400.00")
		store.SetShares("AAPL", "1")
		store.SetShares("GOOG", "1")
		store.SetShares("MSFT", "1")

		cctx, cancel := context.WithCancel(ctx)
		go func() {
			<-arrived
			cancel()
			close(release)
		}()

		// Execute
		outcome, record, err := ps.CommitSelection(cctx, store)

		// Assert
		if err != nil {
			t.Fatalf("CommitSelection() returned unexpected error: %v", err)
		}
		if calls := mock.Calls(); len(calls) != 3 {
			t.Errorf("Expected 3 adds to reach the backend, got %d", len(calls))
		}
		if len(outcome.Succeeded) != 3 || len(outcome.Failed) != 0 {
			t.Errorf("Expected every ticker to succeed, got succeeded=%v failed=%v", outcome.Succeeded, outcome.Failed)
		}
		testutil.AssertRowCount(t, db, "commit_result", 3)
		if _, err := ps.GetCommit(ctx, record.ID); err != nil {
			t.Errorf("Expected commit to be journaled, got %v", err)
		}
	})

	t.Run("journal failure keeps the outcome", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		ps := service.NewPortfolioSync(backend, failingJournal{}, 0, testutil.NewTestLogger(t))
		store := testutil.NewTestStore(t, "AAPL", "150.00")
		store.SetShares("AAPL", "1")

		outcome, _, err := ps.CommitSelection(ctx, store)

		if !errors.Is(err, apperrors.ErrFailedToRecordCommit) {
			t.Errorf("Expected ErrFailedToRecordCommit, got %v", err)
		}
		if len(outcome.Succeeded) != 1 {
			t.Errorf("Expected AAPL to succeed, got %+v", outcome)
		}
		if len(store.Selection()) != 0 {
			t.Error("Expected store to be cleared")
		}
	})
}

func TestNewCommitRecord(t *testing.T) {
	outcome := model.CommitOutcome{
		Requests:  []model.CommitRequest{{Ticker: "AAPL", Shares: 2, ReferencePrice: testutil.Dec("150.00")}},
		Succeeded: []string{"AAPL"},
		Failed: map[string]error{
			"ZZZZ": apperrors.ErrUnknownTicker,
		},
		Messages: map[string]string{"AAPL": "2 shares of AAPL added to portfolio."},
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record := service.NewCommitRecord(outcome, model.Selection{"AAPL": 2, "ZZZZ": 3}, at)

	if record.ID == "" || !record.CreatedAt.Equal(at) {
		t.Errorf("Unexpected record header %+v", record)
	}
	if len(record.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(record.Results))
	}

	aapl, zzzz := record.Results[0], record.Results[1]
	if aapl.Status != model.CommitSucceeded || !aapl.ReferencePrice.Valid || aapl.Message == "" {
		t.Errorf("Unexpected AAPL result %+v", aapl)
	}
	if zzzz.Status != model.CommitFailed || zzzz.ReferencePrice.Valid || zzzz.Shares != 3 || zzzz.Reason != "UnknownTicker" {
		t.Errorf("Unexpected ZZZZ result %+v", zzzz)
	}
}

type failingJournal struct{}

func (failingJournal) RecordCommit(context.Context, model.CommitRecord) error {
	return errors.New("disk full")
}

func (failingJournal) ListCommits(context.Context, int) ([]model.CommitRecord, error) {
	return nil, errors.New("disk full")
}

func (failingJournal) GetCommit(context.Context, string) (model.CommitRecord, error) {
	return model.CommitRecord{}, errors.New("disk full")
}

// contextBackend fails an add whose context is done, as an HTTP client would.
type contextBackend struct {
	*testutil.MockBackend
}

func (b contextBackend) AddToPortfolio(ctx context.Context, req model.CommitRequest) (string, error) {
	msg, err := b.MockBackend.AddToPortfolio(ctx, req)
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrNetwork, ctx.Err())
	}
	return msg, err
}
