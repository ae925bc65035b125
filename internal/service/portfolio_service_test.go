package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/testutil"
)

func valued(ticker, shares, value string) model.Holding {
	return model.Holding{
		Ticker: ticker,
		Shares: testutil.Dec(shares),
		Value:  decimal.NewNullDecimal(testutil.Dec(value)),
	}
}

// TestPortfolioService_Overview tests the dashboard overview.
//
// WHY: A holding the backend could not price must show up as unpriced rather
// than as a zero-value position that skews the allocation.
func TestPortfolioService_Overview(t *testing.T) {
	ctx := context.Background()

	t.Run("computes allocation weights", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		backend.Valuation = model.PortfolioValuation{
			Portfolio:  []model.Holding{valued("AAPL", "2", "300"), valued("MSFT", "1", "100")},
			TotalValue: testutil.Dec("400"),
		}
		svc := service.NewPortfolioService(backend)

		overview, err := svc.Overview(ctx)

		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if !overview.TotalValue.Equal(testutil.Dec("400")) {
			t.Errorf("Expected total 400, got %s", overview.TotalValue)
		}
		if len(overview.Allocations) != 2 {
			t.Fatalf("Expected 2 allocations, got %d", len(overview.Allocations))
		}
		if !overview.Allocations[0].Weight.Equal(testutil.Dec("75")) || !overview.Allocations[1].Weight.Equal(testutil.Dec("25")) {
			t.Errorf("Expected weights 75/25, got %s/%s", overview.Allocations[0].Weight, overview.Allocations[1].Weight)
		}
		if len(overview.UnpricedRows) != 0 {
			t.Errorf("Expected no unpriced rows, got %v", overview.UnpricedRows)
		}
	})

	t.Run("unpriced holdings are listed, not weighted", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		backend.Valuation = model.PortfolioValuation{
			Portfolio: []model.Holding{
				valued("AAPL", "3", "450"),
				{Ticker: "DELIST", Shares: testutil.Dec("5")},
			},
			TotalValue: testutil.Dec("450"),
		}
		svc := service.NewPortfolioService(backend)

		overview, err := svc.Overview(ctx)

		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if len(overview.UnpricedRows) != 1 || overview.UnpricedRows[0] != "DELIST" {
			t.Errorf("Expected DELIST unpriced, got %v", overview.UnpricedRows)
		}
		if len(overview.Allocations) != 1 || !overview.Allocations[0].Weight.Equal(testutil.Dec("100")) {
			t.Errorf("Expected AAPL at 100%%, got %+v", overview.Allocations)
		}
		if len(overview.Holdings) != 2 {
			t.Errorf("Expected both holdings kept, got %d", len(overview.Holdings))
		}
	})

	t.Run("empty portfolio", func(t *testing.T) {
		svc := service.NewPortfolioService(testutil.NewMockBackend())

		overview, err := svc.Overview(ctx)

		if err != nil {
			t.Fatalf("Overview() returned unexpected error: %v", err)
		}
		if overview.Holdings == nil || overview.Allocations == nil || len(overview.Holdings) != 0 {
			t.Errorf("Expected empty non-nil slices, got %+v", overview)
		}
	})

	t.Run("backend failure propagates", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		backend.Err = &apperrors.RemoteError{StatusCode: 401, Message: "Token is invalid"}
		svc := service.NewPortfolioService(backend)

		_, err := svc.Overview(ctx)

		if !errors.Is(err, apperrors.ErrRemoteRejected) {
			t.Errorf("Expected ErrRemoteRejected, got %v", err)
		}
	})
}

func TestPortfolioService_History(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMockBackend()
	backend.History["AAPL"] = []model.PricePoint{{Close: testutil.Dec("150")}}
	svc := service.NewPortfolioService(backend)

	t.Run("returns backend history", func(t *testing.T) {
		points, err := svc.History(ctx, "AAPL")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(points) != 1 {
			t.Errorf("Expected 1 point, got %d", len(points))
		}
	})

	t.Run("rejects malformed symbol", func(t *testing.T) {
		if _, err := svc.History(ctx, "A B"); !errors.Is(err, apperrors.ErrInvalidTicker) {
			t.Errorf("Expected ErrInvalidTicker, got %v", err)
		}
	})
}

func TestPortfolioService_Notifications(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMockBackend()
	backend.NotificationSet = []model.Notification{{ID: 1, Ticker: "AAPL", Message: "AAPL dropped by 5.20% today.", Timestamp: "2026-03-06 10:00:00"}}
	svc := service.NewPortfolioService(backend)

	notifications, err := svc.Notifications(ctx)
	if err != nil {
		t.Fatalf("Notifications() returned unexpected error: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Ticker != "AAPL" {
		t.Errorf("Unexpected notifications %+v", notifications)
	}

	if _, err := svc.GenerateNotifications(ctx); err != nil {
		t.Fatalf("GenerateNotifications() returned unexpected error: %v", err)
	}
	if backend.GenerateCount != 1 {
		t.Errorf("Expected 1 generate call, got %d", backend.GenerateCount)
	}
}
