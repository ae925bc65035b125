package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/backend"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL+"/", "secret-token", 5*time.Second)
}

// TestClient_AddToPortfolio tests the POST /api/portfolio/add contract.
//
// WHY: Commit success is decided solely by this call. The body shape, the bearer
// token and the "only 200 is success" rule must hold or commits are misreported.
func TestClient_AddToPortfolio(t *testing.T) {
	t.Run("sends body and token, returns message", func(t *testing.T) {
		var got map[string]any
		var auth string
		client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/portfolio/add" {
				t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			}
			auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&got)
			_, _ = w.Write([]byte(`{"message":"3 shares of AAPL added to portfolio at price 150.25."}`))
		})

		msg, err := client.AddToPortfolio(context.Background(), model.CommitRequest{
			Ticker:         "AAPL",
			Shares:         3,
			ReferencePrice: decimal.RequireFromString("150.25"),
		})
		if err != nil {
			t.Fatalf("AddToPortfolio() returned unexpected error: %v", err)
		}

		if msg != "3 shares of AAPL added to portfolio at price 150.25." {
			t.Errorf("Unexpected message %q", msg)
		}
		if auth != "Bearer secret-token" {
			t.Errorf("Expected bearer token, got %q", auth)
		}
		if got["ticker"] != "AAPL" || got["shares"] != float64(3) || got["price"] != 150.25 {
			t.Errorf("Unexpected request body: %v", got)
		}
	})

	t.Run("200 with a plain-text body is a success", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want string
		}{
			{"text", "OK\n", "OK"},
			{"empty", "", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Type", "text/plain")
					_, _ = w.Write([]byte(tt.body))
				})

				msg, err := client.AddToPortfolio(context.Background(), model.CommitRequest{
					Ticker:         "AAPL",
					Shares:         1,
					ReferencePrice: decimal.RequireFromString("150.25"),
				})
				if err != nil {
					t.Fatalf("AddToPortfolio() returned unexpected error: %v", err)
				}
				if msg != tt.want {
					t.Errorf("Expected message %q, got %q", tt.want, msg)
				}
			})
		}
	})

	t.Run("non-200 is a remote rejection with backend message", func(t *testing.T) {
		client := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Ticker, shares, and price are required."}`))
		})

		_, err := client.AddToPortfolio(context.Background(), model.CommitRequest{Ticker: "AAPL", Shares: 1})

		var remoteErr *apperrors.RemoteError
		if !errors.As(err, &remoteErr) {
			t.Fatalf("Expected RemoteError, got %v", err)
		}
		if remoteErr.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", remoteErr.StatusCode)
		}
		if remoteErr.Message != "Ticker, shares, and price are required." {
			t.Errorf("Unexpected message %q", remoteErr.Message)
		}
		if !errors.Is(err, apperrors.ErrRemoteRejected) {
			t.Error("Expected error to match ErrRemoteRejected")
		}
	})

	t.Run("created status is still a failure", func(t *testing.T) {
		client := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		})

		_, err := client.AddToPortfolio(context.Background(), model.CommitRequest{Ticker: "AAPL", Shares: 1})
		if !errors.Is(err, apperrors.ErrRemoteRejected) {
			t.Errorf("Expected ErrRemoteRejected for 201, got %v", err)
		}
	})

	t.Run("unreachable backend is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := backend.NewClient(srv.URL, "", time.Second)

		_, err := client.AddToPortfolio(context.Background(), model.CommitRequest{Ticker: "AAPL", Shares: 1})
		if !errors.Is(err, apperrors.ErrNetwork) {
			t.Errorf("Expected ErrNetwork, got %v", err)
		}
	})
}

func TestClient_PortfolioValue(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"portfolio":[
			{"ticker":"AAPL","shares":10,"current_price":150.5,"previous_close":148,"daily_change":2.5,"daily_change_percentage":1.69,"value":1505},
			{"ticker":"XYZ","shares":2,"current_price":null,"value":null}
		],"total_value":1505}`))
	})

	valuation, err := client.PortfolioValue(context.Background())
	if err != nil {
		t.Fatalf("PortfolioValue() returned unexpected error: %v", err)
	}

	if len(valuation.Portfolio) != 2 {
		t.Fatalf("Expected 2 holdings, got %d", len(valuation.Portfolio))
	}
	aapl := valuation.Portfolio[0]
	if !aapl.Value.Valid || !aapl.Value.Decimal.Equal(decimal.NewFromInt(1505)) {
		t.Errorf("Expected AAPL value 1505, got %+v", aapl.Value)
	}
	xyz := valuation.Portfolio[1]
	if xyz.CurrentPrice.Valid || xyz.Value.Valid {
		t.Error("Expected missing XYZ price to stay invalid, not zero")
	}
	if !valuation.TotalValue.Equal(decimal.NewFromInt(1505)) {
		t.Errorf("Expected total 1505, got %s", valuation.TotalValue)
	}
}

func TestClient_StockHistory(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stock/history/AAPL" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"Date":"2024-03-04 00:00:00-05:00","Close":175.1},
			{"Date":"2024-03-05 00:00:00-05:00","Close":170.12}
		]`))
	})

	points, err := client.StockHistory(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("StockHistory() returned unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	if points[1].Close.String() != "170.12" {
		t.Errorf("Expected last close 170.12, got %s", points[1].Close)
	}
	if points[0].Date.Day() != 4 {
		t.Errorf("Expected first date on the 4th, got %s", points[0].Date)
	}
}

func TestClient_Recommendations(t *testing.T) {
	t.Run("posts strategy", func(t *testing.T) {
		client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["strategy"] != "dividend" {
				t.Errorf("Expected strategy dividend, got %q", body["strategy"])
			}
			_, _ = w.Write([]byte(`{"strategy":"dividend","recommendations":[
				{"ticker":"KO","reason":"Attractive dividend yield of 3.10%.","current_price":60.12}
			]}`))
		})

		recs, err := client.Recommendations(context.Background(), model.StrategyDividend)
		if err != nil {
			t.Fatalf("Recommendations() returned unexpected error: %v", err)
		}
		if len(recs) != 1 || recs[0].Ticker != "KO" {
			t.Fatalf("Unexpected recommendations %+v", recs)
		}
		if recs[0].CurrentPrice.String() != "60.12" {
			t.Errorf("Expected price 60.12, got %s", recs[0].CurrentPrice)
		}
	})

	t.Run("error body surfaces as message", func(t *testing.T) {
		client := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid strategy"}`))
		})

		_, err := client.Recommendations(context.Background(), "momentum")

		var remoteErr *apperrors.RemoteError
		if !errors.As(err, &remoteErr) || remoteErr.Message != "Invalid strategy" {
			t.Errorf("Expected RemoteError 'Invalid strategy', got %v", err)
		}
	})
}

func TestClient_Notifications(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/notifications":
			_, _ = w.Write([]byte(`[{"id":2,"ticker":"TSLA","message":"TSLA dropped by 6.10% today.","timestamp":"2024-03-05 10:00:00"}]`))
		case "/api/notifications/generate":
			_, _ = w.Write([]byte(`{"status":"success","message":"Notifications generated."}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	notifications, err := client.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications() returned unexpected error: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Ticker != "TSLA" || notifications[0].ID != 2 {
		t.Errorf("Unexpected notifications %+v", notifications)
	}

	msg, err := client.GenerateNotifications(context.Background())
	if err != nil {
		t.Fatalf("GenerateNotifications() returned unexpected error: %v", err)
	}
	if msg != "Notifications generated." {
		t.Errorf("Unexpected message %q", msg)
	}
}
