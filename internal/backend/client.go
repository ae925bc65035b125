// Package backend is the client for the portfolio backend API: positions,
// valuations, price history, notifications and strategy recommendations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

// historyLayouts are the date renderings the backend uses for history rows.
var historyLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Client talks to the portfolio backend on behalf of one user.
// The bearer token is fixed at construction; the client never reads ambient state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a backend client.
//
// Parameters:
//   - baseURL: backend root, e.g. http://127.0.0.1:5000
//   - token: bearer token attached to every request; empty sends no header
//   - timeout: per-request timeout; 0 disables it
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// AddToPortfolio adds req.Shares of req.Ticker at req.ReferencePrice and
// returns the backend's confirmation message. Only HTTP 200 is success, and
// any 200 is: a body that is not a JSON message is returned as plain text.
func (c *Client) AddToPortfolio(ctx context.Context, req model.CommitRequest) (string, error) {
	body := addRequest{Ticker: req.Ticker, Shares: req.Shares, Price: json.Number(req.ReferencePrice.String())}

	data, err := c.roundTrip(ctx, http.MethodPost, "/api/portfolio/add", body)
	if err != nil {
		return "", err
	}

	var resp messageResponse
	if json.Unmarshal(data, &resp) == nil {
		return resp.Message, nil
	}
	return strings.TrimSpace(string(data)), nil
}

// PortfolioValue returns the backend's current valuation of the portfolio.
func (c *Client) PortfolioValue(ctx context.Context) (model.PortfolioValuation, error) {
	var valuation model.PortfolioValuation
	if err := c.do(ctx, http.MethodGet, "/api/portfolio/value", nil, &valuation); err != nil {
		return model.PortfolioValuation{}, err
	}
	if valuation.Portfolio == nil {
		valuation.Portfolio = []model.Holding{}
	}
	return valuation, nil
}

// StockHistory returns the backend's daily closes for ticker, in the order the
// backend sends them (oldest first).
func (c *Client) StockHistory(ctx context.Context, ticker string) ([]model.PricePoint, error) {
	var records []historyRecord
	if err := c.do(ctx, http.MethodGet, "/api/stock/history/"+url.PathEscape(ticker), nil, &records); err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, 0, len(records))
	for _, r := range records {
		date, err := parseHistoryDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("history for %s: %w", ticker, err)
		}
		points = append(points, model.PricePoint{Date: date, Close: r.Close})
	}
	return points, nil
}

// Notifications returns the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	notifications := []model.Notification{}
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GenerateNotifications asks the backend to scan the portfolio for price drops
// and upcoming earnings, and returns its status message.
func (c *Client) GenerateNotifications(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/notifications/generate", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Recommendations returns the backend's suggestions for strategy.
func (c *Client) Recommendations(ctx context.Context, strategy model.Strategy) ([]model.Recommendation, error) {
	var resp recommendationsResponse
	if err := c.do(ctx, http.MethodPost, "/api/strategy/recommendations", recommendationsRequest{Strategy: strategy}, &resp); err != nil {
		return nil, err
	}
	if resp.Recommendations == nil {
		return []model.Recommendation{}, nil
	}
	return resp.Recommendations, nil
}

// do performs one JSON round trip and decodes a 200 body into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// roundTrip sends body as JSON and returns the raw body of a 200 response.
//
// Transport failures wrap apperrors.ErrNetwork. Any status other than 200 is a
// *apperrors.RemoteError carrying the backend's message or error text.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", apperrors.ErrNetwork, method, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		var msg messageResponse
		text := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &msg) == nil && msg.text() != "" {
			text = msg.text()
		}
		return nil, &apperrors.RemoteError{StatusCode: resp.StatusCode, Message: text}
	}
	return data, nil
}

func parseHistoryDate(s string) (time.Time, error) {
	for _, layout := range historyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
