package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
)

const dateLayout = "2006-01-02"

// Client defines the market-data queries used by the picker.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	SymbolSearch(ctx context.Context, keywords string) (SymbolSearchResponse, error)
	QueryGlobalQuote(ctx context.Context, symbol string) (GlobalQuoteResponse, error)
	QueryDailySeries(ctx context.Context, symbol string) (TimeSeriesDailyResponse, error)
}

// FinanceClient queries the Alpha Vantage HTTP API with a fixed API key.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewFinanceClient creates a new Alpha Vantage client.
//
// Parameters:
//   - baseURL: query endpoint, normally https://www.alphavantage.co/query
//   - apiKey: key sent as the apikey parameter on every request
//   - timeout: per-request timeout; 0 disables it
func NewFinanceClient(baseURL, apiKey string, timeout time.Duration) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// SymbolSearch returns the SYMBOL_SEARCH matches for keywords, best match first.
// No match is not an error: BestMatches is simply empty.
func (c *FinanceClient) SymbolSearch(ctx context.Context, keywords string) (SymbolSearchResponse, error) {
	var response SymbolSearchResponse
	err := c.query(ctx, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {keywords}}, &response)
	if err != nil {
		return SymbolSearchResponse{}, err
	}
	if err := response.check(); err != nil {
		return SymbolSearchResponse{}, err
	}
	return response, nil
}

// QueryGlobalQuote fetches the latest quote for symbol.
func (c *FinanceClient) QueryGlobalQuote(ctx context.Context, symbol string) (GlobalQuoteResponse, error) {
	var response GlobalQuoteResponse
	err := c.query(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}, &response)
	if err != nil {
		return GlobalQuoteResponse{}, err
	}
	if err := response.check(); err != nil {
		return GlobalQuoteResponse{}, err
	}
	return response, nil
}

// QueryDailySeries fetches the compact (latest 100 days) daily series for symbol.
// An "Error Message" body, which Alpha Vantage sends for unknown symbols,
// is reported as apperrors.ErrSymbolNotFound.
func (c *FinanceClient) QueryDailySeries(ctx context.Context, symbol string) (TimeSeriesDailyResponse, error) {
	var response TimeSeriesDailyResponse
	err := c.query(ctx, url.Values{"function": {"TIME_SERIES_DAILY"}, "symbol": {symbol}}, &response)
	if err != nil {
		return TimeSeriesDailyResponse{}, err
	}
	if err := response.check(); err != nil {
		return TimeSeriesDailyResponse{}, err
	}
	return response, nil
}

// query is an internal helper that executes a GET against the API and decodes
// the JSON body into out.
//
// Transport failures wrap apperrors.ErrNetwork; non-200 statuses are returned
// as *apperrors.RemoteError.
func (c *FinanceClient) query(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrNetwork, params.Get("function"), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %v", apperrors.ErrNetwork, params.Get("function"), err)
	}

	if resp.StatusCode != http.StatusOK {
		return &apperrors.RemoteError{StatusCode: resp.StatusCode, Message: string(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", params.Get("function"), err)
	}
	return nil
}

// check turns in-body notices into errors. Quota notes count as rejections.
func (n notice) check() error {
	switch {
	case n.Note != "":
		return &apperrors.RemoteError{StatusCode: http.StatusOK, Message: n.Note}
	case n.Information != "":
		return &apperrors.RemoteError{StatusCode: http.StatusOK, Message: n.Information}
	case n.ErrorMessage != "":
		return fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, n.ErrorMessage)
	}
	return nil
}

// ParseQuote converts a raw global quote into a Quote.
//
// Returns an error when the quote is empty (unknown symbol) or the price is not
// a valid decimal. Previous close and trading day are optional.
func ParseQuote(response GlobalQuoteResponse) (Quote, error) {
	raw := response.GlobalQuote
	if raw.Symbol == "" && raw.Price == "" {
		return Quote{}, fmt.Errorf("empty quote returned")
	}

	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid price %q for %s: %w", raw.Price, raw.Symbol, err)
	}
	if price.IsNegative() {
		return Quote{}, fmt.Errorf("negative price %s for %s", price, raw.Symbol)
	}

	quote := Quote{Symbol: raw.Symbol, Price: price}
	if prev, err := decimal.NewFromString(raw.PreviousClose); err == nil {
		quote.PreviousClose = prev
	}
	if day, err := time.Parse(dateLayout, raw.LatestTradingDay); err == nil {
		quote.LatestTradingDay = day
	}
	return quote, nil
}

// ParseDailySeries converts a raw daily series into bars sorted oldest first.
// A response without a series yields an empty slice. Days whose close cannot
// be parsed are rejected rather than skipped.
func ParseDailySeries(response TimeSeriesDailyResponse) ([]DailyBar, error) {
	bars := make([]DailyBar, 0, len(response.TimeSeries))
	for day, raw := range response.TimeSeries {
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("invalid series date %q: %w", day, err)
		}
		closePrice, err := decimal.NewFromString(raw.Close)
		if err != nil {
			return nil, fmt.Errorf("invalid close %q on %s: %w", raw.Close, day, err)
		}

		bar := DailyBar{Date: date, Close: closePrice}
		bar.Open, _ = decimal.NewFromString(raw.Open)
		bar.High, _ = decimal.NewFromString(raw.High)
		bar.Low, _ = decimal.NewFromString(raw.Low)
		bar.Volume, _ = strconv.ParseInt(raw.Volume, 10, 64)
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
