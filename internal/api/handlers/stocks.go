package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/response"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/validation"
)

// defaultSeriesDays matches the 7-day chart shown next to a searched stock.
const defaultSeriesDays = 7

// StockHandler handles HTTP requests for stock lookup endpoints.
// Searched stocks are added to the selection catalog so they can be picked.
type StockHandler struct {
	lookup           *service.PriceLookup
	store            *service.SelectionStore
	portfolioService *service.PortfolioService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(lookup *service.PriceLookup, store *service.SelectionStore, portfolioService *service.PortfolioService) *StockHandler {
	return &StockHandler{
		lookup:           lookup,
		store:            store,
		portfolioService: portfolioService,
	}
}

// QuoteResponse is the latest price of a ticker.
type QuoteResponse struct {
	Ticker string          `json:"ticker"`
	Price  decimal.Decimal `json:"price"`
}

// SeriesResponse holds recent daily closes, oldest first.
type SeriesResponse struct {
	Ticker string             `json:"ticker"`
	Days   int                `json:"days"`
	Points []model.PricePoint `json:"points"`
}

// Search handles GET requests to look up a ticker and add it to the catalog.
//
// Endpoint: GET /api/stocks/search?ticker=AAPL
// Response: 200 OK with model.CatalogEntry
// Error: 400 Bad Request for a malformed ticker
// Error: 404 Not Found when the provider does not know the ticker
// Error: 502 Bad Gateway when the provider fails or the price is unavailable
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")

	entry, found, err := h.lookup.Search(r.Context(), ticker)
	if err != nil {
		response.RespondServiceError(w, "Error fetching stock data", err)
		return
	}
	if !found {
		response.RespondJSON(w, http.StatusNotFound, response.ErrorResponse{
			Error: "Stock not found. Please check the ticker.",
			Kind:  "NotFound",
		})
		return
	}

	h.store.UpsertCatalogEntry(entry)
	respondJSON(w, http.StatusOK, entry)
}

// Quote handles GET requests for the latest price of a ticker.
//
// Endpoint: GET /api/stocks/{ticker}/quote
// Response: 200 OK with QuoteResponse
// Error: 502 Bad Gateway when the price is unavailable
func (h *StockHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	price, err := h.lookup.ResolvePrice(r.Context(), ticker)
	if err != nil {
		response.RespondServiceError(w, "Failed to fetch price", err)
		return
	}

	respondJSON(w, http.StatusOK, QuoteResponse{Ticker: ticker, Price: price})
}

// Series handles GET requests for recent daily closes.
//
// Endpoint: GET /api/stocks/{ticker}/series?days=7
// Response: 200 OK with SeriesResponse; an unknown ticker yields no points
// Error: 400 Bad Request when days is not a positive integer
func (h *StockHandler) Series(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	days, err := validation.ParseDays(r.URL.Query().Get("days"), defaultSeriesDays)
	if err != nil {
		response.RespondServiceError(w, "Invalid days parameter", err)
		return
	}

	points, err := h.lookup.FetchRecentSeries(r.Context(), ticker, days)
	if err != nil {
		response.RespondServiceError(w, "Failed to fetch price history", err)
		return
	}

	respondJSON(w, http.StatusOK, SeriesResponse{Ticker: ticker, Days: days, Points: points})
}

// History handles GET requests for the backend's stored price history.
//
// Endpoint: GET /api/stocks/{ticker}/history
// Response: 200 OK with array of model.PricePoint
func (h *StockHandler) History(w http.ResponseWriter, r *http.Request) {
	points, err := h.portfolioService.History(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		response.RespondServiceError(w, "Failed to fetch stock history", err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}
