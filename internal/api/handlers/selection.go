package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/request"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/response"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

const defaultCommitListLimit = 20

// SelectionHandler handles HTTP requests for the share selection and its commits.
type SelectionHandler struct {
	store         *service.SelectionStore
	portfolioSync *service.PortfolioSync
}

// NewSelectionHandler creates a new SelectionHandler.
func NewSelectionHandler(store *service.SelectionStore, portfolioSync *service.PortfolioSync) *SelectionHandler {
	return &SelectionHandler{
		store:         store,
		portfolioSync: portfolioSync,
	}
}

// SelectionResponse is the catalog, the selection and its total cost.
type SelectionResponse struct {
	Catalog          []model.CatalogEntry `json:"catalog"`
	Selection        model.Selection      `json:"selection"`
	TotalCost        decimal.Decimal      `json:"totalCost"`
	TotalCostDisplay string               `json:"totalCostDisplay"`
}

// CommitFailure explains why one ticker was not added.
type CommitFailure struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// CommitResponse reports the per-ticker outcome of a commit.
// JournalError is set when the outcome could not be recorded; the outcome
// itself is still complete.
type CommitResponse struct {
	ID           string                   `json:"id"`
	CreatedAt    time.Time                `json:"createdAt"`
	Succeeded    []string                 `json:"succeeded"`
	Failed       map[string]CommitFailure `json:"failed"`
	Messages     map[string]string        `json:"messages"`
	JournalError string                   `json:"journalError,omitempty"`
}

func (h *SelectionHandler) snapshot() SelectionResponse {
	snap := h.store.Snapshot()
	return SelectionResponse{
		Catalog:          snap.Catalog,
		Selection:        snap.Selection,
		TotalCost:        snap.TotalCost,
		TotalCostDisplay: model.FormatAmount(snap.TotalCost, ""),
	}
}

// Selection handles GET requests for the current selection.
//
// Endpoint: GET /api/selection
// Response: 200 OK with SelectionResponse
func (h *SelectionHandler) Selection(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.snapshot())
}

// Clear handles DELETE requests that empty the selection.
//
// Endpoint: DELETE /api/selection
// Response: 200 OK with SelectionResponse
func (h *SelectionHandler) Clear(w http.ResponseWriter, _ *http.Request) {
	h.store.Clear()
	respondJSON(w, http.StatusOK, h.snapshot())
}

// SetShares handles PUT requests that set the share count of a ticker.
// Invalid counts, such as "abc" or -1, are stored as 0 rather than rejected.
//
// Endpoint: PUT /api/selection/{ticker}
// Request: {"shares": "3"} or {"shares": 3}
// Response: 200 OK with SelectionResponse
// Error: 400 Bad Request if the body is not JSON
func (h *SelectionHandler) SetShares(w http.ResponseWriter, r *http.Request) {
	var req request.SetSharesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.store.SetShares(chi.URLParam(r, "ticker"), string(req.Shares))
	respondJSON(w, http.StatusOK, h.snapshot())
}

// IncrementShares handles POST requests that add shares to a ticker.
//
// Endpoint: POST /api/selection/{ticker}/increment
// Request: {"delta": 1}; an empty body adds one share
// Response: 200 OK with SelectionResponse
// Error: 400 Bad Request if the body is not JSON
func (h *SelectionHandler) IncrementShares(w http.ResponseWriter, r *http.Request) {
	var req request.IncrementSharesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.store.IncrementShares(chi.URLParam(r, "ticker"), req.DeltaOrDefault())
	respondJSON(w, http.StatusOK, h.snapshot())
}

// Commit handles POST requests that add the selection to the portfolio.
// The selection is cleared afterwards whatever the per-ticker outcome.
// Partial failure is reported in the body, not through the status code.
//
// Endpoint: POST /api/selection/commit
// Response: 200 OK with CommitResponse
func (h *SelectionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	outcome, record, err := h.portfolioSync.CommitSelection(r.Context(), h.store)

	resp := CommitResponse{
		ID:        record.ID,
		CreatedAt: record.CreatedAt,
		Succeeded: outcome.Succeeded,
		Failed:    map[string]CommitFailure{},
		Messages:  outcome.Messages,
	}
	for _, result := range record.Results {
		if result.Status == model.CommitFailed {
			resp.Failed[result.Ticker] = CommitFailure{Reason: result.Reason, Message: result.Message}
		}
	}
	if err != nil {
		resp.JournalError = err.Error()
	}

	respondJSON(w, http.StatusOK, resp)
}

// Commits handles GET requests for the commit journal, newest first.
//
// Endpoint: GET /api/selection/commits?limit=20
// Response: 200 OK with array of model.CommitRecord
// Error: 500 Internal Server Error if the journal cannot be read
func (h *SelectionHandler) Commits(w http.ResponseWriter, r *http.Request) {
	limit := request.ParseLimit(r.URL.Query().Get("limit"), defaultCommitListLimit)

	records, err := h.portfolioSync.ListCommits(r.Context(), limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToListCommits.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// CommitByID handles GET requests for one journaled commit.
//
// Endpoint: GET /api/selection/commits/{commitId}
// Response: 200 OK with model.CommitRecord
// Error: 404 Not Found if no commit has the ID
func (h *SelectionHandler) CommitByID(w http.ResponseWriter, r *http.Request) {
	record, err := h.portfolioSync.GetCommit(r.Context(), chi.URLParam(r, "commitId"))
	if err != nil {
		if errors.Is(err, apperrors.ErrCommitNotFound) {
			response.RespondServiceError(w, "commit not found", err)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to get commit", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, record)
}
