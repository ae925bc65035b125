package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/request"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/response"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

// RecommendationHandler handles HTTP requests for strategy recommendations.
type RecommendationHandler struct {
	recommendationService *service.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendationService *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// RecommendationsResponse is the catalog loaded from a strategy.
type RecommendationsResponse struct {
	Strategy        string               `json:"strategy"`
	Recommendations []model.CatalogEntry `json:"recommendations"`
}

// Load handles POST requests that load a strategy's recommendations as the
// catalog. The current selection is reset.
//
// Endpoint: POST /api/recommendations
// Request: {"strategy": "growth" | "dividend" | "risk_minimization"}
// Response: 200 OK with RecommendationsResponse
// Error: 400 Bad Request for an unknown strategy
// Error: 502 Bad Gateway if the backend fails
func (h *RecommendationHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req request.RecommendationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	catalog, err := h.recommendationService.Load(r.Context(), req.Strategy)
	if err != nil {
		response.RespondServiceError(w, "Failed to fetch recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, RecommendationsResponse{Strategy: req.Strategy, Recommendations: catalog})
}
