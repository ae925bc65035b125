package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/response"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

// PortfolioHandler handles HTTP requests for the portfolio dashboard.
// It delegates to the backend through the portfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// GenerateResponse carries the backend's confirmation message.
type GenerateResponse struct {
	Message string `json:"message"`
}

// Overview handles GET requests for holdings, total value and allocation.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with model.PortfolioOverview
// Error: 502 Bad Gateway if the backend fails
func (h *PortfolioHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.portfolioService.Overview(r.Context())
	if err != nil {
		response.RespondServiceError(w, "Failed to fetch portfolio data", err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// Notifications handles GET requests for portfolio alerts.
//
// Endpoint: GET /api/notifications
// Response: 200 OK with array of model.Notification
func (h *PortfolioHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.portfolioService.Notifications(r.Context())
	if err != nil {
		response.RespondServiceError(w, "Failed to fetch notifications", err)
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// GenerateNotifications handles POST requests that trigger alert generation.
//
// Endpoint: POST /api/notifications/generate
// Response: 200 OK with GenerateResponse
func (h *PortfolioHandler) GenerateNotifications(w http.ResponseWriter, r *http.Request) {
	msg, err := h.portfolioService.GenerateNotifications(r.Context())
	if err != nil {
		response.RespondServiceError(w, "Failed to generate notifications", err)
		return
	}

	respondJSON(w, http.StatusOK, GenerateResponse{Message: msg})
}
