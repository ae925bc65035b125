package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Stock-Picker/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/config"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

// Services bundles the services the router exposes.
type Services struct {
	System          *service.SystemService
	Store           *service.SelectionStore
	PortfolioSync   *service.PortfolioSync
	PriceLookup     *service.PriceLookup
	Recommendations *service.RecommendationService
	Portfolio       *service.PortfolioService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	stockHandler := handlers.NewStockHandler(svc.PriceLookup, svc.Store, svc.Portfolio)
	selectionHandler := handlers.NewSelectionHandler(svc.Store, svc.PortfolioSync)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	recommendationHandler := handlers.NewRecommendationHandler(svc.Recommendations)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/search", stockHandler.Search)
			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbol)
				r.Get("/quote", stockHandler.Quote)
				r.Get("/series", stockHandler.Series)
				r.Get("/history", stockHandler.History)
			})
		})

		r.Post("/recommendations", recommendationHandler.Load)

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", selectionHandler.Selection)
			r.Delete("/", selectionHandler.Clear)
			r.Post("/commit", selectionHandler.Commit)
			r.Get("/commits", selectionHandler.Commits)
			r.With(custommiddleware.ValidateCommitID).Get("/commits/{commitId}", selectionHandler.CommitByID)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbol)
				r.Put("/", selectionHandler.SetShares)
				r.Post("/increment", selectionHandler.IncrementShares)
			})
		})

		r.Get("/portfolio", portfolioHandler.Overview)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", portfolioHandler.Notifications)
			r.Post("/generate", portfolioHandler.GenerateNotifications)
		})
	})

	return r
}
