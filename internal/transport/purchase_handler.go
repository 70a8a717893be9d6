package transport

import (
	"net/http"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/middleware"
	"sweet-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatisticsResponse is the caller's purchase summary with hydrated recent purchases
type StatisticsResponse struct {
	TotalPurchases  int                         `json:"total_purchases"`
	TotalSpent      domain.Money                `json:"total_spent"`
	TotalItems      int                         `json:"total_items"`
	UniqueSweets    int                         `json:"unique_sweets"`
	RecentPurchases []*domain.PurchaseWithSweet `json:"recent_purchases"`
}

// PurchaseHandler serves the caller's purchase history
type PurchaseHandler struct {
	purchases service.PurchaseService
	logger    *zap.Logger
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchases service.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		logger:    logger,
	}
}

// RegisterRoutes registers all purchase routes
func (h *PurchaseHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/purchases", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAccess(middleware.AccessAuthenticated, h.logger))

		r.Get("/", h.List)
		r.Get("/statistics", h.Statistics)
	})
}

// List returns the caller's purchases, newest first
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	purchases, err := h.purchases.ListForUser(r.Context(), userID)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	hydrated, err := h.purchases.Hydrate(r.Context(), purchases)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, hydrated)
}

// Statistics returns aggregate figures over the caller's purchases
func (h *PurchaseHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.purchases.StatisticsForUser(r.Context(), userID)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	recent, err := h.purchases.Hydrate(r.Context(), stats.RecentPurchases)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, StatisticsResponse{
		TotalPurchases:  stats.TotalPurchases,
		TotalSpent:      stats.TotalSpent,
		TotalItems:      stats.TotalItems,
		UniqueSweets:    stats.UniqueSweets,
		RecentPurchases: recent,
	})
}
