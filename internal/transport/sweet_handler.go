package transport

import (
	"net/http"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/middleware"
	"sweet-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateSweetRequest represents the payload for adding a catalog item
type CreateSweetRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Category    string           `json:"category" validate:"required,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lte=99999999.99"`
	Quantity    int              `json:"quantity" validate:"gte=0,lte=2147483647"`
	Description *string          `json:"description,omitempty"`
}

// UpdateSweetRequest represents a partial update; omitted fields keep their value
type UpdateSweetRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999999.99"`
	Quantity    *int             `json:"quantity,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Description *string          `json:"description,omitempty"`
}

// StockRequest carries the quantity for purchase and restock
type StockRequest struct {
	Quantity int `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// SweetHandler handles HTTP requests for the catalog and stock
type SweetHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewSweetHandler creates a new SweetHandler
func NewSweetHandler(inventory service.InventoryService, logger *zap.Logger) *SweetHandler {
	return &SweetHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers all sweet routes
func (h *SweetHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	authenticated := middleware.RequireAccess(middleware.AccessAuthenticated, h.logger)
	admin := middleware.RequireAccess(middleware.AccessAdmin, h.logger)

	r.Route("/api/sweets", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(authenticated).Get("/", h.List)
		r.With(authenticated).Get("/search", h.Search)
		r.With(authenticated).Get("/categories", h.Categories)
		r.With(admin).Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.With(authenticated).Get("/", h.Get)
			r.With(admin).Put("/", h.Update)
			r.With(admin).Delete("/", h.Delete)
			r.With(authenticated).Post("/purchase", h.Purchase)
			r.With(admin).Post("/restock", h.Restock)
		})
	})
}

// List returns the whole catalog
func (h *SweetHandler) List(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.inventory.List(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sweets)
}

// Search filters the catalog by name, category and price range
func (h *SweetHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSweetFilter(r)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	sweets, err := h.inventory.Search(r.Context(), filter)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sweets)
}

// Categories lists the distinct categories in the catalog
func (h *SweetHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.inventory.Categories(r.Context())
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Get returns a single sweet
func (h *SweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sweetID(w, r)
	if !ok {
		return
	}

	sweet, err := h.inventory.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sweet)
}

// Create adds a sweet to the catalog
func (h *SweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSweetRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	sweet, err := h.inventory.Create(r.Context(), service.CreateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       *req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Sweet created", zap.String("sweet_id", sweet.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, sweet)
}

// Update applies a partial update to a sweet
func (h *SweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sweetID(w, r)
	if !ok {
		return
	}

	var req UpdateSweetRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	sweet, err := h.inventory.Update(r.Context(), id, service.UpdateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sweet)
}

// Delete removes a sweet from the catalog
func (h *SweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sweetID(w, r)
	if !ok {
		return
	}

	if err := h.inventory.Delete(r.Context(), id); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Sweet deleted", zap.String("sweet_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Purchase buys quantity units for the caller
func (h *SweetHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sweetID(w, r)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req StockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	sweet, err := h.inventory.Purchase(r.Context(), userID, id, req.Quantity)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sweet)
}

// Restock adds quantity units to stock
func (h *SweetHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sweetID(w, r)
	if !ok {
		return
	}

	var req StockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	sweet, err := h.inventory.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Sweet restocked",
		zap.String("sweet_id", id.String()),
		zap.Int("quantity", req.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) sweetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sweet ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseSweetFilter(r *http.Request) (domain.SweetFilter, error) {
	query := r.URL.Query()
	var filter domain.SweetFilter

	if name := query.Get("name"); name != "" {
		filter.Name = &name
	}
	if category := query.Get("category"); category != "" {
		filter.Category = &category
	}

	for param, target := range map[string]**decimal.Decimal{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.SweetFilter{}, domain.Validation("%s must be a number", param)
		}
		*target = &value
	}

	return filter, nil
}
