package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateSweetInput carries the fields of a new catalog item
type CreateSweetInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Quantity    int
	Description *string
}

// UpdateSweetInput is a partial update; nil fields are left unchanged
type UpdateSweetInput struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
}

// PurchaseRecorder appends completed purchases to the ledger
type PurchaseRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, sweet *domain.Sweet, quantity int) (*domain.Purchase, error)
}

// InventoryService defines the interface for catalog and stock logic
type InventoryService interface {
	Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Sweet, error)
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Purchase(ctx context.Context, userID, id uuid.UUID, quantity int) (*domain.Sweet, error)
	Restock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Sweet, error)
	Categories(ctx context.Context) ([]string, error)
}

type inventoryService struct {
	sweetRepo repository.SweetRepository
	ledger    PurchaseRecorder
	locks     *keyedMutex
	logger    *zap.Logger
	now       func() time.Time
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(sweetRepo repository.SweetRepository, ledger PurchaseRecorder, logger *zap.Logger) InventoryService {
	return &inventoryService{
		sweetRepo: sweetRepo,
		ledger:    ledger,
		locks:     newKeyedMutex(),
		logger:    logger,
		now:       time.Now,
	}
}

// Create validates and stores a new sweet
func (s *inventoryService) Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)

	price := domain.RoundPrice(input.Price)
	if err := validateSweetFields(name, category, price, input.Quantity); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sweet := &domain.Sweet{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		Price:       price,
		Quantity:    input.Quantity,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sweetRepo.Create(ctx, sweet); err != nil {
		return nil, fmt.Errorf("failed to create sweet: %w", err)
	}

	return sweet, nil
}

// Get retrieves a single sweet
func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Sweet, error) {
	sweet, err := s.sweetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateSweetError(err, id)
	}
	return sweet, nil
}

// List retrieves the whole catalog, newest first
func (s *inventoryService) List(ctx context.Context) ([]*domain.Sweet, error) {
	sweets, err := s.sweetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	return sweets, nil
}

// Search retrieves the sweets matching every set field of filter
func (s *inventoryService) Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, domain.Validation("min_price must not be greater than max_price")
	}

	sweets, err := s.sweetRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}
	return sweets, nil
}

// Update applies the provided fields to an existing sweet
func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, input UpdateSweetInput) (*domain.Sweet, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sweet, err := s.sweetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateSweetError(err, id)
	}

	if input.Name != nil {
		sweet.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		sweet.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		sweet.Price = domain.RoundPrice(*input.Price)
	}
	if input.Quantity != nil {
		sweet.Quantity = *input.Quantity
	}
	if input.Description != nil {
		sweet.Description = input.Description
	}

	if err := validateSweetFields(sweet.Name, sweet.Category, sweet.Price, sweet.Quantity); err != nil {
		return nil, err
	}

	sweet.UpdatedAt = s.now().UTC()

	if err := s.sweetRepo.Update(ctx, sweet); err != nil {
		return nil, translateSweetError(err, id)
	}

	return sweet, nil
}

// Delete removes a sweet; its purchase history is kept
func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.sweetRepo.Delete(ctx, id); err != nil {
		return translateSweetError(err, id)
	}
	return nil
}

// Purchase takes quantity units out of stock and records the sale.
// A failed ledger write is logged and does not undo the stock change.
func (s *inventoryService) Purchase(ctx context.Context, userID, id uuid.UUID, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, domain.Validation("quantity must be a positive integer")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	sweet, err := s.sweetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateSweetError(err, id)
	}

	if quantity > sweet.Quantity {
		return nil, &domain.InsufficientStockError{Available: sweet.Quantity, Requested: quantity}
	}

	updated, err := s.sweetRepo.AdjustQuantity(ctx, id, -quantity)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// Another replica took the stock between our read and the update
			current, findErr := s.sweetRepo.FindByID(ctx, id)
			if findErr != nil {
				return nil, translateSweetError(findErr, id)
			}
			return nil, &domain.InsufficientStockError{Available: current.Quantity, Requested: quantity}
		}
		return nil, translateSweetError(err, id)
	}

	if _, err := s.ledger.Record(ctx, userID, sweet, quantity); err != nil {
		s.logger.Error("Failed to record purchase",
			zap.String("user_id", userID.String()),
			zap.String("sweet_id", id.String()),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
	}

	return updated, nil
}

// Restock adds quantity units to stock
func (s *inventoryService) Restock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, domain.Validation("quantity must be a positive integer")
	}
	if quantity > domain.MaxQuantity {
		return nil, domain.Validation("quantity must not exceed %d", domain.MaxQuantity)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	updated, err := s.sweetRepo.AdjustQuantity(ctx, id, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrStockOutOfRange) {
			return nil, domain.Validation("restock would take stock above %d", domain.MaxQuantity)
		}
		return nil, translateSweetError(err, id)
	}

	return updated, nil
}

// Categories lists the distinct category names in the catalog
func (s *inventoryService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.sweetRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func validateSweetFields(name, category string, price domain.Money, quantity int) error {
	switch {
	case name == "":
		return domain.Validation("name is required")
	case category == "":
		return domain.Validation("category is required")
	case price.IsNegative():
		return domain.Validation("price must not be negative")
	case price.GreaterThan(domain.MaxPrice):
		return domain.Validation("price must not exceed %s", domain.MaxPrice.StringFixed(domain.PriceScale))
	case quantity < 0:
		return domain.Validation("quantity must not be negative")
	case quantity > domain.MaxQuantity:
		return domain.Validation("quantity must not exceed %d", domain.MaxQuantity)
	}
	return nil
}

func translateSweetError(err error, id uuid.UUID) error {
	if errors.Is(err, repository.ErrSweetNotFound) {
		return domain.NotFound("sweet %s not found", id)
	}
	return fmt.Errorf("sweet %s: %w", id, err)
}
