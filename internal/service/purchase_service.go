package service

import (
	"context"
	"fmt"
	"time"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseService defines the interface for the purchase ledger
type PurchaseService interface {
	Record(ctx context.Context, userID uuid.UUID, sweet *domain.Sweet, quantity int) (*domain.Purchase, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error)
	StatisticsForUser(ctx context.Context, userID uuid.UUID) (domain.PurchaseStatistics, error)
	Hydrate(ctx context.Context, purchases []*domain.Purchase) ([]*domain.PurchaseWithSweet, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	sweetRepo    repository.SweetRepository
	now          func() time.Time
}

// NewPurchaseService creates a new instance of PurchaseService
func NewPurchaseService(purchaseRepo repository.PurchaseRepository, sweetRepo repository.SweetRepository) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		sweetRepo:    sweetRepo,
		now:          time.Now,
	}
}

// Record appends a purchase priced at the sweet's price as passed in
func (s *purchaseService) Record(ctx context.Context, userID uuid.UUID, sweet *domain.Sweet, quantity int) (*domain.Purchase, error) {
	purchase := &domain.Purchase{
		ID:              uuid.New(),
		UserID:          userID,
		SweetID:         sweet.ID,
		Quantity:        quantity,
		PriceAtPurchase: sweet.Price,
		TotalAmount:     domain.RoundPrice(sweet.Price.Mul(decimal.NewFromInt(int64(quantity)))),
		PurchasedAt:     s.now().UTC(),
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	return purchase, nil
}

// ListForUser returns the user's purchases, newest first
func (s *purchaseService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// StatisticsForUser aggregates the user's whole purchase history
func (s *purchaseService) StatisticsForUser(ctx context.Context, userID uuid.UUID) (domain.PurchaseStatistics, error) {
	purchases, err := s.ListForUser(ctx, userID)
	if err != nil {
		return domain.PurchaseStatistics{}, err
	}
	return domain.NewPurchaseStatistics(purchases), nil
}

// Hydrate attaches the current state of each referenced sweet
func (s *purchaseService) Hydrate(ctx context.Context, purchases []*domain.Purchase) ([]*domain.PurchaseWithSweet, error) {
	ids := make([]uuid.UUID, 0, len(purchases))
	seen := make(map[uuid.UUID]struct{}, len(purchases))
	for _, p := range purchases {
		if _, ok := seen[p.SweetID]; ok {
			continue
		}
		seen[p.SweetID] = struct{}{}
		ids = append(ids, p.SweetID)
	}

	sweets, err := s.sweetRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchased sweets: %w", err)
	}

	hydrated := make([]*domain.PurchaseWithSweet, len(purchases))
	for i, p := range purchases {
		hydrated[i] = &domain.PurchaseWithSweet{Purchase: p, Sweet: sweets[p.SweetID]}
	}
	return hydrated, nil
}
