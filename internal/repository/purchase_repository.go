package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sweet-shop/internal/domain"

	"github.com/google/uuid"
)

// PurchaseRepository defines the interface for purchase ledger access.
// Records are append-only.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.Purchase) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error)
}

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository
func NewPurchaseRepository(db *sql.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create appends a purchase record
func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (id, user_id, sweet_id, quantity, price_at_purchase, total_amount, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		purchase.ID,
		purchase.UserID,
		purchase.SweetID,
		purchase.Quantity,
		purchase.PriceAtPurchase,
		purchase.TotalAmount,
		purchase.PurchasedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	return nil
}

// ListByUser returns every purchase of a user, newest first
func (r *purchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Purchase, error) {
	query := `
		SELECT id, user_id, sweet_id, quantity, price_at_purchase, total_amount, purchased_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY purchased_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := []*domain.Purchase{}
	for rows.Next() {
		purchase := &domain.Purchase{}
		err := rows.Scan(
			&purchase.ID,
			&purchase.UserID,
			&purchase.SweetID,
			&purchase.Quantity,
			&purchase.PriceAtPurchase,
			&purchase.TotalAmount,
			&purchase.PurchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}
