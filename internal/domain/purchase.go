package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is an immutable record of one completed purchase.
// SweetID is a weak reference: the sweet may since have changed or been deleted.
type Purchase struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	SweetID         uuid.UUID `json:"sweet_id" db:"sweet_id"`
	Quantity        int       `json:"quantity" db:"quantity"`
	PriceAtPurchase Money     `json:"price_at_purchase" db:"price_at_purchase"`
	TotalAmount     Money     `json:"total_amount" db:"total_amount"`
	PurchasedAt     time.Time `json:"purchased_at" db:"purchased_at"`
}

// PurchaseStatistics aggregates a user's purchase history
type PurchaseStatistics struct {
	TotalPurchases  int         `json:"total_purchases"`
	TotalSpent      Money       `json:"total_spent"`
	TotalItems      int         `json:"total_items"`
	UniqueSweets    int         `json:"unique_sweets"`
	RecentPurchases []*Purchase `json:"recent_purchases"`
}

// RecentPurchaseLimit caps PurchaseStatistics.RecentPurchases
const RecentPurchaseLimit = 5

// NewPurchaseStatistics aggregates purchases, which must be ordered newest first
func NewPurchaseStatistics(purchases []*Purchase) PurchaseStatistics {
	stats := PurchaseStatistics{
		TotalPurchases:  len(purchases),
		RecentPurchases: []*Purchase{},
	}

	seen := make(map[uuid.UUID]struct{})
	for _, p := range purchases {
		stats.TotalSpent = Money{stats.TotalSpent.Add(p.TotalAmount.Decimal)}
		stats.TotalItems += p.Quantity
		seen[p.SweetID] = struct{}{}
	}
	stats.UniqueSweets = len(seen)

	recent := purchases
	if len(recent) > RecentPurchaseLimit {
		recent = recent[:RecentPurchaseLimit]
	}
	stats.RecentPurchases = append(stats.RecentPurchases, recent...)

	return stats
}

// PurchaseWithSweet pairs a purchase with the sweet's current state.
// Sweet is nil once the item has been deleted.
type PurchaseWithSweet struct {
	*Purchase
	Sweet *Sweet `json:"sweet"`
}
