package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a customer's cart. One row exists per
// (customer, product) pair; repeated adds increment Quantity.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Product   *Product  `json:"product,omitempty" db:"-"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// Cart aggregates the current customer's cart items.
type Cart struct {
	Items     []*CartItem `json:"items"`
	ItemCount int         `json:"itemCount"`
}
