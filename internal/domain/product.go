package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a purchasable item in the shop catalog.
// Prices are stored in the smallest currency unit (whole yen).
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Price       int64      `json:"price" db:"price"`
	Stock       int        `json:"stock" db:"stock"`
	ImageURL    string     `json:"imageUrl,omitempty" db:"image_url"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty" db:"category_id"`
	Category    *Category  `json:"category,omitempty" db:"-"`
	SortOrder   int        `json:"sortOrder" db:"sort_order"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProductFilter narrows a catalog listing. Both fields are optional and
// combine with logical AND.
type ProductFilter struct {
	Search   string
	Category *uuid.UUID
}
