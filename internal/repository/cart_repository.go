package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mypage-shop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrStockExceeded    = errors.New("requested quantity exceeds available stock")
)

// CartRepository defines the interface for cart data access. One cart
// exists per customer; items are rows keyed by (user_id, product_id).
type CartRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetByUser retrieves the customer's cart with product details attached.
// ItemCount is the sum of line quantities, matching the badge the shop
// page renders.
func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT ci.id, ci.product_id, ci.quantity, ci.added_at,
		       p.name, p.description, p.price, p.stock, p.image_url, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.added_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	defer rows.Close()

	cart := &domain.Cart{Items: []*domain.CartItem{}}
	for rows.Next() {
		item := &domain.CartItem{UserID: userID, Product: &domain.Product{}}
		err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Quantity,
			&item.AddedAt,
			&item.Product.Name,
			&item.Product.Description,
			&item.Product.Price,
			&item.Product.Stock,
			&item.Product.ImageURL,
			&item.Product.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Product.ID = item.ProductID
		cart.Items = append(cart.Items, item)
		cart.ItemCount += item.Quantity
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

// AddItem adds quantity of a product to the customer's cart as a single
// conditional upsert. Concurrent adds for the same product sum their
// quantities; the update never applies when the resulting quantity would
// exceed the product's stock, and the insert never applies for missing
// or inactive products.
func (r *cartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, added_at)
		SELECT $1, $2, $3, $4, NOW()
		FROM products p
		WHERE p.id = $3 AND p.is_active = TRUE AND p.stock >= $4
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    added_at = NOW()
		WHERE cart_items.quantity + EXCLUDED.quantity <=
		      (SELECT stock FROM products WHERE id = EXCLUDED.product_id)
		RETURNING id, quantity, added_at
	`

	item := &domain.CartItem{
		UserID:    userID,
		ProductID: productID,
	}

	var addedAt time.Time
	err := r.db.QueryRowContext(ctx, query, uuid.New(), userID, productID, quantity).Scan(
		&item.ID,
		&item.Quantity,
		&addedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// The guarded insert/update declined to apply.
			return nil, ErrStockExceeded
		}
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	item.AddedAt = addedAt

	return item, nil
}

// RemoveItem deletes one product line from the customer's cart.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}
