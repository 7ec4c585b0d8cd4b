package service

import (
	"context"
	"errors"
	"fmt"

	"mypage-shop/internal/domain"
	"mypage-shop/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrProductInactive = errors.New("product is not available")
	ErrStockExceeded   = repository.ErrStockExceeded
	ErrProductNotFound = repository.ErrProductNotFound
)

// CartService defines the business interface for the customer's cart.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the customer's current cart contents and item count.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddToCart adds quantity of a product to the customer's cart. The
// product must exist and be active, and the resulting line quantity
// must not exceed its stock. The increment itself runs as one atomic
// statement in the repository, so concurrent adds never lose updates.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}

	if !product.IsActive {
		return nil, ErrProductInactive
	}

	item, err := s.cartRepo.AddItem(ctx, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrStockExceeded) {
			return nil, ErrStockExceeded
		}
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	item.Product = product
	return item, nil
}

// RemoveFromCart deletes one product line from the customer's cart.
func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return repository.ErrCartItemNotFound
		}
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return nil
}
