package transport

import (
	"errors"
	"net/http"

	"mypage-shop/internal/cache"
	"mypage-shop/internal/middleware"
	"mypage-shop/internal/repository"
	"mypage-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest is the add-to-cart payload.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CartHandler handles HTTP requests for the customer's cart.
type CartHandler struct {
	cartService service.CartService
	badges      *cache.Cache[int]
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler. badges is the shared
// cart-count cache the shop view reads; mutations invalidate it here.
func NewCartHandler(cartService service.CartService, badges *cache.Cache[int], logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		badges:      badges,
		logger:      logger,
	}
}

// RegisterRoutes registers the cart routes behind authentication.
// All cart operations require a customer session.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireCustomer(h.logger))
		r.Get("/api/cart", h.GetCart)
		r.Post("/api/cart", h.AddToCart)
		r.Delete("/api/cart/{productID}", h.RemoveFromCart)
	})
}

// GetCart returns the customer's cart contents and item count.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// AddToCart adds a product to the customer's cart. The quantity
// increment is atomic server-side, so two parallel adds of the same
// product sum rather than overwrite.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	item, err := h.cartService.AddToCart(r.Context(), sess.UserID, productID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be at least 1")
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrProductInactive):
			middleware.RespondWithError(w, http.StatusBadRequest, "product does not exist")
		case errors.Is(err, service.ErrStockExceeded):
			middleware.RespondWithError(w, http.StatusBadRequest, "requested quantity exceeds available stock")
		default:
			h.logger.Error("Failed to add to cart", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		}
		return
	}

	h.badges.Invalidate(cartBadgeKey(sess.UserID))

	h.logger.Info("Item added to cart",
		zap.String("user_id", sess.UserID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", item.Quantity),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// RemoveFromCart deletes one product line from the customer's cart.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.cartService.RemoveFromCart(r.Context(), sess.UserID, productID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
			return
		}
		h.logger.Error("Failed to remove from cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from cart")
		return
	}

	h.badges.Invalidate(cartBadgeKey(sess.UserID))

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func cartBadgeKey(userID uuid.UUID) string {
	return "cart-count:" + userID.String()
}
