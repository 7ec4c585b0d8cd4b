package transport

import (
	"context"
	"net/http"

	"mypage-shop/internal/cache"
	"mypage-shop/internal/domain"
	"mypage-shop/internal/middleware"
	"mypage-shop/internal/repository"
	"mypage-shop/internal/service"
	"mypage-shop/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// View states for the page endpoints. "loading" means session
// resolution is still in flight and the client must not act yet.
const (
	ViewStateLoading = "loading"
	ViewStateReady   = "ready"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// MenuItem is a navigation shortcut on the dashboard.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// DashboardView is the account dashboard view model.
type DashboardView struct {
	State          string                 `json:"state"`
	User           *session.Session       `json:"user,omitempty"`
	Settings       *domain.SystemSettings `json:"settings,omitempty"`
	Enrollments    []*domain.Enrollment   `json:"enrollments,omitempty"`
	HasEnrollments bool                   `json:"hasEnrollments"`
	Menu           []MenuItem             `json:"menu,omitempty"`
}

// ShopProduct augments a product with its add-to-cart affordance.
type ShopProduct struct {
	*domain.Product
	CanAddToCart bool `json:"canAddToCart"`
}

// CartBadge is the live cart-count badge on the shop page.
type CartBadge struct {
	ItemCount int `json:"itemCount"`
}

// ShopView is the shop catalog view model.
type ShopView struct {
	State      string             `json:"state"`
	Products   []ShopProduct      `json:"products"`
	Categories []*domain.Category `json:"categories"`
	Cart       CartBadge          `json:"cart"`
}

// MyPageHandler composes the data accessors into the two customer
// screens. Unlike the API handlers it uses the session guard directly:
// an unresolved session renders a loading state, staff sessions are
// redirected to the operational dashboard, and anonymous visitors to
// login.
type MyPageHandler struct {
	guard             *session.Guard
	catalogService    service.CatalogService
	cartService       service.CartService
	enrollmentService service.EnrollmentService
	settingsRepo      repository.SettingsRepository
	settingsCache     *cache.Cache[*domain.SystemSettings]
	categoryCache     *cache.Cache[[]*domain.Category]
	badges            *cache.Cache[int]
	logger            *zap.Logger
}

// NewMyPageHandler creates a new MyPageHandler
func NewMyPageHandler(
	guard *session.Guard,
	catalogService service.CatalogService,
	cartService service.CartService,
	enrollmentService service.EnrollmentService,
	settingsRepo repository.SettingsRepository,
	settingsCache *cache.Cache[*domain.SystemSettings],
	categoryCache *cache.Cache[[]*domain.Category],
	badges *cache.Cache[int],
	logger *zap.Logger,
) *MyPageHandler {
	return &MyPageHandler{
		guard:             guard,
		catalogService:    catalogService,
		cartService:       cartService,
		enrollmentService: enrollmentService,
		settingsRepo:      settingsRepo,
		settingsCache:     settingsCache,
		categoryCache:     categoryCache,
		badges:            badges,
		logger:            logger,
	}
}

// RegisterRoutes registers the page routes.
func (h *MyPageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/mypage", h.Dashboard)
	r.Get("/mypage/shop", h.Shop)
}

// gate applies the shared routing decision for customer pages and
// returns the customer session when the caller should proceed.
func (h *MyPageHandler) gate(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	state := h.guard.FromRequest(r)

	switch state.Kind {
	case session.Loading:
		// Resolution in flight: render loading, take no action.
		middleware.RespondWithJSON(w, http.StatusOK, DashboardView{State: ViewStateLoading})
		return nil, false
	case session.Anonymous:
		http.Redirect(w, r, loginPath, http.StatusFound)
		return nil, false
	}

	if !state.Session.IsCustomer() {
		http.Redirect(w, r, dashboardPath, http.StatusFound)
		return nil, false
	}

	return state.Session, true
}

// Dashboard renders the account dashboard: greeting, enrollments (or
// an explicit empty state), and navigation shortcuts.
func (h *MyPageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.gate(w, r)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListEnrollments(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("Failed to load dashboard enrollments", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	settings, err := h.settingsCache.Get(r.Context(), settingsCacheKey, func(ctx context.Context) (*domain.SystemSettings, error) {
		return h.settingsRepo.Get(ctx)
	})
	if err != nil {
		// Branding must not block the page.
		h.logger.Warn("Falling back to default branding", zap.Error(err))
		settings = &domain.SystemSettings{SystemName: "マイページ"}
	}

	menu := []MenuItem{
		{Label: "アカウント", Path: "/mypage/profile"},
		{Label: "ショップ", Path: "/mypage/shop"},
	}
	if len(enrollments) > 0 {
		menu = append(menu, MenuItem{Label: "コミュニティ", Path: "/mypage/community"})
	}

	middleware.RespondWithJSON(w, http.StatusOK, DashboardView{
		State:          ViewStateReady,
		User:           sess,
		Settings:       settings,
		Enrollments:    enrollments,
		HasEnrollments: len(enrollments) > 0,
		Menu:           menu,
	})
}

// Shop renders the catalog screen: filtered products with per-item
// availability, all categories, and the cart badge.
func (h *MyPageHandler) Shop(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.gate(w, r)
	if !ok {
		return
	}

	filter := domain.ProductFilter{
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		filter.Category = &categoryID
	}

	products, err := h.catalogService.ListProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to load shop products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load shop")
		return
	}

	categories, err := h.categoryCache.Get(r.Context(), "categories", func(ctx context.Context) ([]*domain.Category, error) {
		return h.catalogService.ListCategories(ctx)
	})
	if err != nil {
		h.logger.Error("Failed to load shop categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load shop")
		return
	}

	itemCount, err := h.badges.Get(r.Context(), cartBadgeKey(sess.UserID), func(ctx context.Context) (int, error) {
		cart, err := h.cartService.GetCart(ctx, sess.UserID)
		if err != nil {
			return 0, err
		}
		return cart.ItemCount, nil
	})
	if err != nil {
		// The badge is decoration; the catalog still renders.
		h.logger.Warn("Failed to load cart badge", zap.Error(err))
		itemCount = 0
	}

	view := ShopView{
		State:      ViewStateReady,
		Products:   make([]ShopProduct, 0, len(products)),
		Categories: categories,
		Cart:       CartBadge{ItemCount: itemCount},
	}
	for _, p := range products {
		view.Products = append(view.Products, ShopProduct{
			Product:      p,
			CanAddToCart: p.Stock > 0,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}
