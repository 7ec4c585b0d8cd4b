package transport

import (
	"context"
	"net/http"

	"mypage-shop/internal/cache"
	"mypage-shop/internal/domain"
	"mypage-shop/internal/middleware"
	"mypage-shop/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const settingsCacheKey = "system-settings"

// SettingsHandler serves the branding configuration. Settings change
// rarely, so reads go through the stale-while-revalidate cache.
type SettingsHandler struct {
	settingsRepo repository.SettingsRepository
	cache        *cache.Cache[*domain.SystemSettings]
	logger       *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsRepo repository.SettingsRepository, settingsCache *cache.Cache[*domain.SystemSettings], logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsRepo: settingsRepo,
		cache:        settingsCache,
		logger:       logger,
	}
}

// RegisterRoutes registers the settings route. Branding is public.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/system-settings", h.GetSettings)
}

// GetSettings returns the display configuration.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cache.Get(r.Context(), settingsCacheKey, func(ctx context.Context) (*domain.SystemSettings, error) {
		return h.settingsRepo.Get(ctx)
	})
	if err != nil {
		h.logger.Error("Failed to load system settings", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load system settings")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, settings)
}
