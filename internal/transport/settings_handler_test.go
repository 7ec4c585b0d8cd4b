package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mypage-shop/internal/cache"
	"mypage-shop/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingSettingsRepo counts reads to observe cache behavior.
type countingSettingsRepo struct {
	fakeSettings
	reads int
}

func (r *countingSettingsRepo) Get(ctx context.Context) (*domain.SystemSettings, error) {
	r.reads++
	return r.fakeSettings.Get(ctx)
}

func TestGetSettings_Public(t *testing.T) {
	repo := &fakeSettings{settings: &domain.SystemSettings{
		SystemName:   "テストスクール",
		PrimaryColor: "#1a73e8",
	}}
	handler := NewSettingsHandler(repo, cache.New[*domain.SystemSettings](time.Minute, time.Minute), zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	req := httptest.NewRequest("GET", "/api/system-settings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var settings domain.SystemSettings
	require.NoError(t, json.NewDecoder(w.Body).Decode(&settings))
	assert.Equal(t, "テストスクール", settings.SystemName)
	assert.Equal(t, "#1a73e8", settings.PrimaryColor)
}

func TestGetSettings_ReadsAreCached(t *testing.T) {
	repo := &countingSettingsRepo{fakeSettings: fakeSettings{
		settings: &domain.SystemSettings{SystemName: "キャッシュ確認"},
	}}
	handler := NewSettingsHandler(repo, cache.New[*domain.SystemSettings](time.Minute, time.Minute), zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/system-settings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 1, repo.reads, "repeated reads within the fresh window must hit the cache")
}
