package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mypage-shop/internal/domain"
)

// SettingsRepository reads the singleton display configuration row.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
}

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the system settings. A missing row falls back to the
// default system name so branding never errors a page.
func (r *settingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	query := `
		SELECT system_name, primary_color, secondary_color, logo_url
		FROM system_settings
		WHERE id = 1
	`

	settings := &domain.SystemSettings{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&settings.SystemName,
		&settings.PrimaryColor,
		&settings.SecondaryColor,
		&settings.LogoURL,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.SystemSettings{SystemName: "マイページ"}, nil
		}
		return nil, fmt.Errorf("failed to load system settings: %w", err)
	}

	return settings, nil
}
