package repository

import (
	"context"
	"testing"
)

func TestSettingsGet_MissingRowFallsBackToDefault(t *testing.T) {
	repo := NewSettingsRepository(testDB)

	_, _ = testDB.Exec(`DELETE FROM system_settings WHERE id = 1`)

	settings, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if settings.SystemName != "マイページ" {
		t.Errorf("expected default system name, got %q", settings.SystemName)
	}
}

func TestSettingsGet_SingletonRow(t *testing.T) {
	repo := NewSettingsRepository(testDB)

	_, err := testDB.Exec(`
		INSERT INTO system_settings (id, system_name, primary_color, secondary_color, logo_url)
		VALUES (1, 'テストスクール', '#1a73e8', '#fbbc04', 'https://cdn.example.com/logo.png')
		ON CONFLICT (id) DO UPDATE
		SET system_name = EXCLUDED.system_name,
		    primary_color = EXCLUDED.primary_color,
		    secondary_color = EXCLUDED.secondary_color,
		    logo_url = EXCLUDED.logo_url
	`)
	if err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec(`DELETE FROM system_settings WHERE id = 1`)
	})

	settings, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if settings.SystemName != "テストスクール" {
		t.Errorf("unexpected system name %q", settings.SystemName)
	}
	if settings.PrimaryColor != "#1a73e8" {
		t.Errorf("unexpected primary color %q", settings.PrimaryColor)
	}
	if settings.LogoURL != "https://cdn.example.com/logo.png" {
		t.Errorf("unexpected logo url %q", settings.LogoURL)
	}

	// The schema forbids a second row.
	_, err = testDB.Exec(`INSERT INTO system_settings (id, system_name) VALUES (2, 'other')`)
	if err == nil {
		t.Error("expected the id=1 check constraint to reject a second row")
	}
}
