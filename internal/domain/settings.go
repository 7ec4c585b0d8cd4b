package domain

// SystemSettings holds the display configuration consumed by the
// customer-facing pages for branding. A single row exists.
type SystemSettings struct {
	SystemName     string `json:"systemName" db:"system_name"`
	PrimaryColor   string `json:"primaryColor,omitempty" db:"primary_color"`
	SecondaryColor string `json:"secondaryColor,omitempty" db:"secondary_color"`
	LogoURL        string `json:"logoUrl,omitempty" db:"logo_url"`
}
