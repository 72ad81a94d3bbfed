package driving

import "github.com/custodia-labs/podchunk/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Set updates a single setting by dot-notation key and persists it.
	Set(key, value string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// StoredKeys returns the keys set explicitly in the configuration,
	// sorted. Every other key uses its default.
	StoredKeys() []string

	// Path returns the location of the backing configuration.
	Path() string
}
