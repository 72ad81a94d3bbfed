package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
	"github.com/custodia-labs/podchunk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// settingKind is the value type stored under a key.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindList
)

var settingKinds = map[string]settingKind{
	domain.KeyTranscriptsDir:         kindString,
	domain.KeyOutputDir:              kindString,
	domain.KeyStoreEnabled:           kindBool,
	domain.KeyFilterMinChars:         kindInt,
	domain.KeyFilterMinSentences:     kindInt,
	domain.KeyFilterMaxSentences:     kindInt,
	domain.KeyFilterShortHostChars:   kindInt,
	domain.KeyFilterMaxQuestionMarks: kindInt,
	domain.KeyFilterMaxGlueHits:      kindInt,
	domain.KeyFilterHosts:            kindList,
	domain.KeyFilterBoilerplate:      kindList,
	domain.KeyFilterGlue:             kindList,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Keys that are absent keep
// their defaults; keys that are present are used as-is, so a zero
// threshold or an empty list disables its rule. A present key holding the
// wrong type is an error rather than a silent zero.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	r := &settingsReader{store: s.configStore}

	settings.TranscriptsDir = r.str(domain.KeyTranscriptsDir, settings.TranscriptsDir)
	settings.OutputDir = r.str(domain.KeyOutputDir, settings.OutputDir)
	settings.StoreEnabled = r.boolean(domain.KeyStoreEnabled, settings.StoreEnabled)

	f := &settings.Filter
	f.MinChars = r.integer(domain.KeyFilterMinChars, f.MinChars)
	f.MinSentences = r.integer(domain.KeyFilterMinSentences, f.MinSentences)
	f.MaxSentences = r.integer(domain.KeyFilterMaxSentences, f.MaxSentences)
	f.ShortHostChars = r.integer(domain.KeyFilterShortHostChars, f.ShortHostChars)
	f.MaxQuestionMarks = r.integer(domain.KeyFilterMaxQuestionMarks, f.MaxQuestionMarks)
	f.MaxGlueHits = r.integer(domain.KeyFilterMaxGlueHits, f.MaxGlueHits)
	f.Hosts = r.list(domain.KeyFilterHosts, f.Hosts)
	f.BoilerplatePhrases = r.list(domain.KeyFilterBoilerplate, f.BoilerplatePhrases)
	f.GluePhrases = r.list(domain.KeyFilterGlue, f.GluePhrases)

	if r.err != nil {
		return nil, r.err
	}

	if f.MinSentences > 0 && f.MaxSentences > 0 && f.MinSentences > f.MaxSentences {
		return nil, fmt.Errorf("%w: %s (%d) exceeds %s (%d)", domain.ErrInvalidInput,
			domain.KeyFilterMinSentences, f.MinSentences, domain.KeyFilterMaxSentences, f.MaxSentences)
	}

	return &settings, nil
}

// Set parses value according to the key's type and persists it.
// Lists are comma-separated; an empty value stores an empty list.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false: %q", domain.ErrInvalidInput, key, value)
		}
		parsed = b
	case kindList:
		parsed = splitList(value)
	default:
		parsed = strings.TrimSpace(value)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the location of the backing configuration.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// StoredKeys returns the keys set explicitly in the configuration.
func (s *SettingsService) StoredKeys() []string {
	return s.configStore.Keys()
}

// settingsReader reads typed values from a ConfigStore and keeps the first
// type mismatch it sees.
type settingsReader struct {
	store driven.ConfigStore
	err   error
}

func (r *settingsReader) fail(key, want string, got any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s must be %s, got %T", domain.ErrInvalidInput, key, want, got)
	}
}

func (r *settingsReader) str(key, defaultVal string) string {
	raw, exists := r.store.Get(key)
	if !exists {
		return defaultVal
	}
	val, ok := raw.(string)
	if !ok {
		r.fail(key, "a string", raw)
		return defaultVal
	}
	if val == "" {
		return defaultVal
	}
	return val
}

func (r *settingsReader) integer(key string, defaultVal int) int {
	raw, exists := r.store.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
	}
	r.fail(key, "an integer", raw)
	return defaultVal
}

func (r *settingsReader) boolean(key string, defaultVal bool) bool {
	raw, exists := r.store.Get(key)
	if !exists {
		return defaultVal
	}
	val, ok := raw.(bool)
	if !ok {
		r.fail(key, "true or false", raw)
		return defaultVal
	}
	return val
}

func (r *settingsReader) list(key string, defaultVal []string) []string {
	raw, exists := r.store.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := raw.(type) {
	case string:
		return splitList(v)
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				r.fail(key, "a list of strings", raw)
				return defaultVal
			}
			out = append(out, str)
		}
		return out
	}
	r.fail(key, "a list of strings", raw)
	return defaultVal
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
