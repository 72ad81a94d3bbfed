package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "episodes", s.TranscriptsDir)
	assert.Equal(t, "output", s.OutputDir)
	assert.True(t, s.StoreEnabled)
	assert.Equal(t, DefaultFilterConfig(), s.Filter)
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()

	assert.Len(t, keys, 12)
	assert.Contains(t, keys, "filter.min_chars")
	assert.Contains(t, keys, "filter.hosts")
	assert.Contains(t, keys, "paths.transcripts")
}
