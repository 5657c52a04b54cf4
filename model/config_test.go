package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchConfig(t *testing.T) {
	t.Run("Returns correct default values", func(t *testing.T) {
		config := DefaultMatchConfig()

		assert.Equal(t, SignatureMulti, config.SignatureMode, "Default signature mode should be multi")
		assert.Equal(t, DedupPerMarker, config.DedupMode, "Default dedup mode should be per-marker")
		assert.Equal(t, "@placeholder", config.Placeholder)
		assert.NoError(t, config.Validate())
	})
}

func TestMatchConfigValidate(t *testing.T) {
	t.Run("Unknown signature mode", func(t *testing.T) {
		config := DefaultMatchConfig()
		config.SignatureMode = "partial"
		assert.ErrorContains(t, config.Validate(), "unknown signature mode")
	})

	t.Run("Unknown dedup mode", func(t *testing.T) {
		config := DefaultMatchConfig()
		config.DedupMode = "none"
		assert.ErrorContains(t, config.Validate(), "unknown dedup mode")
	})

	t.Run("Empty placeholder", func(t *testing.T) {
		config := DefaultMatchConfig()
		config.Placeholder = ""
		assert.Error(t, config.Validate())
	})
}

func TestLoadMatchConfig(t *testing.T) {
	t.Run("Partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "match.yaml")
		err := os.WriteFile(path, []byte("signature_mode: collapsed\n"), 0600)
		require.NoError(t, err)

		config, err := LoadMatchConfig(path)
		require.NoError(t, err)
		assert.Equal(t, SignatureCollapsed, config.SignatureMode)
		assert.Equal(t, DedupPerMarker, config.DedupMode)
		assert.Equal(t, Placeholder, config.Placeholder)
	})

	t.Run("Invalid value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "match.yaml")
		err := os.WriteFile(path, []byte("dedup_mode: sometimes\n"), 0600)
		require.NoError(t, err)

		_, err = LoadMatchConfig(path)
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadMatchConfig("/non/existent/match.yaml")
		assert.Error(t, err)
	})
}
