package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal template parses to defaults", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# gotypstyle configuration")
		assert.NotContains(t, string(data), "server:")

		cfg, err := config.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.MaxWidth)
		assert.Equal(t, 2, cfg.BlankLines())
		assert.Equal(t, []string{".typ"}, cfg.Extensions)
		assert.Equal(t, []string{"vendor/**"}, cfg.Exclude)
	})

	t.Run("full template documents every section", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, time.Hour, cfg.Server.CacheTTL)
		assert.Equal(t, config.BackupNone, cfg.Backups)
		assert.Equal(t, config.ColorAuto, cfg.Color)
		assert.False(t, cfg.Cache.Enabled)
	})

	t.Run("json template", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var generic map[string]any
		require.NoError(t, json.Unmarshal(data, &generic))
		assert.InDelta(t, 120, generic["max_width"], 0)
		assert.Equal(t, "text", generic["output"])
	})
}
