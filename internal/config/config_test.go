package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/gameshelf/internal/render"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "games.json", cfg.Catalog.Source)
	assert.Zero(t, cfg.Catalog.Timeout)
	assert.Equal(t, render.MarkupEscape, cfg.Render.Markup)
	assert.False(t, cfg.Render.Images)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameshelf.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  allowed_origins: ["https://games.example.com"]
catalog:
  source: https://example.com/games.json
  timeout: 5s
render:
  images: true
  markup: sanitize
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://games.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://example.com/games.json", cfg.Catalog.Source)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.True(t, cfg.Render.Images)
	assert.Equal(t, render.MarkupSanitize, cfg.Render.Markup)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "Game recommendations", cfg.Render.Title)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GAMESHELF_SERVER__ADDR", ":7070")
	t.Setenv("GAMESHELF_CATALOG__SOURCE", "sqlite:///tmp/games.db")
	t.Setenv("GAMESHELF_RENDER__IMAGES", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "sqlite:///tmp/games.db", cfg.Catalog.Source)
	assert.True(t, cfg.Render.Images)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty addr":       func(c *Config) { c.Server.Addr = "" },
		"empty source":     func(c *Config) { c.Catalog.Source = "  " },
		"negative timeout": func(c *Config) { c.Catalog.Timeout = -time.Second },
		"raw markup":       func(c *Config) { c.Render.Markup = "raw" },
		"bad level":        func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDump(t *testing.T) {
	data, err := DefaultConfig().Dump()
	require.NoError(t, err)
	assert.Contains(t, string(data), "source: games.json")
	assert.Contains(t, string(data), "markup: escape")
}
