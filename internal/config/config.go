package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/meur/gameshelf/internal/render"
)

// EnvPrefix prefixes environment overrides, e.g. GAMESHELF_SERVER__ADDR.
const EnvPrefix = "GAMESHELF_"

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Catalog CatalogConfig `koanf:"catalog" yaml:"catalog"`
	Render  RenderConfig  `koanf:"render" yaml:"render"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr           string   `koanf:"addr" yaml:"addr"`
	AllowedOrigins []string `koanf:"allowed_origins" yaml:"allowed_origins"`
	AssetsDir      string   `koanf:"assets_dir" yaml:"assets_dir"`
}

// CatalogConfig says where the game list comes from.
type CatalogConfig struct {
	// Source is a file path, an http(s) URL, or sqlite://path.
	Source string `koanf:"source" yaml:"source"`
	// Timeout bounds an HTTP fetch; zero waits forever.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
}

// RenderConfig selects the card variant.
type RenderConfig struct {
	Images bool          `koanf:"images" yaml:"images"`
	Markup render.Markup `koanf:"markup" yaml:"markup"`
	Title  string        `koanf:"title" yaml:"title"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `koanf:"level" yaml:"level"`
	Development bool   `koanf:"development" yaml:"development"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Catalog: CatalogConfig{
			Source: "games.json",
		},
		Render: RenderConfig{
			Markup: render.MarkupEscape,
			Title:  "Game recommendations",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GAMESHELF_*). A missing file is not an
// error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// GAMESHELF_CATALOG__SOURCE -> catalog.source
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if strings.TrimSpace(c.Catalog.Source) == "" {
		return fmt.Errorf("catalog.source is required")
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must be non-negative")
	}
	if !c.Render.Markup.Valid() {
		return fmt.Errorf("invalid render.markup %q: must be one of escape, sanitize", c.Render.Markup)
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// Dump renders the configuration as YAML.
func (c *Config) Dump() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
