package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/menu-studio/internal/llm"
	"github.com/ziadkadry99/menu-studio/internal/render"
)

const envPrefix = "MENUSTUDIO_"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:   ".menustudio",
		ExportDir: "exports",
		LogLevel:  "info",
		LogFormat: "console",
		Server: ServerConfig{
			Port: 8080,
		},
		Export: ExportConfig{
			Scale:         2,
			SettleTimeout: 10 * time.Second,
			MaxImageBytes: 20 << 20,
		},
		Preview: PreviewConfig{
			Mode:     string(render.ModeNormal),
			Viewport: render.DefaultViewport,
		},
		LLM: LLMConfig{
			Provider: "none",
		},
		Notify: NotifyConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MENUSTUDIO_*). Nested keys use a double
// underscore: MENUSTUDIO_SERVER__PORT sets server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var (
	validLevels    = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validFormats   = map[string]bool{"console": true, "json": true}
	validProviders = map[string]bool{"": true, "none": true, "openai": true, "openrouter": true, "ollama": true}
)

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export_dir is required")
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of trace, debug, info, warn, error", c.LogLevel)
	}
	if !validFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be console or json", c.LogFormat)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Export.Scale <= 0 || c.Export.Scale > 4 {
		return fmt.Errorf("export.scale must be in (0, 4], got %v", c.Export.Scale)
	}
	if c.Export.SettleTimeout < 0 || c.Export.SettleDelay < 0 {
		return fmt.Errorf("export settle durations must be non-negative")
	}
	if c.Export.MaxImageBytes <= 0 {
		return fmt.Errorf("export.max_image_bytes must be positive")
	}
	if !render.Mode(c.Preview.Mode).Valid() {
		return fmt.Errorf("invalid preview.mode %q", c.Preview.Mode)
	}
	if c.Preview.Viewport <= 0 {
		return fmt.Errorf("preview.viewport must be positive")
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of none, openai, openrouter, ollama", c.LLM.Provider)
	}
	if c.LLMEnabled() && c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required when llm.provider is %s", c.LLM.Provider)
	}
	for _, hook := range c.Notify.Webhooks {
		u, err := url.Parse(hook)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid notify webhook %q: must be an http(s) URL", hook)
		}
	}
	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("notify.timeout must be positive")
	}
	return nil
}

// DBPath is the SQLite file holding the document and export history.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "menu-studio.db")
}

// LLMEnabled reports whether an importer model is configured.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Provider != "" && c.LLM.Provider != "none"
}

// LLMSettings converts the llm section for llm.NewProvider.
func (c *Config) LLMSettings() llm.Settings {
	return llm.Settings{
		Provider:  c.LLM.Provider,
		Model:     c.LLM.Model,
		BaseURL:   c.LLM.BaseURL,
		APIKeyEnv: c.LLM.APIKeyEnv,
	}
}
