package config

import "time"

// DefaultPath is where commands look for the config file.
const DefaultPath = ".menustudio.yml"

// Config is the top-level menu-studio configuration, corresponding to
// .menustudio.yml.
type Config struct {
	DataDir   string        `yaml:"data_dir" koanf:"data_dir"`
	ExportDir string        `yaml:"export_dir" koanf:"export_dir"`
	LogLevel  string        `yaml:"log_level" koanf:"log_level"`
	LogFormat string        `yaml:"log_format" koanf:"log_format"`
	Server    ServerConfig  `yaml:"server" koanf:"server"`
	Export    ExportConfig  `yaml:"export" koanf:"export"`
	Preview   PreviewConfig `yaml:"preview" koanf:"preview"`
	LLM       LLMConfig     `yaml:"llm" koanf:"llm"`
	Notify    NotifyConfig  `yaml:"notify" koanf:"notify"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ExportConfig holds capture settings.
type ExportConfig struct {
	Scale         float64       `yaml:"scale" koanf:"scale"`
	SettleTimeout time.Duration `yaml:"settle_timeout" koanf:"settle_timeout"`
	SettleDelay   time.Duration `yaml:"settle_delay" koanf:"settle_delay"`
	MaxImageBytes int64         `yaml:"max_image_bytes" koanf:"max_image_bytes"`
	QRURL         string        `yaml:"qr_url" koanf:"qr_url"`
}

// PreviewConfig holds the defaults of the preview surfaces.
type PreviewConfig struct {
	Mode     string  `yaml:"mode" koanf:"mode"`
	Viewport float64 `yaml:"viewport" koanf:"viewport"`
}

// LLMConfig selects the chat model used by the importer. An empty or
// "none" provider disables it.
type LLMConfig struct {
	Provider  string `yaml:"provider" koanf:"provider"`
	Model     string `yaml:"model" koanf:"model"`
	BaseURL   string `yaml:"base_url" koanf:"base_url"`
	APIKeyEnv string `yaml:"api_key_env" koanf:"api_key_env"`
}

// NotifyConfig lists webhooks told about finished exports.
type NotifyConfig struct {
	Webhooks     []string      `yaml:"webhooks,omitempty" koanf:"webhooks"`
	FailuresOnly bool          `yaml:"failures_only" koanf:"failures_only"`
	Timeout      time.Duration `yaml:"timeout" koanf:"timeout"`
}
