package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

// Parse error policies
const (
	ParseErrorsIsolate = "isolate" // Skip the bad file, keep the rest
	ParseErrorsAbort   = "abort"   // One bad file fails the whole render
)

// Output formats
const (
	FormatHTML = "html"
	FormatPNG  = "png"
)

type Config struct {
	// Chart Settings
	Title       string   `yaml:"title"`
	Palette     []string `yaml:"palette"`
	MarkerSize  int      `yaml:"marker_size"`
	ChartWidth  int      `yaml:"chart_width"`
	ChartHeight int      `yaml:"chart_height"`

	// Output Settings
	DefaultFormat   string `yaml:"default_format"`
	OutputDir       string `yaml:"output_dir"`
	OpenAfterRender bool   `yaml:"open_after_render"`
	Viewer          string `yaml:"viewer"`

	// Loading
	ParseErrors string `yaml:"parse_errors"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`

	// Watch Settings
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds settings for `ivc serve`.
// Each field can be overridden by an IVC_* environment variable.
type ServerConfig struct {
	Addr               string `yaml:"addr" envconfig:"ADDR"`
	MaxUploadMB        int    `yaml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB"`
	ReadTimeoutSeconds int    `yaml:"read_timeout_seconds" envconfig:"READ_TIMEOUT_SECONDS"`
	LogLevel           string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Title:           domain.DefaultChartTitle,
		Palette:         append([]string(nil), domain.DefaultPalette...),
		MarkerSize:      10,
		ChartWidth:      1000,
		ChartHeight:     600,
		DefaultFormat:   FormatHTML,
		OutputDir:       "",
		OpenAfterRender: false,
		Viewer:          "",
		ParseErrors:     ParseErrorsIsolate,
		ColorTheme:      "auto",
		WatchDebounceMS: 300,
		Server: ServerConfig{
			Addr:               "127.0.0.1:8501",
			MaxUploadMB:        32,
			ReadTimeoutSeconds: 30,
			LogLevel:           "info",
		},
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file means defaults
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	return cfg, nil
}

// ApplyEnv overrides server settings from IVC_* environment variables
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process("ivc", &c.Server); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Title == "" {
		c.Title = def.Title
	}
	if len(c.Palette) == 0 {
		c.Palette = def.Palette
	}
	if c.MarkerSize <= 0 {
		c.MarkerSize = def.MarkerSize
	}
	if c.ChartWidth <= 0 {
		c.ChartWidth = def.ChartWidth
	}
	if c.ChartHeight <= 0 {
		c.ChartHeight = def.ChartHeight
	}
	if !IsValidFormat(c.DefaultFormat) {
		c.DefaultFormat = def.DefaultFormat
	}
	if c.ParseErrors != ParseErrorsAbort {
		c.ParseErrors = ParseErrorsIsolate
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = def.WatchDebounceMS
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = def.Server.MaxUploadMB
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = def.Server.ReadTimeoutSeconds
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
}

// AbortOnParseError reports whether one unreadable file fails the whole batch
func (c *Config) AbortOnParseError() bool {
	return c.ParseErrors == ParseErrorsAbort
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsValidFormat checks if an output format is supported
func IsValidFormat(format string) bool {
	validFormats := []string{FormatHTML, FormatPNG}
	for _, valid := range validFormats {
		if format == valid {
			return true
		}
	}
	return false
}
