// Package config handles configuration for geminichat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// EnvPrefix is the prefix for environment overrides (GEMINICHAT_API_KEY, ...)
const EnvPrefix = "GEMINICHAT"

// MarkdownConfig configures reply rendering
type MarkdownConfig struct {
	Style string `json:"style" mapstructure:"style"` // "dark", "light", "notty" or path to a glamour JSON style
	Width int    `json:"width" mapstructure:"width"` // 0 means the terminal width
}

// LoggingConfig configures the diagnostic log
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file,omitempty" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"` // log to stderr instead of the file
}

// Config represents the user configuration
type Config struct {
	Provider string `json:"provider" mapstructure:"provider"`
	// Endpoint overrides the URL derived from Model. For the gemini provider an
	// endpoint ending in "key=" gets the API key appended verbatim.
	Endpoint string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	APIKey   string `json:"api_key,omitempty" mapstructure:"api_key"`
	Model    string `json:"model" mapstructure:"model"`
	// RequestTimeout is the transport timeout in seconds. 0 disables it.
	RequestTimeout  int            `json:"request_timeout" mapstructure:"request_timeout"`
	CopyToClipboard bool           `json:"copy_to_clipboard" mapstructure:"copy_to_clipboard"`
	Markdown        MarkdownConfig `json:"markdown" mapstructure:"markdown"`
	Logging         LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Provider:        models.ProviderGemini,
		Model:           models.DefaultModel.Name,
		RequestTimeout:  300,
		CopyToClipboard: false,
		Markdown: MarkdownConfig{
			Style: "dark",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// setDefaults mirrors DefaultConfig into a viper instance
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("provider", d.Provider)
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("api_key", d.APIKey)
	v.SetDefault("model", d.Model)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("copy_to_clipboard", d.CopyToClipboard)
	v.SetDefault("markdown.style", d.Markdown.Style)
	v.SetDefault("markdown.width", d.Markdown.Width)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.console", d.Logging.Console)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".geminichat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Load reads defaults, then the JSON config file (if present), then the environment.
// An empty path means the default config file.
func Load(path string) (Config, error) {
	return load(path, true)
}

// LoadFile reads defaults and the JSON config file without environment overrides.
// Used when the file is about to be rewritten.
func LoadFile(path string) (Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return DefaultConfig(), err
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if withEnv && cfg.APIKey == "" {
		cfg.APIKey = providerKeyFromEnv(cfg.Provider)
	}

	return cfg, nil
}

// providerKeyFromEnv returns the conventional API key variable of a provider
func providerKeyFromEnv(provider string) string {
	switch provider {
	case models.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

// Save writes the configuration as indented JSON.
// An empty path means the default config file.
func Save(cfg Config, path string) error {
	if path == "" {
		configDir, err := EnsureConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(configDir, "config.json")
	} else if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0o600: the file holds the API key
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration can reach a gateway
func (c Config) Validate() error {
	switch c.Provider {
	case models.ProviderGemini, models.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider %q (available: %s)", c.Provider, strings.Join(AvailableProviders(), ", "))
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return apierrors.ErrNoAPIKey
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}

// ResolvedEndpoint returns the endpoint to call, derived from Model when unset
func (c Config) ResolvedEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.Provider == models.ProviderGemini {
		return models.EndpointForModel(c.Model)
	}
	return ""
}

// Keys lists the settable configuration keys
func Keys() []string {
	return []string{
		"provider",
		"endpoint",
		"api_key",
		"model",
		"request_timeout",
		"copy_to_clipboard",
		"markdown.style",
		"markdown.width",
		"logging.level",
		"logging.file",
		"logging.console",
	}
}

// Get returns the string form of a key. The API key is masked.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "provider":
		return c.Provider, nil
	case "endpoint":
		return c.ResolvedEndpoint(), nil
	case "api_key":
		return MaskSecret(c.APIKey), nil
	case "model":
		return c.Model, nil
	case "request_timeout":
		return strconv.Itoa(c.RequestTimeout), nil
	case "copy_to_clipboard":
		return strconv.FormatBool(c.CopyToClipboard), nil
	case "markdown.style":
		return c.Markdown.Style, nil
	case "markdown.width":
		return strconv.Itoa(c.Markdown.Width), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.file":
		return c.Logging.File, nil
	case "logging.console":
		return strconv.FormatBool(c.Logging.Console), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set updates a single key from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "provider":
		c.Provider = value
	case "endpoint":
		c.Endpoint = value
	case "api_key":
		c.APIKey = value
	case "model":
		c.Model = value
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("request_timeout must be a non-negative integer, got %q", value)
		}
		c.RequestTimeout = n
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false, got %q", value)
		}
		c.CopyToClipboard = b
	case "markdown.style":
		c.Markdown.Style = value
	case "markdown.width":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("markdown.width must be a non-negative integer, got %q", value)
		}
		c.Markdown.Width = n
	case "logging.level":
		c.Logging.Level = value
	case "logging.file":
		c.Logging.File = value
	case "logging.console":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("logging.console must be true or false, got %q", value)
		}
		c.Logging.Console = b
	default:
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// MaskSecret hides all but the last four characters of a secret
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// AvailableProviders returns the gateway providers
func AvailableProviders() []string {
	return []string{
		models.ProviderGemini,
		models.ProviderOpenAI,
	}
}
