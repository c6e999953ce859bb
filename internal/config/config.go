package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("httpmapper version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Client  ClientConfig  `mapstructure:"client"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// AuthType represents the type of authentication to use
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeOAuth2 AuthType = "oauth2"
)

type ClientConfig struct {
	BaseURL    string            `json:"base_url" mapstructure:"base_url"`
	Timeout    time.Duration     `json:"timeout" mapstructure:"timeout"`
	UserAgent  string            `json:"user_agent" mapstructure:"user_agent"`
	AuthType   AuthType          `json:"auth_type" mapstructure:"auth_type"`
	AuthConfig map[string]string `json:"auth_config" mapstructure:"auth_config"`
	Headers    map[string]string `json:"headers" mapstructure:"headers"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

type CatalogConfig struct {
	SpecFile      string `mapstructure:"spec_file"`
	SelectionFile string `mapstructure:"selection_file"`
}

// InitFlags registers command line flags on fs (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.String("base-url", "", "Base URL prepended to request paths")
	fs.String("spec-file", "", "Path to an OpenAPI/Swagger document describing the API")
	fs.String("selection-file", "", "Path to a YAML file selecting catalog routes")
	fs.String("log-level", "", "Log level (debug|info|warn|error)")
}

// setDefaults registers every scalar key so that environment variables reach Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", "")
	v.SetDefault("client.user_agent", "")
	v.SetDefault("client.timeout", time.Hour)
	v.SetDefault("client.auth_type", string(AuthTypeNone))
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.disable_stacktrace", true)
	v.SetDefault("logging.output_path", "")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "httpmapper")
	v.SetDefault("catalog.spec_file", "")
	v.SetDefault("catalog.selection_file", "")
}

// Load reads configuration from ./config.yaml or /etc/httpmapper/config.yaml,
// HTTPMAPPER_* environment variables and fs. A missing config file is not an error.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HTTPMAPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/httpmapper")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return decode(v)
}

// LoadFile reads configuration from a single YAML file, without flags
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Flags and env override file values
	if baseURL := v.GetString("base-url"); baseURL != "" {
		config.Client.BaseURL = baseURL
	}
	if specFile := v.GetString("spec-file"); specFile != "" {
		config.Catalog.SpecFile = specFile
	}
	if selectionFile := v.GetString("selection-file"); selectionFile != "" {
		config.Catalog.SelectionFile = selectionFile
	}
	if level := v.GetString("log-level"); level != "" {
		config.Logging.Level = level
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that would otherwise fail on the first request
func (c *Config) Validate() error {
	if c.Client.BaseURL != "" {
		u, err := url.Parse(c.Client.BaseURL)
		if err != nil {
			return fmt.Errorf("client.base_url is invalid: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("client.base_url must be an absolute URL, got %q", c.Client.BaseURL)
		}
	}
	switch c.Client.AuthType {
	case "", AuthTypeNone, AuthTypeBasic, AuthTypeBearer, AuthTypeAPIKey, AuthTypeOAuth2:
	default:
		return fmt.Errorf("unsupported auth type: %s", c.Client.AuthType)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must not be negative")
	}
	return nil
}
