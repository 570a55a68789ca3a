package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrMissingBridge means no bridge address was found in flags, environment or file
	ErrMissingBridge = errors.New("config: bridge address is not set (hue.bridge / HUE_BRIDGE)")

	// ErrMissingToken means no API credential was found in flags, environment or file
	ErrMissingToken = errors.New("config: bridge token is not set (hue.token / HUE_TOKEN)")
)

// Config represents the application configuration
type Config struct {
	Hue     HueConfig     `mapstructure:"hue"`
	Log     LogConfig     `mapstructure:"log"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Output  string        `mapstructure:"output"` // yaml or json
}

// HueConfig contains Hue bridge connection settings
type HueConfig struct {
	Bridge       string        `mapstructure:"bridge"`
	Token        string        `mapstructure:"token"`
	Timeout      time.Duration `mapstructure:"timeout"`        // HTTP timeout for bridge requests
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"` // 0 disables pacing
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	JSON   bool   `mapstructure:"json"`
	Colors bool   `mapstructure:"colors"`
}

// LedgerConfig contains the write history settings. An empty path disables it.
type LedgerConfig struct {
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// MetricsConfig contains Pushgateway settings. An empty URL disables pushing.
type MetricsConfig struct {
	Pushgateway string `mapstructure:"pushgateway"`
	Job         string `mapstructure:"job"`
}

// Options controls where configuration comes from
type Options struct {
	// Path of the YAML config file. Empty means DefaultPath(), which may be absent.
	Path string
	// Overrides win over every other source, keyed like "hue.bridge"
	Overrides map[string]any
}

// DefaultPath returns ~/.huerc
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".huerc"
	}
	return filepath.Join(home, ".huerc")
}

// Load resolves configuration with precedence overrides > environment > file > defaults
func Load(opts Options) (*Config, error) {
	v := viper.New()

	v.SetDefault("hue.bridge", "")
	v.SetDefault("hue.token", "")
	v.SetDefault("hue.timeout", 10*time.Second)
	v.SetDefault("hue.rate_limit_rps", 10.0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("log.colors", true)
	v.SetDefault("ledger.path", "")
	v.SetDefault("ledger.retention_days", 90)
	v.SetDefault("metrics.pushgateway", "")
	v.SetDefault("metrics.job", "huectl")
	v.SetDefault("output", "yaml")

	v.SetEnvPrefix("huectl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bridge settings also answer to the short names used by other Hue tools
	if err := v.BindEnv("hue.bridge", "HUE_BRIDGE", "HUE_IP", "HUECTL_HUE_BRIDGE"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("hue.token", "HUE_TOKEN", "HUE_USERNAME", "HUECTL_HUE_TOKEN"); err != nil {
		return nil, err
	}

	if err := readFile(v, opts.Path); err != nil {
		return nil, err
	}

	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}

	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(expandEnvVars(string(data)))); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings every bridge command needs
func (c *Config) Validate() error {
	if c.Hue.Bridge == "" {
		return ErrMissingBridge
	}
	if c.Hue.Token == "" {
		return ErrMissingToken
	}
	switch c.Output {
	case "yaml", "json":
	default:
		return fmt.Errorf("config: unknown output format %q (want yaml or json)", c.Output)
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
