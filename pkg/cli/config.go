package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const _envPrefix = "BROWSERKIT"

// Config is the CLI configuration. Each field can be set from the config
// file, from a BROWSERKIT_ environment variable named after its key with
// dots replaced by underscores, or from a flag where one exists.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	Origin    string        `mapstructure:"origin"`
	UserAgent string        `mapstructure:"user_agent"`
	// CacheMiB sizes the in memory HTTP cache. Zero disables it.
	CacheMiB int64 `mapstructure:"cache_mib"`
}

type BrowserConfig struct {
	RemoteURL string `mapstructure:"remote_url"`
	Headless  bool   `mapstructure:"headless"`
}

type TelemetryConfig struct {
	StatsdAddress   string `mapstructure:"statsd_address"`
	NewRelicLicense string `mapstructure:"newrelic_license"`
	AppName         string `mapstructure:"app_name"`
}

// Every key needs a default for AutomaticEnv to reach it through Unmarshal.
var _defaults = map[string]any{
	"log.level":                  "info",
	"log.format":                 "json",
	"http.timeout":               "10s",
	"http.origin":                "",
	"http.user_agent":            "",
	"http.cache_mib":             0,
	"browser.remote_url":         "",
	"browser.headless":           true,
	"telemetry.statsd_address":   "",
	"telemetry.newrelic_license": "",
	"telemetry.app_name":         "browserkit",
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range _defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(_envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads path when non empty and decodes every source into a Config.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cli: reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("cli: decoding config: %w", err)
	}
	if cfg.HTTP.CacheMiB < 0 {
		return Config{}, fmt.Errorf("cli: http.cache_mib must not be negative, got %d", cfg.HTTP.CacheMiB)
	}
	return cfg, nil
}
