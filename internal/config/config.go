// Package config holds the settings of the generator service. Values come from
// an optional YAML file, then from LAG_* environment variables; main applies
// command line flags on top.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/errl"
)

// Default endpoints of the production functions.
const (
	DefaultHistoryURL = "https://functions.poehali.dev/50a6fb2c-a9a9-41d6-9553-3fe37d8edd44"
)

// Config is the configuration of the whole service.
type Config struct {
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
	Port        string `yaml:"port" env:"PORT"`
	PublicURL   string `yaml:"public_url" env:"PUBLIC_URL"`
	ViewsDir    string `yaml:"views_dir" env:"VIEWS_DIR"`

	Functions Functions `yaml:"functions" envPrefix:"FUNCTIONS_"`

	// Time zone and language used to display the history.
	TimeZone string `yaml:"time_zone" env:"TIME_ZONE"`
	Language string `yaml:"language" env:"LANGUAGE"`

	// AdminPasswordHash is a bcrypt hash protecting the admin pages.
	AdminPasswordHash string `yaml:"admin_password_hash" env:"ADMIN_PASSWORD_HASH"`

	// DevFunctionsPort starts the local stand-in for the remote functions when set.
	DevFunctionsPort string `yaml:"dev_functions_port" env:"DEV_FUNCTIONS_PORT"`
}

// Functions are the remote endpoints used by the service.
type Functions struct {
	HistoryURL  string        `yaml:"history_url" env:"HISTORY_URL"`
	GenerateURL string        `yaml:"generate_url" env:"GENERATE_URL"`
	UploadURL   string        `yaml:"upload_url" env:"UPLOAD_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// SimulatedDelay is the wait of the stand-in generator used when GenerateURL is empty.
	SimulatedDelay time.Duration `yaml:"simulated_delay" env:"SIMULATED_DELAY"`
}

const envPrefix = "LAG_"

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Port:     "8080",
		ViewsDir: "internal/web/views",
		TimeZone: "Europe/Moscow",
		Language: "ru-RU",
		Functions: Functions{
			Timeout:        30 * time.Second,
			SimulatedDelay: 2 * time.Second,
		},
	}
}

// Load reads the optional YAML file at path and then the environment.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errl.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errl.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, errl.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// DefaultDevFunctionsPort is used in development when no history function is configured.
const DefaultDevFunctionsPort = "8081"

// Complete fills the settings that depend on others. Call it once every source,
// flags included, has been applied.
// In production the history comes from the public function; in development the
// local stand-in serves it unless a URL was given.
func (c *Config) Complete() {
	if c.Functions.HistoryURL != "" {
		return
	}
	if !c.Development {
		c.Functions.HistoryURL = DefaultHistoryURL
		return
	}
	if c.DevFunctionsPort == "" {
		c.DevFunctionsPort = DefaultDevFunctionsPort
	}
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, errl.Errorf("loading time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// LanguageTag resolves the configured language, defaulting to Russian.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Russian
	}
	return tag
}
