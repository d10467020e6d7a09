// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults that code outside this package also relies on.
const (
	DefaultServerPort = 8080

	// DefaultMaxRequestSize caps request bodies, which are single quotes or
	// category names.
	DefaultMaxRequestSize = 64 << 10

	DefaultClientCircuitMaxFailures     = 5
	DefaultClientCircuitHalfOpenLimit   = 1
	DefaultTransportMaxIdleConns        = 10
	DefaultTransportMaxIdleConnsPerHost = 2

	DefaultLogFileMaxSizeMB  = 20
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultGeneratorModel supports structured JSON output.
	DefaultGeneratorModel = "gemini-2.5-flash"

	// Storage slots for the bookmark list and the theme.
	DefaultBookmarksKey = "zenquote_bookmarks"
	DefaultThemeKey     = "zenquote_theme"

	DefaultShareIntentURL = "https://twitter.com/intent/tweet"
)

// Generator backends.
const (
	BackendGemini = "gemini"
	BackendREST   = "rest"
	BackendNone   = "none"
)

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the root configuration structure.
type Config struct {
	App         AppConfig         `koanf:"app"         validate:"required"`
	Server      ServerConfig      `koanf:"server"      validate:"required"`
	Log         LogConfig         `koanf:"log"         validate:"required"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Client      ClientConfig      `koanf:"client"      validate:"required"`
	Generator   GeneratorConfig   `koanf:"generator"   validate:"required"`
	Storage     StorageConfig     `koanf:"storage"     validate:"required"`
	Bookmarks   BookmarksConfig   `koanf:"bookmarks"   validate:"required"`
	Preferences PreferencesConfig `koanf:"preferences" validate:"required"`
	Share       ShareConfig       `koanf:"share"       validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings for the REST generator.
// There is no retry section: a failed generation goes straight to the fallback list.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// GeneratorConfig selects and configures the remote quote generator.
type GeneratorConfig struct {
	Backend     string        `koanf:"backend"     validate:"required,oneof=gemini rest none"`
	Model       string        `koanf:"model"       validate:"required"`
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"    validate:"required_if=Backend rest,omitempty,url"`
	Timeout     time.Duration `koanf:"timeout"     validate:"required,min=100ms"`
	Temperature float64       `koanf:"temperature" validate:"min=0,max=2"`
}

// StorageConfig selects the key-value store backing bookmarks and preferences.
type StorageConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=bolt sqlite memory"`
	Path   string `koanf:"path"   validate:"required_unless=Driver memory"`

	// Watch reloads bookmarks in a running server when another process
	// writes the store. Only the sqlite driver allows a second writer.
	Watch bool `koanf:"watch"`
}

// BookmarksConfig contains bookmark persistence settings.
type BookmarksConfig struct {
	Key string `koanf:"key" validate:"required"`
}

// PreferencesConfig contains preference persistence settings.
type PreferencesConfig struct {
	ThemeKey string `koanf:"theme_key" validate:"required"`
}

// ShareConfig contains external share settings.
type ShareConfig struct {
	IntentURL string `koanf:"intent_url" validate:"required,url"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "zenquote",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "127.0.0.1",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "20s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/zenquote.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "zenquote",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "15s",
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"generator.backend":     BackendGemini,
		"generator.model":       DefaultGeneratorModel,
		"generator.api_key":     "",
		"generator.base_url":    "https://generativelanguage.googleapis.com/v1beta",
		"generator.timeout":     "15s",
		"generator.temperature": 1.0,

		"storage.driver": DriverBolt,
		"storage.path":   "./data/zenquote.db",
		"storage.watch":  false,

		"bookmarks.key":         DefaultBookmarksKey,
		"preferences.theme_key": DefaultThemeKey,
		"share.intent_url":      DefaultShareIntentURL,
	}
}

// Load reads configs/base.yaml and configs/{profile}.yaml. See LoadFrom.
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom layers, lowest precedence first: built-in defaults, dir/base.yaml,
// dir/{profile}.yaml, GEMINI_API_KEY, then APP_* variables. Missing files
// are skipped.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{"base"}
	if profile != "" {
		files = append(files, profile)
	}

	for _, name := range files {
		path := filepath.Join(dir, name+".yaml")
		if err := loadFileIfExists(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if err := k.Set("generator.api_key", key); err != nil {
			return nil, fmt.Errorf("setting generator key: %w", err)
		}
	}

	index := envKeyIndex(k.Keys())
	if err := k.Load(env.Provider("APP_", ".", func(s string) string { return envToKey(index, s) }), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyIndex maps the env spelling of every known key to the key, so
// APP_GENERATOR_API_KEY resolves to generator.api_key and not generator.api.key.
func envKeyIndex(keys []string) map[string]string {
	index := make(map[string]string, len(keys))
	for _, key := range keys {
		index[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}

	return index
}

// envToKey maps APP_SERVER_PORT to server.port. Unknown names turn every
// underscore into a dot.
func envToKey(index map[string]string, s string) string {
	name := strings.TrimPrefix(s, "APP_")
	if key, ok := index[name]; ok {
		return key
	}

	return strings.ReplaceAll(strings.ToLower(name), "_", ".")
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
