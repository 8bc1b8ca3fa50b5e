package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-dashboard/internal/adapter/openweather"
	"github.com/couchcryptid/weather-dashboard/internal/domain"
)

// placeholderKeys are sample credentials copied from docs and templates.
// Accepting them would only move the failure to the first upstream call.
var placeholderKeys = map[string]bool{
	"demo_key":     true,
	"your_api_key": true,
	"changeme":     true,
	"replace_me":   true,
	"xxx":          true,
}

// Config holds all proxy server settings, populated from environment variables.
type Config struct {
	APIKey          string        `env:"OPENWEATHER_API_KEY" validate:"required"`
	BaseURL         string        `env:"OPENWEATHER_BASE_URL" validate:"required,url"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" validate:"gt=0"`
	DefaultCity     string        `env:"DEFAULT_CITY" validate:"required"`

	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	// Freshness hint attached to proxied responses, and TTL of the optional
	// upstream revalidation cache (disabled when CacheSize is 0).
	FreshnessTTL time.Duration `env:"FRESHNESS_TTL" validate:"gt=0"`
	CacheSize    int           `env:"UPSTREAM_CACHE_SIZE" validate:"gte=0"`

	// Upstream circuit breaker.
	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" validate:"gt=0"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" validate:"gt=0"`

	// Reading events (enabled when KAFKA_BROKERS is set).
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" validate:"required_with=KafkaBrokers"`
	KafkaEnabled bool     `env:"-"`
}

// ClientConfig holds settings for the presenter commands talking to a running proxy.
type ClientConfig struct {
	ProxyURL        string        `env:"PROXY_URL" validate:"required,url"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" validate:"gte=0"`
	DefaultCity     string        `env:"DEFAULT_CITY" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
}

// Load reads proxy configuration from environment variables (and a .env file
// when present), applying defaults where unset. A missing or placeholder
// credential fails with domain.ErrMisconfiguredCredential.
func Load() (*Config, error) {
	loadDotEnv()

	apiKey := strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENWEATHER_API_KEY is required", domain.ErrMisconfiguredCredential)
	}
	if placeholderKeys[strings.ToLower(apiKey)] {
		return nil, fmt.Errorf("%w: OPENWEATHER_API_KEY is a placeholder value", domain.ErrMisconfiguredCredential)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	freshnessTTL, err := parseDuration("FRESHNESS_TTL", "30m")
	if err != nil {
		return nil, err
	}
	breakerOpenTimeout, err := parseDuration("BREAKER_OPEN_TIMEOUT", "1m")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("UPSTREAM_CACHE_SIZE", "0")
	if err != nil {
		return nil, err
	}
	breakerMaxFailures, err := parseUint32("BREAKER_MAX_FAILURES", "5")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		APIKey:          apiKey,
		BaseURL:         sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", openweather.DefaultBaseURL),
		UpstreamTimeout: upstreamTimeout,
		DefaultCity:     sharedcfg.EnvOrDefault("DEFAULT_CITY", "London"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        logLevel("info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FreshnessTTL: freshnessTTL,
		CacheSize:    cacheSize,

		BreakerMaxFailures: breakerMaxFailures,
		BreakerOpenTimeout: breakerOpenTimeout,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-readings"),
		KafkaEnabled: len(brokers) > 0,
	}

	if err := validateStruct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient reads presenter configuration from environment variables (and a
// .env file when present). No provider credential is needed client-side.
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}

	cfg := &ClientConfig{
		ProxyURL:        strings.TrimRight(sharedcfg.EnvOrDefault("PROXY_URL", "http://localhost:8080"), "/"),
		RequestTimeout:  requestTimeout,
		RefreshInterval: refreshInterval,
		DefaultCity:     sharedcfg.EnvOrDefault("DEFAULT_CITY", "London"),
		LogLevel:        logLevel("warn"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
	}

	if err := validateStruct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads a .env file from the working directory. Variables already
// present in the environment win; a missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

// logLevel reads LOG_LEVEL case-insensitively, accepting "warning" for "warn".
func logLevel(def string) string {
	level := strings.ToLower(strings.TrimSpace(sharedcfg.EnvOrDefault("LOG_LEVEL", def)))
	if level == "warning" {
		return "warn"
	}
	return level
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseUint32 rejects negatives and values that do not fit in 32 bits.
func parseUint32(key, def string) (uint32, error) {
	n, err := strconv.ParseUint(sharedcfg.EnvOrDefault(key, def), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint32(n), nil
}

var validate = newValidator()

// newValidator reports fields by their environment variable name so errors
// point at what the operator has to change.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	return v
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid %s: failed %q rule", fe.Field(), fe.Tag())
	}
	return err
}
