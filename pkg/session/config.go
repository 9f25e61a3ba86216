package session

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config holds session configuration.
// It can be populated from environment variables or from a YAML document
// shaped like {store: {url, ttl}, secret, showLogs}.
type Config struct {
	Store StoreConfig `envPrefix:"SESSION_STORE_" yaml:"store"`

	// Secret is the token signing key
	Secret string `env:"SESSION_SECRET,required" yaml:"secret"`

	// ShowLogs enables debug logging of authenticated sessions
	ShowLogs bool `env:"SESSION_SHOW_LOGS" envDefault:"false" yaml:"showLogs"`
}

// StoreConfig describes the persistence target
type StoreConfig struct {
	// URL selects the backend by scheme: mongodb, mongodb+srv, postgres, postgresql, redis, rediss or memory
	URL string `env:"URL,required" yaml:"url"`

	// TTLMillis is the session time-to-live in milliseconds (default 3600000)
	TTLMillis int64 `env:"TTL" envDefault:"3600000" yaml:"ttl"`

	Database   string `env:"DATABASE" envDefault:"sessions" yaml:"database"`
	Collection string `env:"COLLECTION" envDefault:"sessions" yaml:"collection"`
}

// DefaultConfig returns configuration with every optional field at its default
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			TTLMillis:  DefaultTTL.Milliseconds(),
			Database:   "sessions",
			Collection: "sessions",
		},
	}
}

// MaxTTLMillis is the largest TTL that fits in a time.Duration.
const MaxTTLMillis = math.MaxInt64 / int64(time.Millisecond)

// TTL returns the configured time-to-live, or DefaultTTL when unset.
// Values above MaxTTLMillis are clamped.
func (c Config) TTL() time.Duration {
	switch {
	case c.Store.TTLMillis <= 0:
		return DefaultTTL
	case c.Store.TTLMillis > MaxTTLMillis:
		return time.Duration(MaxTTLMillis) * time.Millisecond
	}
	return time.Duration(c.Store.TTLMillis) * time.Millisecond
}

// Validate checks that required settings are present
func (c Config) Validate() error {
	var errs []error
	if c.Store.URL == "" {
		errs = append(errs, fmt.Errorf("store.url: %w", errRequired))
	}
	if c.Store.TTLMillis > MaxTTLMillis {
		errs = append(errs, fmt.Errorf("store.ttl: %w", errTTLOutOfRange))
	}
	if c.Secret == "" {
		errs = append(errs, fmt.Errorf("secret: %w", errRequired))
	}
	return errors.Join(errs...)
}

var (
	errRequired      = errors.New("required")
	errTTLOutOfRange = fmt.Errorf("must not exceed %d milliseconds", MaxTTLMillis)
)

// NewFromConfig creates a Service from the provided Config.
// TTL and debug output follow the config; opts are applied afterwards.
func NewFromConfig(cfg Config, store Store, issuer TokenIssuer, opts ...Option) (*Service, error) {
	configOpts := []Option{
		WithTTL(cfg.TTL()),
		WithDebug(cfg.ShowLogs),
	}

	configOpts = append(configOpts, opts...)

	return New(store, issuer, configOpts...)
}
