package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	defaultEnv  = "development"
	defaultName = "sessiond"
)

type appConfig struct {
	Env      string            `env:"APP_ENV" envDefault:"development" yaml:"env"`
	Name     string            `env:"APP_NAME" envDefault:"sessiond" yaml:"name"`
	LogLevel string            `env:"LOG_LEVEL" yaml:"logLevel"`
	Session  session.Config    `yaml:"session"`
	Routes   routesConfig      `yaml:"routes"`
	HTTP     httpserver.Config `yaml:"http"`
}

// routesConfig gates the write routes. Sessions are created by a trusted
// login backend, not by the client that will hold the token.
type routesConfig struct {
	// IssuerKey must accompany POST /sessions in the X-Issuer-Key header.
	// Empty leaves the route unmounted.
	IssuerKey string `env:"SESSIOND_ISSUER_KEY" yaml:"issuerKey"`

	// EditablePaths lists the data paths a token holder may set on its own
	// session. A listed path also covers the paths below it. Empty leaves
	// PATCH /sessions/current unmounted.
	EditablePaths []string `env:"SESSIOND_EDITABLE_PATHS" envSeparator:"," yaml:"editablePaths"`
}

func (c appConfig) Validate() error {
	return errors.Join(c.Session.Validate(), c.Routes.Validate())
}

func (c routesConfig) Validate() error {
	var errs []error
	for _, p := range c.EditablePaths {
		fp, err := session.ParseFieldPath(strings.TrimSpace(p))
		if err != nil {
			errs = append(errs, fmt.Errorf("routes.editablePaths: %w", err))
			continue
		}
		if fp.IsRoot() {
			errs = append(errs, fmt.Errorf("routes.editablePaths: %q would let clients replace all data", p))
		}
	}
	return errors.Join(errs...)
}

// editable reports whether path equals or lies below an allowed path.
func (c routesConfig) editable(path session.FieldPath) bool {
	for _, p := range c.EditablePaths {
		p = strings.TrimSpace(p)
		if string(path) == p || strings.HasPrefix(string(path), p+".") {
			return true
		}
	}
	return false
}

// loadConfig reads a YAML file when path is set, the environment otherwise.
func loadConfig(path string) (appConfig, error) {
	var cfg appConfig
	if path != "" {
		err := config.LoadFile(path, &cfg)
		if cfg.Env == "" {
			cfg.Env = defaultEnv
		}
		if cfg.Name == "" {
			cfg.Name = defaultName
		}
		return cfg, err
	}
	err := config.Load(&cfg)
	return cfg, err
}
