package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Validator is implemented by config structs that check their own invariants.
type Validator interface {
	Validate() error
}

// Load reads .env files into the process environment, parses the
// environment into v using `env` struct tags and validates the result.
//
// Without arguments the default .env in the working directory is loaded when
// present. Variables already set in the environment are never overwritten.
//
// Example:
//
//	type StoreConfig struct {
//		URL string `env:"SESSION_STORE_URL,required"`
//		TTL int64  `env:"SESSION_STORE_TTL" envDefault:"3600000"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T, envFiles ...string) error {
	if v == nil {
		return ErrNilPointer
	}

	if err := loadEnvFiles(envFiles...); err != nil {
		return err
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return validate(v)
}

// LoadFile decodes a YAML document into v and validates the result.
// Unknown keys are rejected.
func LoadFile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrDecodingFile, fmt.Errorf("%s: %w", path, err))
	}

	return validate(v)
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, envFiles ...string) {
	if err := Load(v, envFiles...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Join(ErrReadingFile, err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	return nil
}

func validate(v any) error {
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return nil
}
