// Package config loads typed configuration from the environment or from a
// YAML file.
//
// Load reads optional .env files with github.com/joho/godotenv and then
// parses the process environment into a struct with
// github.com/caarlos0/env/v11. LoadFile decodes a YAML document with
// gopkg.in/yaml.v3 instead. Both run Validate when the struct implements
// Validator, so required settings fail at startup rather than at first use.
//
// # Usage
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	// or
//	if err := config.LoadFile("sessiond.yaml", &cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// All errors wrap one of the package sentinels, so callers can branch with
// errors.Is(err, config.ErrInvalidConfig) and similar.
package config
