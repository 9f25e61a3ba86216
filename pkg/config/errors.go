package config

import "errors"

var (
	// ErrParsingConfig is returned when the environment cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrReadingFile is returned when a config or .env file cannot be read
	ErrReadingFile = errors.New("failed to read config file")

	// ErrDecodingFile is returned when a YAML document does not match the config struct
	ErrDecodingFile = errors.New("failed to decode config file")

	// ErrInvalidConfig is returned when the loaded config fails validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNilPointer is returned when a nil pointer is provided to a loader
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
