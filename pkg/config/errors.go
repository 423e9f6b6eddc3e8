package config

import "errors"

var (
	// ErrParsingConfig is returned when the environment or a file cannot be parsed into Config
	ErrParsingConfig = errors.New("failed to parse configuration")

	// ErrInvalidConfig is returned when a parsed Config fails validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLoadingEnvFile is returned when a named .env file cannot be loaded
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrReadingFile is returned when a YAML config file cannot be read
	ErrReadingFile = errors.New("failed to read config file")
)
