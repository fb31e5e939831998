package config

import "errors"

var (
	// ErrConfigNotFound is returned when a named config file is missing.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidYAML is returned when a config file fails to parse.
	ErrInvalidYAML = errors.New("invalid yaml")
	// ErrInvalidConfig is returned when loaded configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
