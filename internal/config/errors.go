package config

import "strings"

// ConfigurationError reports static configuration that can never produce a valid game,
// e.g. a hand whose similar and different slots do not add up. It is fatal at startup.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "config validation failed: " + strings.Join(e.Problems, "; ")
}
