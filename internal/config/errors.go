package config

import (
	"errors"
)

// Sentinel errors for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// ErrUnknownSignal marks a signal_weights key that names no voting signal.
	// It is always wrapped together with ErrInvalidConfig.
	ErrUnknownSignal = errors.New("unknown signal")
)
