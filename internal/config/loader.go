// Package config implements the configuration loading lifecycle for skycast.
//
// The loading sequence is:
//  1. Enforce UTC timezone to prevent drift bugs.
//  2. Load a .env file via godotenv (non-fatal if absent).
//  3. Use envconfig to process struct tags and populate the Config struct.
//  4. Validate the struct using go-playground/validator.
//
// Values are resolved via a priority chain: OS environment (highest), then
// the dotenv file. Any missing required value or invalid format fails the
// load immediately (fail fast).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"skycast/internal/types"
)

// ConfigErrorType classifies configuration load failures.
type ConfigErrorType string

const (
	// ErrParsing indicates envconfig could not populate the struct.
	ErrParsing ConfigErrorType = "parsing"
	// ErrValidation indicates the populated struct failed validation.
	ErrValidation ConfigErrorType = "validation"
)

// ConfigError is a diagnostic error type returned by Load to aid debugging.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load loads and validates the skycast configuration from the environment.
//
// godotenv.Load silently succeeds if no .env file exists in the working
// directory, and never overrides variables already set in the environment.
func Load() (*types.Config, error) {
	// Enforce UTC to keep fetched-at stamps and period timestamps aligned.
	time.Local = time.UTC

	_ = godotenv.Load()

	var cfg types.Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}
