package jobconfig

import (
	"errors"
	"fmt"
)

// ErrNoTargets means neither the existing configuration nor the request named a target locale.
var ErrNoTargets = errors.New("no target languages provided")

// NoTargetsError carries the source locale for which no targets were resolved.
type NoTargetsError struct {
	Source string
}

func (e *NoTargetsError) Error() string {
	return fmt.Sprintf("%v (source %q); pass --languages, e.g. --languages es,fr", ErrNoTargets, e.Source)
}

func (e *NoTargetsError) Unwrap() error {
	return ErrNoTargets
}

// ConfigError wraps a failure to read or write the job configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
