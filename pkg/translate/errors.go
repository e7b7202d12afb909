package translate

import (
	"fmt"
	"strings"
)

// SubprocessLaunchError is returned when the translation tool could not be started.
type SubprocessLaunchError struct {
	Command []string
	Err     error
}

func (e *SubprocessLaunchError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *SubprocessLaunchError) Unwrap() error {
	return e.Err
}

// AttemptError describes a single attempt that ran but reported failure.
type AttemptError struct {
	Attempt  int
	ExitCode int
	// Marker is the failure marker found in the output, if any.
	Marker string
}

func (e *AttemptError) Error() string {
	if e.Marker != "" {
		return fmt.Sprintf("attempt %d: translator reported %q (exit code %d)", e.Attempt, e.Marker, e.ExitCode)
	}
	return fmt.Sprintf("attempt %d: translator exited with code %d", e.Attempt, e.ExitCode)
}

// TranslationFailure is returned once every attempt has failed.
type TranslationFailure struct {
	Attempts int
	// ManualCommand is what the user can run from the project directory to retry by hand.
	ManualCommand string
	// Err aggregates the error of every attempt.
	Err error
}

func (e *TranslationFailure) Error() string {
	return fmt.Sprintf("translation failed after %d attempts", e.Attempts)
}

func (e *TranslationFailure) Unwrap() error {
	return e.Err
}
