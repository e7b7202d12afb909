package translate

import (
	"context"
	"io"
	"strings"
)

// Executor launches one run of the external translation tool.
// The tool reads the job configuration from dir and writes translated files
// into the target locale directories itself.
type Executor interface {
	// Execute runs the tool with dir as its working directory and streams the
	// tool's standard output into stdout as it is produced. It returns the
	// process exit code. A *SubprocessLaunchError is returned when the tool
	// could not be started at all.
	Execute(ctx context.Context, dir string, stdout io.Writer) (int, error)
}

// Outcome is the classified result of one translation attempt.
type Outcome int

const (
	// Failure means the attempt must be retried or reported.
	Failure Outcome = iota
	// Success means every bucket/target combination was translated.
	Success
)

func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "failure"
}

// OutcomeClassifier turns captured output and an exit code into an Outcome.
type OutcomeClassifier interface {
	Classify(output string, exitCode int) Outcome
}

// ClassifierFunc adapts a plain function to OutcomeClassifier.
type ClassifierFunc func(output string, exitCode int) Outcome

// Classify calls f.
func (f ClassifierFunc) Classify(output string, exitCode int) Outcome {
	return f(output, exitCode)
}

// FailureMarkers are the literal strings the lingo.dev CLI prints when any
// file failed to translate.
var FailureMarkers = []string{"❌", "[Failed Files]"}

// MarkerClassifier reports Failure when the output contains any marker or
// the exit code is non-zero. Markers win over a clean exit.
type MarkerClassifier struct {
	Markers []string
}

// NewMarkerClassifier returns a classifier using FailureMarkers.
func NewMarkerClassifier() *MarkerClassifier {
	return &MarkerClassifier{Markers: FailureMarkers}
}

// Classify implements OutcomeClassifier.
func (c *MarkerClassifier) Classify(output string, exitCode int) Outcome {
	if exitCode != 0 {
		return Failure
	}
	if c.Marker(output) != "" {
		return Failure
	}
	return Success
}

// Marker returns the first marker found in output, or "".
// Terminal escape sequences are stripped before matching.
func (c *MarkerClassifier) Marker(output string) string {
	plain := stripANSI(output)
	for _, m := range c.Markers {
		if strings.Contains(plain, m) {
			return m
		}
	}
	return ""
}
