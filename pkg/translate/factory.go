package translate

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// DefaultCommand invokes the lingo.dev CLI through npx.
const DefaultCommand = "npx lingo.dev@latest run"

// APIKeyEnv is the environment variable the lingo.dev CLI reads its key from.
const APIKeyEnv = "LINGODOTDEV_API_KEY"

// Config holds configuration for creating a Runner.
type Config struct {
	// Dir is the project root the translator runs in.
	Dir string
	// Command is the translator command line. Defaults to DefaultCommand.
	Command string
	// APIKey is exported to the translator as LINGODOTDEV_API_KEY when set.
	APIKey string
	// Executor overrides the subprocess executor built from Command.
	Executor Executor
	// Classifier overrides the marker based classifier.
	Classifier OutcomeClassifier
	// Out receives the translator's output. Defaults to os.Stdout.
	Out io.Writer
	// ErrOut receives the translator's standard error. Defaults to os.Stderr.
	ErrOut io.Writer
	// RetryDelay is the base delay between attempts. Zero retries immediately.
	RetryDelay time.Duration
	// Registerer receives the runner metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// Logger is the logger instance to use. If nil, a default logger is created.
	Logger *logrus.Logger
}

// NewRunner creates a Runner from cfg.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("translator directory is required")
	}
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}

	command, err := ParseCommand(cfg.Command)
	if err != nil {
		return nil, err
	}

	executor := cfg.Executor
	if executor == nil {
		var env []string
		if cfg.APIKey != "" {
			env = append(env, APIKeyEnv+"="+cfg.APIKey)
		}
		ce := NewCommandExecutor(command, env, cfg.Logger)
		if cfg.ErrOut != nil {
			ce.Stderr = cfg.ErrOut
		}
		executor = ce
	}

	classifier := cfg.Classifier
	if classifier == nil {
		classifier = NewMarkerClassifier()
	}

	cfg.Logger.WithFields(logrus.Fields{
		"command":     cfg.Command,
		"dir":         cfg.Dir,
		"retry_delay": cfg.RetryDelay.String(),
	}).Debug("Creating translation runner")

	return &Runner{
		dir:           cfg.Dir,
		executor:      executor,
		classifier:    classifier,
		out:           defaultOut(cfg.Out),
		retryDelay:    cfg.RetryDelay,
		manualCommand: cfg.Command,
		metrics:       NewMetrics(cfg.Registerer),
		logger:        cfg.Logger,
	}, nil
}

// ParseCommand splits a command line on whitespace.
// Returns an error if the line is empty.
func ParseCommand(s string) ([]string, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty translator command")
	}
	return fields, nil
}
