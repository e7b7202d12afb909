// Package settings loads glossia configuration from the environment.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/dasmlab/glossia/pkg/project"
	"github.com/dasmlab/glossia/pkg/translate"
)

// Settings holds values read from GLOSSIA_* variables. Command line flags
// override them at the command boundary.
type Settings struct {
	// Dir is the project directory, relative to the working directory.
	Dir string `envconfig:"DIR" default:".glossia"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// Translator is the command line that runs the translation service.
	Translator string `envconfig:"TRANSLATOR" default:"npx lingo.dev@latest run"`
	// RetryDelay is the base delay between translation attempts.
	RetryDelay time.Duration `envconfig:"RETRY_DELAY" default:"0s"`
	// AuthURL is the API the key is verified against. Empty skips verification.
	AuthURL string `envconfig:"AUTH_URL" default:"https://engine.lingo.dev"`
	// ViewerDir is the directory an ejected viewer is copied to.
	ViewerDir string `envconfig:"VIEWER_DIR" default:"glossia-viewer"`

	// APIKey is read without the GLOSSIA_ prefix, as the translator expects it.
	APIKey string `envconfig:"LINGODOTDEV_API_KEY" ignored:"true"`
}

// Prefix is the environment prefix of every setting.
const Prefix = "GLOSSIA"

// Load reads an optional .env file from the working directory and then the
// process environment.
func Load() (*Settings, error) {
	// .env is optional; variables may come from the shell or CI.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("settings: load .env: %w", err)
	}

	var s Settings
	if err := envconfig.Process(Prefix, &s); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	var c credentials
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	s.APIKey = c.APIKey

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// credentials holds variables shared with the translator, read without prefix.
type credentials struct {
	APIKey string `envconfig:"LINGODOTDEV_API_KEY"`
}

// Validate checks the values that cannot be defaulted.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Dir) == "" {
		return fmt.Errorf("settings: %s_DIR cannot be empty", Prefix)
	}
	if _, err := translate.ParseCommand(s.Translator); err != nil {
		return fmt.Errorf("settings: %s_TRANSLATOR: %w", Prefix, err)
	}
	if s.RetryDelay < 0 {
		return fmt.Errorf("settings: %s_RETRY_DELAY must not be negative", Prefix)
	}
	return nil
}

// Paths builds the project layout for s.Dir.
func (s *Settings) Paths() (project.Paths, error) {
	return project.NewPaths(s.Dir)
}
