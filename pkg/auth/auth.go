// Package auth resolves and verifies the lingo.dev API key.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// KeyEnv is the variable holding the API key, in the environment or a .env file.
const KeyEnv = "LINGODOTDEV_API_KEY"

// DefaultTimeout bounds the verification request.
const DefaultTimeout = 15 * time.Second

var (
	// ErrMissingAPIKey means no key was found in the environment or any .env file.
	ErrMissingAPIKey = errors.New("lingo.dev API key not found: set " + KeyEnv +
		" (get a key at https://lingo.dev, Settings > API key)")
	// ErrUnauthorized means the service rejected the key.
	ErrUnauthorized = errors.New("lingo.dev API key was rejected; check " + KeyEnv)
)

// Config holds configuration for creating a Checker.
type Config struct {
	// APIKey is the key taken from the environment, if any.
	APIKey string
	// EnvFiles are .env files searched in order when APIKey is empty.
	EnvFiles []string
	// URL is the base URL of the service. Empty disables verification.
	URL string
	// Timeout bounds the verification request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Logger is the logger instance to use. If nil, a default logger is created.
	Logger *logrus.Logger
}

// Checker confirms that a usable API key is available before any work starts.
type Checker struct {
	cfg    Config
	client *resty.Client
	logger *logrus.Logger
	key    string
	source string
}

// whoamiResponse is the body returned by POST /whoami.
type whoamiResponse struct {
	Email string `json:"email"`
	ID    string `json:"id"`
}

// NewChecker creates a Checker from cfg.
func NewChecker(cfg Config) *Checker {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var client *resty.Client
	if cfg.URL != "" {
		client = resty.New().
			SetBaseURL(strings.TrimRight(cfg.URL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json")
	}

	return &Checker{cfg: cfg, client: client, logger: cfg.Logger}
}

// Key returns the key resolved by the last successful Check or Resolve.
func (c *Checker) Key() string {
	return c.key
}

// Resolve locates the API key without contacting the service.
func (c *Checker) Resolve() (string, error) {
	if key := strings.TrimSpace(c.cfg.APIKey); key != "" {
		c.key, c.source = key, "environment"
		return key, nil
	}
	for _, path := range c.cfg.EnvFiles {
		key, err := ReadKey(path)
		if err != nil {
			return "", err
		}
		if key != "" {
			c.key, c.source = key, path
			return key, nil
		}
	}
	return "", ErrMissingAPIKey
}

// Check resolves the key and, when a URL is configured, verifies it.
func (c *Checker) Check(ctx context.Context) error {
	key, err := c.Resolve()
	if err != nil {
		return err
	}

	log := c.logger.WithFields(logrus.Fields{
		"key_source": c.source,
	})
	if c.client == nil {
		log.Debug("API key found, verification disabled")
		return nil
	}

	var who whoamiResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(key).
		SetResult(&who).
		Post("/whoami")
	if err != nil {
		return fmt.Errorf("verify API key: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return ErrUnauthorized
	case !resp.IsSuccess():
		return fmt.Errorf("verify API key: unexpected status %s", resp.Status())
	}

	log.WithFields(logrus.Fields{
		"email": who.Email,
	}).Info("Authenticated with lingo.dev")
	return nil
}

// ReadKey returns the API key stored in the .env file at path.
// A missing file yields an empty key and no error.
func ReadKey(path string) (string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(vars[KeyEnv]), nil
}

// SaveKey stores key in the .env file at path, keeping every other variable.
func SaveKey(path, key string) error {
	vars := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		existing, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		vars = existing
	}
	vars[KeyEnv] = key
	if err := godotenv.Write(vars, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
