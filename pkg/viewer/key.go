package viewer

import (
	"errors"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/dasmlab/glossia/pkg/auth"
)

// Prompter asks the user for the API key.
type Prompter interface {
	Prompt() (string, error)
}

// TerminalPrompter reads a masked key from the terminal.
type TerminalPrompter struct{}

// Prompt implements Prompter.
func (TerminalPrompter) Prompt() (string, error) {
	p := promptui.Prompt{
		Label: "Enter your Lingo.dev API key",
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("API key is required")
			}
			return nil
		},
	}
	return p.Run()
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// EnsureAPIKey resolves the key with checker. When none is found and prompter
// is non-nil, the user is asked for one and it is saved to envFile.
func EnsureAPIKey(checker *auth.Checker, prompter Prompter, envFile string, logger *logrus.Logger) (string, error) {
	if logger == nil {
		logger = logrus.New()
	}

	key, err := checker.Resolve()
	if err == nil {
		logger.Info("API key found")
		return key, nil
	}
	if !errors.Is(err, auth.ErrMissingAPIKey) || prompter == nil {
		return "", err
	}

	logger.Warn("Lingo.dev API key not found. Visit https://lingo.dev, sign in, and copy your key from Settings")
	key, err = prompter.Prompt()
	if err != nil {
		return "", err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", auth.ErrMissingAPIKey
	}

	if err := auth.SaveKey(envFile, key); err != nil {
		return "", err
	}
	logger.WithFields(logrus.Fields{
		"file": envFile,
	}).Info("API key saved")
	return key, nil
}
