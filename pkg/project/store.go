package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Store owns the locale-keyed directory tree of a project.
type Store struct {
	paths  Paths
	logger *logrus.Logger
}

// NewStore creates a Store for the given layout.
func NewStore(paths Paths, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{paths: paths, logger: logger}
}

// Paths returns the layout the store operates on.
func (s *Store) Paths() Paths {
	return s.paths
}

// Setup copies the spec at specPath into the source locale directory under
// the canonical filename. The copy always replaces the previous one.
// Directories created before a failure are left in place.
func (s *Store) Setup(specPath, sourceLocale string) error {
	if strings.TrimSpace(sourceLocale) == "" {
		return &SetupError{Op: "validate", Err: errors.New("source locale is required")}
	}
	if !ValidLocaleDir(sourceLocale) {
		return &SetupError{Op: "validate", Err: fmt.Errorf("invalid source locale %q", sourceLocale)}
	}

	resolved, err := filepath.Abs(specPath)
	if err != nil {
		return &SetupError{Op: "resolve", Path: specPath, Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{Path: specPath}
		}
		return &SetupError{Op: "stat", Path: resolved, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &NotFoundError{Path: specPath}
	}

	sourceDir := s.paths.LocaleDir(sourceLocale)
	if !s.paths.Exists() {
		s.logger.WithFields(logrus.Fields{
			"root": s.paths.Root,
		}).Info("Creating project folder structure")
	}
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		return &SetupError{Op: "mkdir", Path: sourceDir, Err: err}
	}

	dest := s.paths.SpecFile(sourceLocale)
	if destInfo, err := os.Stat(dest); err == nil && os.SameFile(info, destInfo) {
		s.logger.WithFields(logrus.Fields{
			"dest": dest,
		}).Info("Spec is already in place")
		return nil
	}
	if err := copyFile(resolved, dest); err != nil {
		return &SetupError{Op: "copy", Path: dest, Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"spec":   resolved,
		"dest":   dest,
		"source": sourceLocale,
	}).Info("Project setup complete")
	return nil
}

// ValidLocaleDir reports whether code can name a locale directory: a single
// path element that is not hidden.
func ValidLocaleDir(code string) bool {
	return code != "" &&
		!strings.HasPrefix(code, ".") &&
		!strings.ContainsAny(code, `/\`) &&
		filepath.Base(code) == code
}

// copyFile writes src over dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write: %w", err)
	}
	return out.Close()
}
