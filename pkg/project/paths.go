package project

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDir is the project directory name used when none is configured.
	DefaultDir = ".glossia"
	// SpecFilename is the canonical name of the spec file inside every locale directory.
	SpecFilename = "api.yaml"
	// ConfigFilename is the name of the job configuration read by the translation service.
	ConfigFilename = "i18n.json"
	// BucketGlob is the include pattern declared for the yaml bucket.
	// It is relative to the project root, which is where the translator runs.
	BucketGlob = "i18n/[locale]/*.yaml"

	i18nDir = "i18n"
)

// Paths describes the on-disk layout of a glossia project.
// It is built once at the command boundary and handed to every component.
type Paths struct {
	// Root is the absolute path of the project directory.
	Root string
	// base is the directory Root was resolved against, used for display paths.
	base string
}

// NewPaths resolves dir against the current working directory.
func NewPaths(dir string) (Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve working directory: %w", err)
	}
	return NewPathsAt(wd, dir), nil
}

// NewPathsAt resolves dir against base.
func NewPathsAt(base, dir string) Paths {
	if dir == "" {
		dir = DefaultDir
	}
	root := dir
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, dir)
	}
	return Paths{Root: filepath.Clean(root), base: base}
}

// I18nDir returns the directory holding one subdirectory per locale.
func (p Paths) I18nDir() string {
	return filepath.Join(p.Root, i18nDir)
}

// ConfigFile returns the path of the persisted job configuration.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Root, ConfigFilename)
}

// LocaleDir returns the directory for a single locale.
func (p Paths) LocaleDir(locale string) string {
	return filepath.Join(p.I18nDir(), locale)
}

// SpecFile returns the canonical spec path for a locale.
func (p Paths) SpecFile(locale string) string {
	return filepath.Join(p.LocaleDir(locale), SpecFilename)
}

// RelSpecFile returns SpecFile relative to the directory the paths were
// resolved against, falling back to the absolute path.
func (p Paths) RelSpecFile(locale string) string {
	abs := p.SpecFile(locale)
	if p.base == "" {
		return abs
	}
	rel, err := filepath.Rel(p.base, abs)
	if err != nil {
		return abs
	}
	return rel
}

// Exists reports whether the project root is present on disk.
func (p Paths) Exists() bool {
	info, err := os.Stat(p.Root)
	return err == nil && info.IsDir()
}
