// Package jobconfig reads, merges and writes the job configuration consumed
// by the translation service.
package jobconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/dasmlab/glossia/pkg/project"
)

const (
	// SchemaURL identifies the configuration format.
	SchemaURL = "https://lingo.dev/schema/i18n.json"
	// FormatVersion is the configuration format version written by this tool.
	FormatVersion = "1.12"
	// YAMLBucket is the only bucket type declared.
	YAMLBucket = "yaml"
)

// JobConfig mirrors the persisted i18n.json document.
type JobConfig struct {
	Schema  string            `json:"$schema"`
	Version string            `json:"version"`
	Locale  Locale            `json:"locale"`
	Buckets map[string]Bucket `json:"buckets"`
}

// Locale lists the source locale and the target locales.
type Locale struct {
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
}

// Bucket declares which files hold translatable content.
type Bucket struct {
	Include []string `json:"include"`
}

// New builds a complete configuration for source and targets.
func New(source string, targets []string) *JobConfig {
	return &JobConfig{
		Schema:  SchemaURL,
		Version: FormatVersion,
		Locale: Locale{
			Source:  source,
			Targets: targets,
		},
		Buckets: map[string]Bucket{
			YAMLBucket: {Include: []string{project.BucketGlob}},
		},
	}
}

var separators = regexp.MustCompile(`[\s,]+`)

// ParseLocales splits a free-text list separated by any mix of commas and
// whitespace. Empty tokens are dropped; order is preserved.
func ParseLocales(raw string) []string {
	tokens := separators.Split(raw, -1)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Load reads the configuration at path. The boolean is false when no file exists.
func Load(path string) (*JobConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &ConfigError{Path: path, Err: err}
	}

	var cfg JobConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, &ConfigError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return &cfg, true, nil
}

// Save writes cfg to path with two-space indentation, replacing any previous file.
func Save(path string, cfg *JobConfig) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cfg); err != nil {
		return &ConfigError{Path: path, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

// dedupe keeps the first occurrence of every code.
func dedupe(codes []string) []string {
	return lo.Uniq(codes)
}
