package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dasmlab/glossia/pkg/project"
)

// IndexFilename is written to the project root by WriteIndex.
const IndexFilename = "index.json"

// Index maps a locale code to the spec files present for it.
type Index map[string][]string

// BuildIndex lists the sorted .yaml and .yml files of every locale directory.
// Locales without spec files are listed with an empty slice.
func BuildIndex(paths project.Paths) (Index, error) {
	entries, err := os.ReadDir(paths.I18nDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Index{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", paths.I18nDir(), err)
	}

	idx := Index{}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files, err := os.ReadDir(paths.LocaleDir(e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", e.Name(), err)
		}
		specs := []string{}
		for _, f := range files {
			if f.Type().IsRegular() && isSpecFile(f.Name()) {
				specs = append(specs, f.Name())
			}
		}
		sort.Strings(specs)
		idx[e.Name()] = specs
	}
	return idx, nil
}

// WriteIndex builds the index and stores it as index.json in the project root.
func WriteIndex(paths project.Paths) (Index, error) {
	idx, err := BuildIndex(paths)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(paths.Root, IndexFilename), data, 0o644); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	return idx, nil
}

func isSpecFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
