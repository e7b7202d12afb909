package project

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestSetupIsIdempotent(t *testing.T) {
	work := t.TempDir()
	paths := NewPathsAt(work, DefaultDir)
	store := NewStore(paths, quietLogger())

	spec := writeSpec(t, work, "openapi.yaml", "openapi: 3.0.0\ninfo:\n  title: first\n")
	require.NoError(t, store.Setup(spec, "en"))

	writeSpec(t, work, "openapi.yaml", "openapi: 3.0.0\n")
	require.NoError(t, store.Setup(spec, "en"))

	entries, err := os.ReadDir(paths.LocaleDir("en"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SpecFilename, entries[0].Name())

	got, err := os.ReadFile(paths.SpecFile("en"))
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.0\n", string(got))
}

func TestSetupMissingSpec(t *testing.T) {
	work := t.TempDir()
	paths := NewPathsAt(work, DefaultDir)
	store := NewStore(paths, quietLogger())

	err := store.Setup("/nonexistent/path.yaml", "en")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "/nonexistent/path.yaml", nf.Path)

	_, statErr := os.Stat(paths.Root)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "project root must not be created")
}

func TestSetupRejectsDirectory(t *testing.T) {
	work := t.TempDir()
	store := NewStore(NewPathsAt(work, DefaultDir), quietLogger())

	err := store.Setup(work, "en")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSetupRequiresSourceLocale(t *testing.T) {
	work := t.TempDir()
	store := NewStore(NewPathsAt(work, DefaultDir), quietLogger())
	spec := writeSpec(t, work, "api.yaml", "openapi: 3.0.0\n")

	err := store.Setup(spec, " ")
	var se *SetupError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "validate", se.Op)
}

func TestSetupFromCanonicalCopy(t *testing.T) {
	work := t.TempDir()
	paths := NewPathsAt(work, DefaultDir)
	store := NewStore(paths, quietLogger())

	spec := writeSpec(t, work, "openapi.yaml", "openapi: 3.0.0\n")
	require.NoError(t, store.Setup(spec, "en"))

	// Passing the copy already in place must not truncate it.
	require.NoError(t, store.Setup(paths.SpecFile("en"), "en"))

	got, err := os.ReadFile(paths.SpecFile("en"))
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.0\n", string(got))
}

func TestSetupRejectsLocaleOutsideRoot(t *testing.T) {
	work := t.TempDir()
	paths := NewPathsAt(work, DefaultDir)
	store := NewStore(paths, quietLogger())
	spec := writeSpec(t, work, "api.yaml", "openapi: 3.0.0\n")

	for _, code := range []string{"../../x", "en/us", ".hidden", "..", `en\us`} {
		t.Run(code, func(t *testing.T) {
			err := store.Setup(spec, code)
			var se *SetupError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "validate", se.Op)
		})
	}

	_, statErr := os.Stat(paths.Root)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing is written for an invalid locale")
	_, statErr = os.Stat(filepath.Join(work, "x"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestValidLocaleDir(t *testing.T) {
	assert.True(t, ValidLocaleDir("en"))
	assert.True(t, ValidLocaleDir("pt-BR"))
	assert.False(t, ValidLocaleDir(""))
	assert.False(t, ValidLocaleDir("../fr"))
	assert.False(t, ValidLocaleDir(".git"))
}

func TestSetupFilesystemFailure(t *testing.T) {
	work := t.TempDir()
	spec := writeSpec(t, work, "api.yaml", "openapi: 3.0.0\n")

	// A regular file where the project root should be makes MkdirAll fail.
	blocker := writeSpec(t, work, "blocked", "")
	store := NewStore(NewPathsAt(work, blocker), quietLogger())

	err := store.Setup(spec, "en")
	var se *SetupError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "mkdir", se.Op)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestPaths(t *testing.T) {
	p := NewPathsAt("/work", "")
	assert.Equal(t, "/work/.glossia", p.Root)
	assert.Equal(t, "/work/.glossia/i18n.json", p.ConfigFile())
	assert.Equal(t, "/work/.glossia/i18n/fr/api.yaml", p.SpecFile("fr"))
	assert.Equal(t, filepath.Join(".glossia", "i18n", "fr", "api.yaml"), p.RelSpecFile("fr"))

	abs := NewPathsAt("/work", "/srv/project")
	assert.Equal(t, "/srv/project", abs.Root)
}
