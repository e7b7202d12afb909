package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasmlab/glossia/pkg/auth"
	"github.com/dasmlab/glossia/pkg/jobconfig"
	"github.com/dasmlab/glossia/pkg/project"
	"github.com/dasmlab/glossia/pkg/translate"
	"github.com/dasmlab/glossia/pkg/viewer"
)

// TestHelperTranslator stands in for the lingo.dev CLI. It copies the source
// spec into every target directory, or reports failed files.
func TestHelperTranslator(t *testing.T) {
	if os.Getenv("GLOSSIA_HELPER_TRANSLATOR") != "1" {
		return
	}
	mode := os.Args[len(os.Args)-1]
	if mode == "fail" {
		fmt.Println("[Failed Files]")
		os.Exit(0)
	}

	data, err := os.ReadFile(project.ConfigFilename)
	if err != nil {
		os.Exit(2)
	}
	var cfg jobconfig.JobConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		os.Exit(2)
	}
	src := filepath.Join("i18n", cfg.Locale.Source, project.SpecFilename)
	spec, err := os.ReadFile(src)
	if err != nil {
		os.Exit(2)
	}
	for _, target := range cfg.Locale.Targets {
		dir := filepath.Join("i18n", target)
		_ = os.MkdirAll(dir, 0o755)
		_ = os.WriteFile(filepath.Join(dir, project.SpecFilename), spec, 0o644)
		fmt.Printf("✔ %s\n", target)
	}
	os.Exit(0)
}

// setupWorkdir isolates the command from the developer's environment.
func setupWorkdir(t *testing.T, translatorMode string) string {
	t.Helper()
	work := t.TempDir()
	chdir(t, work)
	t.Setenv("GLOSSIA_DIR", ".glossia")
	t.Setenv("GLOSSIA_AUTH_URL", "")
	t.Setenv("GLOSSIA_RETRY_DELAY", "0s")
	t.Setenv("GLOSSIA_VIEWER_DIR", "glossia-viewer")
	t.Setenv("LINGODOTDEV_API_KEY", "test-key")
	t.Setenv("GLOSSIA_HELPER_TRANSLATOR", "1")
	t.Setenv("GLOSSIA_TRANSLATOR", strings.Join([]string{os.Args[0], "-test.run=TestHelperTranslator", "--", translatorMode}, " "))
	return work
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp(&out, &errOut)
	err := app.RunContext(context.Background(), append([]string{"glossia"}, args...))
	return out.String(), errOut.String(), err
}

func TestGenerateCommand(t *testing.T) {
	work := setupWorkdir(t, "ok")
	require.NoError(t, os.WriteFile(filepath.Join(work, "petstore.yaml"), []byte("openapi: 3.0.0\n"), 0o644))

	out, _, err := runApp(t, "generate", "--spec", "petstore.yaml", "--languages", "es,fr")
	require.NoError(t, err)
	assert.Contains(t, out, "Done! Your translated specs are in")
	assert.Contains(t, out, filepath.Join(".glossia", "i18n", "es", "api.yaml"))
	assert.Contains(t, out, filepath.Join(".glossia", "i18n", "fr", "api.yaml"))

	translated, err := os.ReadFile(filepath.Join(work, ".glossia", "i18n", "fr", "api.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.0\n", string(translated))
}

func TestGenerateCommandWritesMetrics(t *testing.T) {
	work := setupWorkdir(t, "fail")
	require.NoError(t, os.WriteFile(filepath.Join(work, "api.yaml"), []byte("openapi: 3.0.0\n"), 0o644))
	metrics := filepath.Join(work, "glossia.prom")

	_, _, err := runApp(t, "generate", "--spec", "api.yaml", "--languages", "es", "--metrics-textfile", metrics)
	var tf *translate.TranslationFailure
	require.ErrorAs(t, err, &tf)

	data, readErr := os.ReadFile(metrics)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), `glossia_translation_attempts_total{status="failure"} 2`)
	assert.Contains(t, string(data), `glossia_translation_runs_total{status="failure"} 1`)

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Contains(t, buf.String(), "Please try running manually")
}

func TestGenerateCommandErrors(t *testing.T) {
	t.Run("missing spec flag", func(t *testing.T) {
		setupWorkdir(t, "ok")
		_, _, err := runApp(t, "generate", "--languages", "es")
		require.Error(t, err)
	})

	t.Run("missing spec file", func(t *testing.T) {
		setupWorkdir(t, "ok")
		_, _, err := runApp(t, "generate", "--spec", "nope.yaml", "--languages", "es")
		var nf *project.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("no languages", func(t *testing.T) {
		work := setupWorkdir(t, "ok")
		require.NoError(t, os.WriteFile(filepath.Join(work, "api.yaml"), []byte("openapi: 3.0.0\n"), 0o644))
		_, _, err := runApp(t, "generate", "--spec", "api.yaml")
		require.ErrorIs(t, err, jobconfig.ErrNoTargets)
	})

	t.Run("missing api key", func(t *testing.T) {
		work := setupWorkdir(t, "ok")
		t.Setenv("LINGODOTDEV_API_KEY", "")
		require.NoError(t, os.WriteFile(filepath.Join(work, "api.yaml"), []byte("openapi: 3.0.0\n"), 0o644))
		_, _, err := runApp(t, "generate", "--spec", "api.yaml", "--languages", "es")
		require.ErrorIs(t, err, auth.ErrMissingAPIKey)
	})
}

func TestEjectCommand(t *testing.T) {
	work := setupWorkdir(t, "ok")

	out, _, err := runApp(t, "eject")
	require.NoError(t, err)
	assert.Contains(t, out, "Viewer ejected")

	_, err = os.Stat(filepath.Join(work, "glossia-viewer", "index.html"))
	require.NoError(t, err)

	_, _, err = runApp(t, "eject")
	require.ErrorIs(t, err, viewer.ErrAlreadyEjected)
}

func TestServeCommandWithoutProject(t *testing.T) {
	setupWorkdir(t, "ok")

	_, _, err := runApp(t, "serve")
	require.ErrorIs(t, err, viewer.ErrNoProject)
}
