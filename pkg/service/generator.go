// Package service sequences the generate command.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dasmlab/glossia/pkg/jobconfig"
	"github.com/dasmlab/glossia/pkg/project"
)

// DefaultSource is the source locale used when none is given.
const DefaultSource = "en"

// Authenticator confirms an API key is available.
type Authenticator interface {
	Check(ctx context.Context) error
	// Key returns the key resolved by Check.
	Key() string
}

// ProjectStore bootstraps the project layout.
type ProjectStore interface {
	Setup(specPath, sourceLocale string) error
}

// ConfigMerger persists the merged target list.
type ConfigMerger interface {
	Generate(requested []string, source string) (*jobconfig.Result, error)
}

// Translator runs the translation service over the persisted configuration.
type Translator interface {
	Translate(ctx context.Context, targets []string) error
}

// TranslatorFactory builds a Translator once the API key is known.
type TranslatorFactory func(apiKey string) (Translator, error)

// Options are the inputs of one generate invocation.
type Options struct {
	SpecPath string
	// Languages is the raw --languages value; commas and whitespace separate codes.
	Languages string
	Source    string
}

// Report describes where the translated specs were written.
type Report struct {
	RunID   string
	Source  string
	Targets []string
	// Files holds one display path per target, in target order.
	Files []string
	// Updated is true when new targets were added to the configuration.
	Updated bool
}

// Generator runs authenticate, setup, config merge and translate in order.
// A failing step stops the sequence; earlier on-disk state is kept so a
// re-run resumes from it.
type Generator struct {
	paths         project.Paths
	auth          Authenticator
	store         ProjectStore
	merger        ConfigMerger
	newTranslator TranslatorFactory
	logger        *logrus.Logger
}

// NewGenerator wires the steps of the generate command.
func NewGenerator(paths project.Paths, auth Authenticator, store ProjectStore, merger ConfigMerger, newTranslator TranslatorFactory, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Generator{
		paths:         paths,
		auth:          auth,
		store:         store,
		merger:        merger,
		newTranslator: newTranslator,
		logger:        logger,
	}
}

// Run executes one generate invocation.
func (g *Generator) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	runID := uuid.New().String()
	log := g.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"spec":   opts.SpecPath,
		"source": opts.Source,
	})
	log.Info("Starting generate")

	if err := g.auth.Check(ctx); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if err := g.store.Setup(opts.SpecPath, opts.Source); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	res, err := g.merger.Generate(jobconfig.ParseLocales(opts.Languages), opts.Source)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	translator, err := g.newTranslator(g.auth.Key())
	if err != nil {
		return nil, fmt.Errorf("create translator: %w", err)
	}
	if err := translator.Translate(ctx, res.Targets); err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	report := &Report{
		RunID:   runID,
		Source:  res.Source,
		Targets: res.Targets,
		Updated: res.Updated(),
	}
	for _, target := range res.Targets {
		report.Files = append(report.Files, g.paths.RelSpecFile(target))
	}

	log.WithFields(logrus.Fields{
		"targets": strings.Join(res.Targets, ","),
	}).Info("Generate complete")
	return report, nil
}
