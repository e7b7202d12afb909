package jobconfig

import (
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/dasmlab/glossia/pkg/project"
)

// Result describes the outcome of a Generate call.
type Result struct {
	Source string
	// Targets is the full resolved target list, in first-seen order.
	Targets []string
	// Added holds the targets that were not configured before this call.
	Added []string
}

// Updated reports whether the call introduced new targets.
func (r *Result) Updated() bool {
	return len(r.Added) > 0
}

// Merger rewrites the persisted configuration so that it holds the union of
// previously configured and newly requested targets.
type Merger struct {
	paths  project.Paths
	logger *logrus.Logger
}

// NewMerger creates a Merger writing to paths.ConfigFile().
func NewMerger(paths project.Paths, logger *logrus.Logger) *Merger {
	if logger == nil {
		logger = logrus.New()
	}
	return &Merger{paths: paths, logger: logger}
}

// Generate merges requested into the existing targets and persists the result.
// Previously configured targets are never dropped. Nothing is written when
// the resolved set is empty.
func (m *Merger) Generate(requested []string, source string) (*Result, error) {
	path := m.paths.ConfigFile()

	var existing []string
	cfg, found, err := Load(path)
	if err != nil {
		return nil, err
	}
	if found {
		existing = cfg.Locale.Targets
	}

	merged := dedupe(append(append([]string{}, existing...), requested...))
	targets := lo.Without(merged, source)
	if len(targets) != len(merged) {
		m.logger.WithFields(logrus.Fields{
			"source": source,
		}).Warn("Source language cannot be a target, ignoring it")
	}

	if len(targets) == 0 {
		return nil, &NoTargetsError{Source: source}
	}

	for _, code := range targets {
		if _, err := language.Parse(code); err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"locale": code,
			}).Warn("Target language is not a well-formed BCP 47 tag")
		}
	}

	if err := Save(path, New(source, targets)); err != nil {
		return nil, err
	}

	added := lo.Without(targets, existing...)
	res := &Result{Source: source, Targets: targets, Added: added}

	fields := logrus.Fields{
		"source":  source,
		"targets": strings.Join(targets, ","),
		"config":  path,
	}
	if res.Updated() {
		m.logger.WithFields(fields).WithField("added", strings.Join(added, ",")).Info("Config updated")
	} else {
		m.logger.WithFields(fields).Info("Using existing config")
	}
	return res, nil
}
