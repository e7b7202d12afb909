package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/dasmlab/glossia/pkg/auth"
	"github.com/dasmlab/glossia/pkg/jobconfig"
	"github.com/dasmlab/glossia/pkg/project"
	"github.com/dasmlab/glossia/pkg/service"
	"github.com/dasmlab/glossia/pkg/translate"
)

var generateCmd = &cli.Command{
	Name:  "generate",
	Usage: "Translate an OpenAPI spec into multiple languages",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "spec",
			Usage:    "path to your OpenAPI spec file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "languages",
			Usage: "target languages, e.g. es,fr,de or \"es fr de\"",
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "source language",
			Value: service.DefaultSource,
		},
		&cli.StringFlag{
			Name:  "metrics-textfile",
			Usage: "write translation metrics in Prometheus text format to this file",
		},
	},
	Action: func(cctx *cli.Context) error {
		s, logger, err := env(cctx)
		if err != nil {
			return err
		}
		paths, err := s.Paths()
		if err != nil {
			return err
		}

		out := cctx.App.Writer
		color.New(color.Bold).Fprintln(out, "\n🌍 Glossia")

		checker := auth.NewChecker(auth.Config{
			APIKey:   s.APIKey,
			EnvFiles: []string{".env", filepath.Join(paths.Root, ".env")},
			URL:      s.AuthURL,
			Logger:   logger,
		})

		reg := prometheus.NewRegistry()
		gen := service.NewGenerator(
			paths,
			checker,
			project.NewStore(paths, logger),
			jobconfig.NewMerger(paths, logger),
			func(apiKey string) (service.Translator, error) {
				r, err := translate.NewRunner(translate.Config{
					Dir:        paths.Root,
					Command:    s.Translator,
					APIKey:     apiKey,
					Out:        out,
					ErrOut:     cctx.App.ErrWriter,
					RetryDelay: s.RetryDelay,
					Registerer: reg,
					Logger:     logger,
				})
				if err != nil {
					return nil, err
				}
				return r, nil
			},
			logger,
		)

		report, runErr := gen.Run(cctx.Context, service.Options{
			SpecPath:  cctx.String("spec"),
			Languages: cctx.String("languages"),
			Source:    cctx.String("source"),
		})
		writeMetrics(cctx.String("metrics-textfile"), reg, logger)
		if runErr != nil {
			return runErr
		}

		printReport(cctx, report)
		return nil
	},
}

// writeMetrics stores the run metrics for a node_exporter textfile collector.
func writeMetrics(path string, reg *prometheus.Registry, logger *logrus.Logger) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		logger.WithError(err).WithField("path", path).Warn("Failed to write metrics")
	}
}

func printReport(cctx *cli.Context, report *service.Report) {
	out := cctx.App.Writer
	cyan := color.New(color.FgCyan)

	color.New(color.Bold, color.FgGreen).Fprint(out, "\n✔ Done! Your translated specs are in:\n\n")
	for _, f := range report.Files {
		cyan.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintln(out, "\nTo view your docs, run:")
	cyan.Fprintln(out, "  glossia serve")
	fmt.Fprintln(out)
}
