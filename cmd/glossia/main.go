package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/dasmlab/glossia/pkg/settings"
	"github.com/dasmlab/glossia/pkg/translate"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newApp builds the command tree. Commands return errors; only main decides
// the exit status.
func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "glossia",
		Usage:     "Translate your OpenAPI spec into multiple languages",
		Version:   version,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "project directory (default: $GLOSSIA_DIR or .glossia)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn, error (default: $GLOSSIA_LOG_LEVEL or info)",
			},
		},
		Commands: []*cli.Command{
			generateCmd,
			serveCmd,
			ejectCmd,
		},
		// Errors are printed once by main.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// env loads settings, applies global flag overrides and builds the logger.
func env(cctx *cli.Context) (*settings.Settings, *logrus.Logger, error) {
	s, err := settings.Load()
	if err != nil {
		return nil, nil, err
	}
	if dir := cctx.String("dir"); dir != "" {
		s.Dir = dir
	}
	if lvl := cctx.String("log-level"); lvl != "" {
		s.LogLevel = lvl
	}
	return s, newLogger(cctx.App.ErrWriter, s.LogLevel), nil
}

// newLogger writes text logs with full RFC3339 timestamps to w. An invalid
// level falls back to info.
func newLogger(w io.Writer, lvl string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// printError reports a fatal error with the hint matching its kind.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "\n✖ %v\n", err)

	var tf *translate.TranslationFailure
	if errors.As(err, &tf) && tf.ManualCommand != "" {
		fmt.Fprintln(w, "Please try running manually from the project directory:")
		color.New(color.FgCyan).Fprintf(w, "  %s\n", tf.ManualCommand)
	}
}
