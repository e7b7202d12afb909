package main

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/dasmlab/glossia/pkg/auth"
	"github.com/dasmlab/glossia/pkg/viewer"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Start the local docs viewer",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "port to run the server on",
			Value:   viewer.DefaultPort,
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
		if !paths.Exists() {
			return viewer.ErrNoProject
		}

		// Prefer an ejected viewer in the working directory over the bundled one.
		assets := viewer.Assets()
		envFile := filepath.Join(paths.Root, ".env")
		if info, err := os.Stat(s.ViewerDir); err == nil && info.IsDir() {
			logger.WithFields(logrus.Fields{
				"dir": s.ViewerDir,
			}).Info("Using ejected viewer")
			assets = os.DirFS(s.ViewerDir)
			envFile = filepath.Join(s.ViewerDir, ".env")
		}

		checker := auth.NewChecker(auth.Config{
			APIKey:   s.APIKey,
			EnvFiles: []string{envFile, ".env"},
			Logger:   logger,
		})
		var prompter viewer.Prompter
		if viewer.Interactive() {
			prompter = viewer.TerminalPrompter{}
		}
		if _, err := viewer.EnsureAPIKey(checker, prompter, envFile, logger); err != nil {
			return err
		}

		srv, err := viewer.NewServer(viewer.Config{
			Paths:  paths,
			Assets: assets,
			Port:   cctx.Int("port"),
			Logger: logger,
		})
		if err != nil {
			return err
		}

		color.New(color.FgCyan).Fprintf(cctx.App.Writer, "\n🚀 Starting server on http://localhost:%d\n\n", cctx.Int("port"))
		return srv.Start(cctx.Context)
	},
}
