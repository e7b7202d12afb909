package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/dasmlab/glossia/pkg/viewer"
)

var ejectCmd = &cli.Command{
	Name:  "eject",
	Usage: "Copy the viewer into ./glossia-viewer so you can customize and deploy it",
	Action: func(cctx *cli.Context) error {
		s, logger, err := env(cctx)
		if err != nil {
			return err
		}

		out := cctx.App.Writer
		cyan := color.New(color.FgCyan)
		color.New(color.Bold).Fprintln(out, "\n📦 Glossia Eject")

		if err := viewer.Eject(viewer.Assets(), s.ViewerDir); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"dest": s.ViewerDir,
		}).Info("Viewer ejected")

		color.New(color.FgGreen).Fprintf(out, "✔ Viewer ejected to %s/\n\n", s.ViewerDir)
		fmt.Fprintln(out, "The ejected viewer is used automatically when you run:")
		cyan.Fprintln(out, "  glossia serve")
		fmt.Fprintln(out)
		return nil
	},
}
