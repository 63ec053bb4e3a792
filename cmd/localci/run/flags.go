// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import "github.com/urfave/cli/v3"

const (
	// FileFlag names the pipeline definition to run.
	FileFlag = "file"
	// FileEnvVar can be used instead of --file.
	FileEnvVar = "LOCALCI_FILE"

	failFastFlag = "fail-fast"
	continueFlag = "continue"
	parallelFlag = "parallel"
	plainFlag    = "plain"
	titleFlag    = "title"
	subtitleFlag = "subtitle"
)

// newFileFlag returns the --file flag.
func newFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name: FileFlag,
		Usage: "Pipeline definition (YAML or HCL). A local path or a go-getter URL. " +
			"Defaults to the first of ci.yaml, ci.yml or ci.hcl in the working directory.",
		TakesFile: true,
		Sources:   cli.EnvVars(FileEnvVar),
		OnlyOnce:  true,
	}
}

// Flags returns the flags of the run action.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    failFastFlag,
			Aliases: []string{"f"},
			Usage:   "Stop immediately when a step fails",
		},
		&cli.BoolFlag{
			Name:    continueFlag,
			Aliases: []string{"c"},
			Usage:   "Resume from the last failed step",
		},
		&cli.BoolFlag{
			Name:    parallelFlag,
			Aliases: []string{"p"},
			Usage:   "Run all steps concurrently (cannot be combined with --fail-fast or --continue)",
		},
		&cli.BoolFlag{
			Name:  plainFlag,
			Usage: "Disable ANSI cursor updates and colours (implied when stdout is not a terminal)",
		},
		newFileFlag(),
		&cli.StringFlag{
			Name:  titleFlag,
			Usage: "Override the pipeline title",
		},
		&cli.StringFlag{
			Name:  subtitleFlag,
			Usage: "Override the pipeline subtitle",
		},
	}
}
