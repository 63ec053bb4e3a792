// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the localci command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/localci"
	"github.com/matt-FFFFFF/localci/cmd/localci/reset"
	"github.com/matt-FFFFFF/localci/cmd/localci/run"
	"github.com/matt-FFFFFF/localci/cmd/localci/show"
	"github.com/matt-FFFFFF/localci/internal/ctxlog"
	"github.com/matt-FFFFFF/localci/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd runs the pipeline by default; the subcommands inspect and reset the resume state.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		show.ShowCmd,
		reset.ResetCmd,
	},
	Flags:                  run.Flags(),
	Action:                 run.Action,
	Writer:                 os.Stdout,
	ErrWriter:              os.Stderr,
	Name:                   "localci",
	Usage:                  "localci [-f] [-c] [-p] [--plain] [--file ci.yaml]",
	Description:            run.Description,
	UseShortOptionHandling: true,
	Copyright:              "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	broker := signalbroker.New(ctx)
	ctx = signalbroker.WithBroker(ctx, broker)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", localci.Version, localci.Commit)

	err := rootCmd.Run(ctx, os.Args) // exit codes are handled by the cli framework

	cancel()
	<-broker.Done()

	if err != nil {
		ctxlog.Error(ctx, "command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Info(ctx, "command completed successfully")
}
