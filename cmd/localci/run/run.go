// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the default action of the CLI: running a pipeline.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/localci/internal/color"
	"github.com/matt-FFFFFF/localci/internal/ctxlog"
	"github.com/matt-FFFFFF/localci/internal/resumestate"
	"github.com/matt-FFFFFF/localci/internal/runbatch"
	"github.com/matt-FFFFFF/localci/internal/signalbroker"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const cliExitStr = ""

// childEnv is added to the environment of every step.
var childEnv = []string{"CI=true"}

// Description is the help text of the run action.
const Description = `Runs the steps of the pipeline definition and reports pass or fail for each.

Modes:
  -f, --fail-fast   Stop immediately when a step fails
  -c, --continue    Resume from the last failed step
  -fc, -cf          Combine fail-fast and continue
  -p, --parallel    Run all steps concurrently

--parallel cannot be combined with --fail-fast or --continue.
The step to resume from is stored in ` + resumestate.FileName + ` in the working directory.`

// Action runs the pipeline.
func Action(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("running pipeline")

	out, errOut := cmd.Root().Writer, cmd.Root().ErrWriter

	plain := color.Plain(color.Environment{
		ForcePlain: cmd.Bool(plainFlag),
		IsTerminal: isTerminal(out),
		LookupEnv:  os.LookupEnv,
	})

	mode, err := runbatch.ModeFromFlags(cmd.Bool(failFastFlag), cmd.Bool(continueFlag), cmd.Bool(parallelFlag))
	if err != nil {
		failure(errOut, plain, err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	dir, err := os.Getwd()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	def, err := LoadDefinition(ctx, cmd.String(FileFlag), dir)
	if err != nil {
		failure(errOut, plain, err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	title, subtitle := def.Title, def.Subtitle
	if cmd.IsSet(titleFlag) {
		title = cmd.String(titleFlag)
	}

	if cmd.IsSet(subtitleFlag) {
		subtitle = cmd.String(subtitleFlag)
	}

	cfg := runbatch.Config{
		Mode:    mode,
		Plain:   plain,
		Dir:     dir,
		Stdin:   os.Stdin,
		Stdout:  out,
		Stderr:  errOut,
		Env:     childEnv,
		State:   resumestate.New(dir),
		Signals: signalbroker.FromContext(ctx),
	}

	ok, err := runbatch.Run(ctx, cfg, title, subtitle, def.Declare)

	switch {
	case err == nil && ok:
		return nil
	case err == nil:
		logger.Debug("pipeline failed")
		return cli.Exit(cliExitStr, 1)
	case errors.Is(err, runbatch.ErrFatal):
		logger.Debug("pipeline stopped", "error", err)
		return cli.Exit(cliExitStr, 1)
	default:
		failure(errOut, plain, err.Error())
		return cli.Exit(cliExitStr, 1)
	}
}

func failure(w io.Writer, plain bool, msg string) {
	msg = "❌ " + msg
	if !plain {
		msg = color.Colorize(msg, color.Bold, color.FgRed)
	}

	fmt.Fprintln(w, msg) //nolint:errcheck
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
