// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package reset removes the stored resume point.
package reset

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/localci/internal/ctxlog"
	"github.com/matt-FFFFFF/localci/internal/resumestate"
	"github.com/urfave/cli/v3"
)

// ResetCmd is the command that clears the resume state.
var ResetCmd = &cli.Command{
	Name:   "reset",
	Usage:  "Forget the step a continued run would resume from",
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	store := resumestate.New(dir)
	w := cmd.Root().Writer

	title, found := store.Load(ctx)

	if err := store.Clear(ctx); err != nil {
		ctxlog.Error(ctx, "could not clear resume state", "path", store.Path(), "error", err)
		return cli.Exit(err.Error(), 1)
	}

	if !found {
		fmt.Fprintln(w, "No resume point stored.") //nolint:errcheck
		return nil
	}

	fmt.Fprintf(w, "Cleared resume point: %s\n", title) //nolint:errcheck

	return nil
}
