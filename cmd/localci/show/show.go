// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show prints the pipeline tree and the stored resume point.
package show

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/localci/cmd/localci/run"
	"github.com/matt-FFFFFF/localci/internal/ctxlog"
	"github.com/matt-FFFFFF/localci/internal/pipeline"
	"github.com/matt-FFFFFF/localci/internal/resumestate"
	"github.com/urfave/cli/v3"
)

// ShowCmd is the command that prints the pipeline. It reads --file from the root command.
var ShowCmd = &cli.Command{
	Name:   "show",
	Usage:  "Print the pipeline steps and the step a continued run would resume from",
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	ctxlog.Debug(ctx, "showing pipeline", "command", cmd.Name)

	dir, err := os.Getwd()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	def, err := run.LoadDefinition(ctx, cmd.String(run.FileFlag), dir)
	if err != nil {
		fmt.Fprintln(cmd.Root().ErrWriter, "❌ "+err.Error()) //nolint:errcheck
		return cli.Exit("", 1)
	}

	resumeFrom, _ := resumestate.New(dir).Load(ctx)

	write(cmd.Root().Writer, def, resumeFrom)

	return nil
}

func write(w io.Writer, def *pipeline.Definition, resumeFrom string) {
	fmt.Fprintln(w, def.Title) //nolint:errcheck

	if def.Subtitle != "" {
		fmt.Fprintln(w, def.Subtitle) //nolint:errcheck
	}

	fmt.Fprintln(w) //nolint:errcheck

	def.Walk(func(path []string, s *pipeline.StepDefinition) {
		indent := strings.Repeat("  ", len(path))

		if s.IsReport() {
			fmt.Fprintf(w, "%s▸ %s\n", indent, s.Title) //nolint:errcheck
			return
		}

		marker := ""
		if s.Title == resumeFrom {
			marker = "  ← resume point"
		}

		fmt.Fprintf(w, "%s• %s: %s%s\n", indent, s.Title, strings.Join(s.Argv(), " "), marker) //nolint:errcheck
	})

	fmt.Fprintln(w) //nolint:errcheck

	if resumeFrom == "" {
		fmt.Fprintln(w, "No resume point stored.") //nolint:errcheck
		return
	}

	fmt.Fprintf(w, "Resume point: %s\n", resumeFrom) //nolint:errcheck
}
