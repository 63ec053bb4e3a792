// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"

	"github.com/matt-FFFFFF/localci/internal/ctxlog"
)

// Run prints the heading, runs declare inside the top-level report and updates the resume state.
// It returns whether every step passed. A non-nil error means the run was stopped early,
// by fail-fast, a signal or invalid input.
func Run(ctx context.Context, cfg Config, title, subtitle string, declare func(context.Context, *Scope)) (bool, error) {
	c, err := cfg.normalized()
	if err != nil {
		return false, err
	}

	r := newRunner(c)
	root := &Scope{r: r}

	if c.Mode.Continue() {
		if target, ok := c.State.Load(ctx); ok {
			root.skip = skipState{until: target}
		}
	}

	ctxlog.Debug(ctx, "starting run", "mode", c.Mode.String(), "resumeFrom", root.skip.until, "plain", c.Plain)

	r.p.heading(title, subtitle, kindBanner, false)
	r.p.modeInfo(c.Mode, root.skip.until)

	root.Report(ctx, title, declare)

	if r.fatal != nil {
		return false, r.fatal
	}

	if root.Success() {
		if err := c.State.Clear(ctx); err != nil {
			ctxlog.Warn(ctx, "could not clear resume state", "error", err)
		}

		return true, nil
	}

	if first := root.results.Failures(); len(first) > 0 {
		if err := c.State.Save(ctx, first[0].Title); err != nil {
			ctxlog.Warn(ctx, "could not save resume state", "error", err)
		}
	}

	return false, nil
}
