// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"os/exec"
	"syscall"

	"github.com/matt-FFFFFF/localci/internal/ctxlog"
)

// runCommand runs one sequential step with inherited stdio and reports whether it exited zero.
// Cancelling ctx sends SIGTERM, then SIGKILL once the grace period has passed.
func (r *runner) runCommand(ctx context.Context, title string, command []string) bool {
	logger := ctxlog.Logger(ctx).With("runnableType", "sequential").With("title", title)

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = r.cfg.Dir
	cmd.Env = r.cfg.environ()
	cmd.Stdin = r.cfg.Stdin
	cmd.Stdout = r.cfg.Stdout
	cmd.Stderr = r.cfg.Stderr
	cmd.WaitDelay = r.cfg.KillGrace
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}

	logger.Debug("starting process", "path", cmd.Path, "args", cmd.Args, "cwd", cmd.Dir)

	err := cmd.Run()
	if err == nil {
		logger.Debug("process exited", "exitCode", 0)
		return true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("process exited", "exitCode", exitErr.ExitCode())
		return false
	}

	// The command could not be started, report it like a shell would.
	r.p.echo(kindError, err.Error())
	logger.Debug("could not start process", "error", err)

	return false
}
