// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package runbatch

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// wait4 is replaced in tests.
var wait4 = unix.Wait4

// resolveExecutable finds the program to run. Paths with a separator are relative to dir.
func resolveExecutable(name, dir string) (string, error) {
	if strings.Contains(name, string(filepath.Separator)) {
		if !filepath.IsAbs(name) && dir != "" {
			name = filepath.Join(dir, name)
		}

		return name, nil
	}

	return exec.LookPath(name)
}

// start spawns the command in a new process group with its output going to the sinks.
func (j *job) start(dir string, env []string) error {
	j.startedAt = time.Now()

	path, err := resolveExecutable(j.command[0], dir)
	if err != nil {
		return err
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return err
	}
	defer devNull.Close() //nolint:errcheck

	ps, err := os.StartProcess(path, j.command, &os.ProcAttr{
		Dir:   dir,
		Env:   env,
		Files: []*os.File{devNull, j.stdout, j.stderr},
		Sys:   &syscall.SysProcAttr{Setpgid: true},
	})
	if err != nil {
		return err
	}

	j.pid = ps.Pid
	j.startedAt = time.Now()

	// The process is reaped with wait4 on its pid.
	return ps.Release()
}

// poll reaps the job without blocking. It reports whether the job has finished.
// A wait error other than EINTR also finishes the job: its group is killed and it is recorded as failed.
func (j *job) poll() (bool, error) {
	if j.reaped {
		return true, nil
	}

	var ws unix.WaitStatus

	pid, err := wait4(j.pid, &ws, unix.WNOHANG, nil)

	switch {
	case errors.Is(err, unix.EINTR):
		return false, nil
	case errors.Is(err, unix.ECHILD):
		// Someone else reaped it, the outcome is unknown.
		j.exited(-1, "")
		return true, nil
	case err != nil:
		j.kill() //nolint:errcheck
		j.exited(-1, "")

		return true, err
	case pid == 0:
		return false, nil
	}

	j.exitedWith(ws)

	return true, nil
}

func (j *job) exitedWith(ws unix.WaitStatus) {
	if ws.Signaled() {
		j.exited(-1, unix.SignalName(ws.Signal()))
		return
	}

	j.exited(ws.ExitStatus(), "")
}

// signalGroup sends sig to the job's whole process group. A group that is gone is ignored.
func (j *job) signalGroup(sig unix.Signal) error {
	if j.pid <= 0 {
		return nil
	}

	if err := unix.Kill(-j.pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}

	return nil
}

func (j *job) terminate() error {
	return j.signalGroup(unix.SIGTERM)
}

func (j *job) kill() error {
	return j.signalGroup(unix.SIGKILL)
}

// reap blocks until the job's process has exited. A child that is already gone is ignored.
func (j *job) reap() error {
	if j.reaped || j.pid <= 0 {
		return nil
	}

	var ws unix.WaitStatus

	for {
		_, err := wait4(j.pid, &ws, 0, nil)

		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			j.exited(-1, "")
			return nil
		case err != nil:
			return err
		}

		j.exitedWith(ws)

		return nil
	}
}
