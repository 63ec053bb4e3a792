// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// startFailedExitCode mirrors the shell's "command not found" status.
const startFailedExitCode = 127

// ErrStartProcess is written to a job's stderr when its command cannot be started.
var ErrStartProcess = errors.New("could not start process")

// job is one parallel step. It is owned by the poll loop.
type job struct {
	index     int
	title     string
	command   []string
	pid       int
	startedAt time.Time

	reaped   bool // the process has exited and been waited for, or never started
	reported bool // the status line and result have been emitted
	success  bool
	duration time.Duration
	exitCode int
	signal   string

	stdout *os.File
	stderr *os.File
}

func newJob(index int, s Step) *job {
	return &job{
		index:   index,
		title:   s.Title,
		command: s.Command,
	}
}

// openSinks creates the two capture files.
func (j *job) openSinks() error {
	var err error

	j.stdout, err = os.CreateTemp("", fmt.Sprintf("ci_stdout_%d_*.log", j.index))
	if err != nil {
		return err
	}

	j.stderr, err = os.CreateTemp("", fmt.Sprintf("ci_stderr_%d_*.log", j.index))
	if err != nil {
		j.release()
		return err
	}

	return nil
}

// startFailed marks the job as a completed failure and records err in its stderr sink.
func (j *job) startFailed(err error) {
	j.reaped = true
	j.success = false
	j.exitCode = startFailedExitCode
	j.duration = time.Since(j.startedAt)

	if j.stderr != nil {
		fmt.Fprintf(j.stderr, "%v\n", errors.Join(ErrStartProcess, err)) //nolint:errcheck
	}
}

// exited records the outcome of a reaped process.
func (j *job) exited(exitCode int, signal string) {
	j.reaped = true
	j.duration = time.Since(j.startedAt)
	j.exitCode = exitCode
	j.signal = signal
	j.success = signal == "" && exitCode == 0
}

// outcome describes how the job ended, for the failure summary.
func (j *job) outcome() string {
	if j.signal != "" {
		return "signal " + j.signal
	}

	return fmt.Sprintf("exit %d", j.exitCode)
}

// release closes and removes both sinks. It may be called more than once.
func (j *job) release() {
	for _, f := range []**os.File{&j.stdout, &j.stderr} {
		if *f == nil {
			continue
		}

		(*f).Close()           //nolint:errcheck
		os.Remove((*f).Name()) //nolint:errcheck
		*f = nil
	}
}

// tailContent returns the trimmed contents of f, keeping only the last limit bytes.
// Dropped bytes are reported with a marker line.
func tailContent(f *os.File, limit int64) (string, error) {
	if f == nil {
		return "", nil
	}

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}

	size := fi.Size()
	offset := int64(0)

	var sb strings.Builder

	if size > limit {
		offset = size - limit
		fmt.Fprintf(&sb, "[... truncated %d bytes ...]\n", offset)
	}

	if _, err := io.Copy(&sb, io.NewSectionReader(f, offset, size-offset)); err != nil {
		return "", err
	}

	return strings.TrimSpace(sb.String()), nil
}
