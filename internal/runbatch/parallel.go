// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matt-FFFFFF/localci/internal/ctxlog"
	"github.com/matt-FFFFFF/localci/internal/signalbroker"
)

// graceCheckInterval is how often exits are checked while waiting for SIGTERM to work.
const graceCheckInterval = 10 * time.Millisecond

// teardown routes signals while parallel steps run. The first signal interrupts the
// enclosing report; a repeated one ends the kill grace early.
type teardown struct {
	signals   *signalbroker.Broker
	interrupt func(os.Signal)
	hurry     chan struct{}
	hurryOnce sync.Once

	mu      sync.Mutex
	done    bool
	restore func()
}

func newTeardown(signals *signalbroker.Broker, interrupt func(os.Signal)) *teardown {
	return &teardown{
		signals:   signals,
		interrupt: interrupt,
		hurry:     make(chan struct{}),
	}
}

// handle runs on the broker goroutine. The repeat handler is pushed before the report is
// cancelled so the next signal cannot reach a handler that has already seen one.
func (t *teardown) handle(sig os.Signal) {
	t.mu.Lock()
	if !t.done && t.restore == nil {
		t.restore = t.signals.Push(func(os.Signal) {
			t.hurryOnce.Do(func() { close(t.hurry) })
		})
	}
	t.mu.Unlock()

	if t.interrupt != nil {
		t.interrupt(sig)
	}
}

func (t *teardown) close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done = true

	if t.restore != nil {
		t.restore()
	}
}

// runParallel spawns every step and supervises them from this goroutine until all have exited.
// On cancellation it tears down all process groups and returns the cancellation cause.
// interrupt is called with the first signal received while the steps run.
func (r *runner) runParallel(ctx context.Context, steps []Step, interrupt func(os.Signal)) (Results, error) {
	logger := ctxlog.Logger(ctx).With("runnableType", "parallel")

	td := newTeardown(r.cfg.Signals, interrupt)
	restore := r.cfg.Signals.Push(td.handle)

	defer func() {
		td.close()
		restore()
	}()

	total := len(steps)
	r.p.echo(kindSubtitle, fmt.Sprintf("\n⏳ Running %d steps in parallel:", total))

	if !r.p.plain {
		for _, s := range steps {
			r.p.echo(kindPending, r.p.parallelLine(s.Title, statusPending, 0))
		}
	}

	jobs := make([]*job, 0, total)

	defer func() {
		for _, j := range jobs {
			j.release()
		}
	}()

	env := r.cfg.environ()

	for i, s := range steps {
		if ctx.Err() != nil {
			return nil, r.cancelJobs(ctx, jobs, td.hurry)
		}

		j := newJob(i, s)
		jobs = append(jobs, j)

		if err := j.openSinks(); err != nil {
			j.startFailed(err)
			continue
		}

		if err := j.start(r.cfg.Dir, env); err != nil {
			logger.Debug("could not start process", "title", j.title, "error", err)
			j.startFailed(err)

			continue
		}

		logger.Debug("process started", "title", j.title, "pid", j.pid)
	}

	var results Results

	outstanding := total

	timer := time.NewTimer(r.cfg.PollInterval)
	defer timer.Stop()

	for outstanding > 0 {
		if ctx.Err() != nil {
			return results, r.cancelJobs(ctx, jobs, td.hurry)
		}

		reapedAny := false

		for _, j := range jobs {
			if j.reported {
				continue
			}

			done, err := j.poll()
			if err != nil {
				logger.Debug("wait failed, recording step as failed", "title", j.title, "pid", j.pid, "error", err)
			}

			if !done {
				continue
			}

			logger.Debug("process reaped", "title", j.title, "pid", j.pid, "outcome", j.outcome())

			reapedAny = true
			outstanding--
			j.reported = true

			r.printJobLine(j, total)
			results = append(results, StepResult{Success: j.success, Title: j.title})

			if j.success {
				j.release()
			}
		}

		if reapedAny {
			continue
		}

		timer.Reset(r.cfg.PollInterval)

		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}

	r.printFailureSummary(ctx, jobs)

	return results, nil
}

func (r *runner) printJobLine(j *job, total int) {
	k, s := kindSuccess, statusSuccess
	if !j.success {
		k, s = kindError, statusError
	}

	line := r.p.parallelLine(j.title, s, j.duration)

	if r.p.plain {
		r.p.echo(k, line)
		return
	}

	r.p.rewriteLine(total-j.index, k, line)
}

// cancelJobs terminates every outstanding process group, escalating to SIGKILL after the grace
// period or as soon as hurry is closed.
func (r *runner) cancelJobs(ctx context.Context, jobs []*job, hurry <-chan struct{}) error {
	logger := ctxlog.Logger(ctx).With("runnableType", "parallel")

	var live []*job

	for _, j := range jobs {
		if !j.reaped && j.pid > 0 {
			live = append(live, j)
		}
	}

	logger.Debug("cancelling parallel steps", "outstanding", len(live), "cause", context.Cause(ctx))

	for _, j := range live {
		if err := j.terminate(); err != nil {
			logger.Debug("could not terminate process group", "title", j.title, "pid", j.pid, "error", err)
		}
	}

	grace := time.NewTimer(r.cfg.KillGrace)
	defer grace.Stop()

	tick := time.NewTicker(graceCheckInterval)
	defer tick.Stop()

wait:
	for !allReaped(live) {
		for _, j := range live {
			j.poll() //nolint:errcheck
		}

		select {
		case <-grace.C:
			break wait
		case <-hurry:
			logger.Debug("signal repeated, killing without grace")
			break wait
		case <-tick.C:
		}
	}

	for _, j := range live {
		if err := j.kill(); err != nil {
			logger.Debug("could not kill process group", "title", j.title, "pid", j.pid, "error", err)
		}
	}

	for _, j := range live {
		if err := j.reap(); err != nil {
			logger.Debug("could not reap process", "title", j.title, "pid", j.pid, "error", err)
		}
	}

	for _, j := range jobs {
		j.release()
	}

	return context.Cause(ctx)
}

func allReaped(jobs []*job) bool {
	for _, j := range jobs {
		if !j.reaped {
			return false
		}
	}

	return true
}

// printFailureSummary prints the captured output of every failed job in declaration order.
func (r *runner) printFailureSummary(ctx context.Context, jobs []*job) {
	var failed []*job

	for _, j := range jobs {
		if !j.success {
			failed = append(failed, j)
		}
	}

	if len(failed) == 0 {
		return
	}

	r.p.echo(kindError, "\n"+rule("", ruleWidth))
	r.p.echo(kindError, "Failed step output:")
	r.p.echo(kindError, rule("", ruleWidth))

	for _, j := range failed {
		r.p.echo(kindError, fmt.Sprintf("\n┌── %s (%s)", j.title, j.outcome()))
		r.p.echo(kindSubtitle, "│   Command: "+strings.Join(j.command, " "))

		stdout := r.readSink(ctx, j, "stdout")
		stderr := r.readSink(ctx, j, "stderr")

		if stdout == "" && stderr == "" {
			r.p.echo(kindSubtitle, "│   (no output)")
		}

		r.printSection(kindSubtitle, "stdout", stdout)
		r.printSection(kindError, "stderr", stderr)

		r.p.echo(kindError, rule("└", ruleWidth-1))

		j.release()
	}
}

func (r *runner) readSink(ctx context.Context, j *job, name string) string {
	f := j.stdout
	if name == "stderr" {
		f = j.stderr
	}

	content, err := tailContent(f, r.cfg.MaxOutputBytes)
	if err != nil {
		ctxlog.Debug(ctx, "could not read captured output", "title", j.title, "stream", name, "error", err)
		return ""
	}

	return content
}

func (r *runner) printSection(k kind, name, content string) {
	if content == "" {
		return
	}

	r.p.echo(kindSubtitle, "│")
	r.p.echo(k, "│   ── "+name+" ──")

	for _, line := range strings.Split(content, "\n") {
		r.p.echo(k, "│   "+strings.TrimRight(line, "\r"))
	}
}
