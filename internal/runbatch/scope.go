// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/matt-FFFFFF/localci/internal/ctxlog"
)

// Step is a named command.
type Step struct {
	Title   string
	Command []string
}

// skipState is the resume target a scope is still skipping towards.
// Scopes pass it by value: a child works on a copy and the parent adopts the child's value.
type skipState struct {
	until string
}

func (s skipState) active() bool {
	return s.until != ""
}

// runner is the state shared by every scope of one run.
type runner struct {
	cfg    *Config
	p      *printer
	titles map[string]struct{}
	fatal  error
}

func newRunner(cfg *Config) *runner {
	return &runner{
		cfg:    cfg,
		p:      newPrinter(cfg.Stdout, cfg.Plain),
		titles: make(map[string]struct{}),
	}
}

// fail records the first fatal error. Once set, every later Step and Report is a no-op.
func (r *runner) fail(err error) {
	if r.fatal == nil {
		r.fatal = err
	}
}

func (r *runner) register(title string, command []string) error {
	if title == "" {
		return ErrEmptyStepTitle
	}

	if len(command) == 0 || command[0] == "" {
		return fmt.Errorf("%w: %q", ErrEmptyCommand, title)
	}

	if _, ok := r.titles[title]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateStepTitle, title)
	}

	r.titles[title] = struct{}{}

	return nil
}

// Scope is where steps and nested reports are declared.
type Scope struct {
	r       *runner
	skip    skipState
	results Results
	queued  []Step
}

// Results returns the results recorded in this scope so far.
func (s *Scope) Results() Results {
	return slices.Clone(s.results)
}

// Success reports whether every result recorded in this scope passed.
func (s *Scope) Success() bool {
	return s.results.Success()
}

// Err returns the error that stopped the run, if any.
func (s *Scope) Err() error {
	return s.r.fatal
}

// Step declares and, unless skipped or queued for parallel execution, runs a step.
func (s *Scope) Step(ctx context.Context, title string, command ...string) {
	r := s.r
	if r.fatal != nil {
		return
	}

	if err := r.register(title, command); err != nil {
		r.fail(err)
		return
	}

	if s.skip.active() {
		if title != s.skip.until {
			r.p.heading(title, fmt.Sprintf("skipped (resuming from: %s)", s.skip.until), kindSkip, true)
			s.results = append(s.results, StepResult{Success: true, Title: title, Skipped: true})

			return
		}

		s.skip = skipState{}

		if err := r.cfg.State.Clear(ctx); err != nil {
			ctxlog.Warn(ctx, "could not clear resume state", "error", err)
		}
	}

	if r.cfg.Mode.Parallel() {
		s.queued = append(s.queued, Step{Title: title, Command: slices.Clone(command)})
		return
	}

	r.p.heading(title, strings.Join(command, " "), kindTitle, true)

	s.Report(ctx, title, func(ctx context.Context, child *Scope) {
		child.execute(ctx, title, command)
	})
}

func (s *Scope) execute(ctx context.Context, title string, command []string) {
	r := s.r
	ok := r.runCommand(ctx, title, command)

	if ctx.Err() != nil {
		return
	}

	s.results = append(s.results, StepResult{Success: ok, Title: title})

	if ok || !r.cfg.Mode.FailFast() {
		return
	}

	if err := r.cfg.State.Save(ctx, title); err != nil {
		ctxlog.Warn(ctx, "could not save resume state", "error", err)
	}

	r.p.echo(kindError, fmt.Sprintf("\n❌ %s failed (fail-fast enabled)", title))
	r.fail(&FailFastError{Title: title})
}

// Report runs fn in a named child scope.
// It times the scope, routes signals to it and prints a banner with the outcome.
// Parallel steps declared in fn run when fn returns.
func (s *Scope) Report(ctx context.Context, title string, fn func(context.Context, *Scope)) {
	r := s.r
	if r.fatal != nil {
		return
	}

	rctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	interrupt := func(sig os.Signal) {
		cancel(&InterruptError{Title: title, Signal: sig})
	}

	restore := r.cfg.Signals.Push(interrupt)
	defer restore()

	child := &Scope{r: r, skip: s.skip}
	started := time.Now()

	fn(rctx, child)

	if r.fatal == nil && rctx.Err() == nil && len(child.queued) > 0 {
		res, err := r.runParallel(rctx, child.queued, interrupt)
		child.results = append(child.results, res...)

		if err != nil {
			r.fail(err)
		}
	}

	elapsed := time.Since(started)

	s.skip = child.skip
	s.results = append(s.results, child.results...)

	if rctx.Err() != nil {
		r.fail(context.Cause(rctx))
	}

	if r.fatal != nil {
		s.interrupted(ctx, rctx)
		return
	}

	if child.Success() {
		r.p.echo(kindSuccess, fmt.Sprintf("\n✅ %s passed in %s", title, formatDuration(elapsed)))
		return
	}

	r.p.echo(kindError, fmt.Sprintf("\n❌ %s failed in %s", title, formatDuration(elapsed)))

	if len(child.results) > 1 {
		for _, f := range child.results.Failures() {
			r.p.echo(kindError, fmt.Sprintf("   ↳ %s failed", f.Title))
		}
	}
}

// interrupted prints the banner of the report whose own signal handler fired.
func (s *Scope) interrupted(parent, own context.Context) {
	if parent.Err() != nil || own.Err() == nil {
		return
	}

	var ie *InterruptError
	if errors.As(context.Cause(own), &ie) {
		s.r.p.echo(kindError, "\n❌ "+ie.Error())
	}
}
