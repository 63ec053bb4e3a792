// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrFatal is matched by every error that stops the whole run.
	ErrFatal = errors.New("fatal error")
	// ErrModeConflict is returned when incompatible modes are requested together.
	ErrModeConflict = errors.New("incompatible modes")
	// ErrDuplicateStepTitle is returned when a step title is declared twice.
	ErrDuplicateStepTitle = errors.New("duplicate step title")
	// ErrEmptyStepTitle is returned when a step has no title.
	ErrEmptyStepTitle = errors.New("empty step title")
	// ErrEmptyCommand is returned when a step has no command.
	ErrEmptyCommand = errors.New("empty command")
	// ErrInvalidConfig is returned when the run configuration is unusable.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ModeConflictError names the flags that cannot be combined.
type ModeConflictError struct {
	Flags []string
}

// Error implements the error interface.
func (e *ModeConflictError) Error() string {
	return "Cannot combine " + strings.Join(e.Flags, " with ")
}

// Is reports whether target is ErrModeConflict.
func (e *ModeConflictError) Is(target error) bool {
	return target == ErrModeConflict
}

// FailFastError is returned when a step fails with fail-fast enabled.
type FailFastError struct {
	Title string
}

// Error implements the error interface.
func (e *FailFastError) Error() string {
	return fmt.Sprintf("%s failed (fail-fast enabled)", e.Title)
}

// Is reports whether target is ErrFatal.
func (e *FailFastError) Is(target error) bool {
	return target == ErrFatal
}

// InterruptError is the cancellation cause of a report that received a signal.
type InterruptError struct {
	Title  string
	Signal os.Signal
}

// Error implements the error interface.
func (e *InterruptError) Error() string {
	return e.Title + " " + e.Verb()
}

// Verb returns "interrupted" for an interrupt signal and "terminated" otherwise.
func (e *InterruptError) Verb() string {
	if e.Signal == os.Interrupt {
		return "interrupted"
	}

	return "terminated"
}

// Is reports whether target is ErrFatal.
func (e *InterruptError) Is(target error) bool {
	return target == ErrFatal
}
