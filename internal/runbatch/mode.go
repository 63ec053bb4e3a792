// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "strings"

// Mode selects the execution regime. It is fixed for the whole run.
type Mode int

const (
	// ModeSequential runs steps one at a time and records every outcome.
	ModeSequential Mode = iota
	// ModeSequentialFailFast stops the run at the first failed step.
	ModeSequentialFailFast
	// ModeSequentialContinue skips ahead to the step that failed last time.
	ModeSequentialContinue
	// ModeSequentialFailFastContinue combines fail-fast and continue.
	ModeSequentialFailFastContinue
	// ModeParallel runs every step concurrently.
	ModeParallel
)

// ModeFromFlags resolves the command line flags to a Mode.
// Parallel cannot be combined with fail-fast or continue.
func ModeFromFlags(failFast, cont, parallel bool) (Mode, error) {
	if parallel {
		switch {
		case failFast:
			return ModeSequential, &ModeConflictError{Flags: []string{"--parallel", "--fail-fast"}}
		case cont:
			return ModeSequential, &ModeConflictError{Flags: []string{"--parallel", "--continue"}}
		}

		return ModeParallel, nil
	}

	switch {
	case failFast && cont:
		return ModeSequentialFailFastContinue, nil
	case failFast:
		return ModeSequentialFailFast, nil
	case cont:
		return ModeSequentialContinue, nil
	}

	return ModeSequential, nil
}

// FailFast reports whether the first failure stops the run.
func (m Mode) FailFast() bool {
	return m == ModeSequentialFailFast || m == ModeSequentialFailFastContinue
}

// Continue reports whether the run resumes from the stored step.
func (m Mode) Continue() bool {
	return m == ModeSequentialContinue || m == ModeSequentialFailFastContinue
}

// Parallel reports whether steps run concurrently.
func (m Mode) Parallel() bool {
	return m == ModeParallel
}

func (m Mode) valid() bool {
	return m >= ModeSequential && m <= ModeParallel
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if !m.valid() {
		return "unknown"
	}

	var parts []string

	if m.FailFast() {
		parts = append(parts, "fail-fast")
	}

	if m.Continue() {
		parts = append(parts, "continue")
	}

	if m.Parallel() {
		parts = append(parts, "parallel")
	}

	if len(parts) == 0 {
		return "sequential"
	}

	return strings.Join(parts, ", ")
}
