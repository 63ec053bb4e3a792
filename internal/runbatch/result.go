// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// StepResult is the outcome of one step.
type StepResult struct {
	Success bool   // Whether the step passed
	Title   string // Title of the step
	Skipped bool   // Recorded as a success without running, see continue mode
}

// Results is an ordered list of step outcomes.
type Results []StepResult

// Success is the logical AND of all results. It is true when there are none.
func (r Results) Success() bool {
	for _, v := range r {
		if !v.Success {
			return false
		}
	}

	return true
}

// Failures returns the failed results in order.
func (r Results) Failures() Results {
	var out Results

	for _, v := range r {
		if !v.Success {
			out = append(out, v)
		}
	}

	return out
}

// Titles returns the titles in order.
func (r Results) Titles() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.Title
	}

	return out
}
