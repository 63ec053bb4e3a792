// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		failFast bool
		cont     bool
		parallel bool
		want     Mode
		wantErr  string
	}{
		{name: "none", want: ModeSequential},
		{name: "fail-fast", failFast: true, want: ModeSequentialFailFast},
		{name: "continue", cont: true, want: ModeSequentialContinue},
		{name: "fail-fast and continue", failFast: true, cont: true, want: ModeSequentialFailFastContinue},
		{name: "parallel", parallel: true, want: ModeParallel},
		{name: "parallel and fail-fast", parallel: true, failFast: true, wantErr: "Cannot combine --parallel with --fail-fast"},
		{name: "parallel and continue", parallel: true, cont: true, wantErr: "Cannot combine --parallel with --continue"},
		{name: "parallel and both", parallel: true, failFast: true, cont: true, wantErr: "Cannot combine --parallel with --fail-fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ModeFromFlags(tt.failFast, tt.cont, tt.parallel)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrModeConflict)
				assert.EqualError(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModePredicates(t *testing.T) {
	assert.False(t, ModeSequential.FailFast())
	assert.False(t, ModeSequential.Continue())
	assert.True(t, ModeSequentialFailFastContinue.FailFast())
	assert.True(t, ModeSequentialFailFastContinue.Continue())
	assert.False(t, ModeSequentialFailFastContinue.Parallel())
	assert.True(t, ModeParallel.Parallel())
	assert.False(t, ModeParallel.FailFast())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "sequential", ModeSequential.String())
	assert.Equal(t, "fail-fast, continue", ModeSequentialFailFastContinue.String())
	assert.Equal(t, "parallel", ModeParallel.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
