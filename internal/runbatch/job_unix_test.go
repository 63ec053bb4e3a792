// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package runbatch

import (
	"context"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func failingWait4(int, *unix.WaitStatus, int, *unix.Rusage) (int, error) {
	return 0, unix.EINVAL
}

func TestJobPoll_WaitErrorFinishesJob(t *testing.T) {
	j := newJob(0, Step{Title: "Sleeper", Command: []string{"sleep", "30"}})
	require.NoError(t, j.openSinks())

	defer j.release()

	require.NoError(t, j.start(t.TempDir(), nil))

	stubs := gostub.Stub(&wait4, failingWait4)

	done, err := j.poll()

	stubs.Reset()

	require.ErrorIs(t, err, unix.EINVAL)
	assert.True(t, done)
	assert.False(t, j.success)
	assert.Equal(t, "exit -1", j.outcome())

	// The group was killed, so reaping the real process does not block for long.
	var ws unix.WaitStatus

	_, err = unix.Wait4(j.pid, &ws, 0, nil)
	require.NoError(t, err)
	assert.True(t, ws.Signaled())
	assert.Equal(t, unix.SIGKILL, ws.Signal())
}

func TestRunParallel_WaitErrorStillRecordsEveryStep(t *testing.T) {
	cfg, out := testConfig(t, ModeParallel)
	r := newRunner(mustNormalize(t, cfg))

	stubs := gostub.Stub(&wait4, failingWait4)
	defer stubs.Reset()

	finished := make(chan struct{})

	var (
		results Results
		err     error
	)

	go func() {
		defer close(finished)

		results, err = r.runParallel(context.Background(), []Step{
			{Title: "One", Command: []string{"sleep", "30"}},
			{Title: "Two", Command: []string{"sleep", "30"}},
		}, nil)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("the poll loop must end when wait keeps failing")
	}

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Len(t, results.Failures(), 2)
	assert.Contains(t, out.String(), "Failed step output:")
}
