// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matt-FFFFFF/localci/internal/resumestate"
	"github.com/matt-FFFFFF/localci/internal/signalbroker"
)

const (
	// DefaultPollInterval is the sleep between parallel poll passes that reaped nothing.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultKillGrace is the time between SIGTERM and SIGKILL on cancellation.
	DefaultKillGrace = time.Second
	// DefaultMaxOutputBytes is the captured output kept per stream for the failure summary.
	DefaultMaxOutputBytes = 100 * 1024
)

// Config is everything the engine needs to know about its environment.
type Config struct {
	Mode           Mode
	Plain          bool                 // No colour and no cursor movement
	Dir            string               // Working directory for commands and the state file
	Stdin          io.Reader            // Inherited by sequential steps
	Stdout         io.Writer            // Report output, also inherited by sequential steps
	Stderr         io.Writer            // Inherited by sequential steps
	Env            []string             // Appended to the parent environment, KEY=VALUE
	State          *resumestate.Store   // Defaults to the state file in Dir
	Signals        *signalbroker.Broker // Nil disables signal handling
	PollInterval   time.Duration
	KillGrace      time.Duration
	MaxOutputBytes int64
}

// normalized returns a copy of c with defaults applied.
func (c Config) normalized() (*Config, error) {
	if !c.Mode.valid() {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, c.Mode)
	}

	if c.PollInterval < 0 || c.KillGrace < 0 || c.MaxOutputBytes < 0 {
		return nil, fmt.Errorf("%w: durations and limits must not be negative", ErrInvalidConfig)
	}

	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}

	if c.KillGrace == 0 {
		c.KillGrace = DefaultKillGrace
	}

	if c.MaxOutputBytes == 0 {
		c.MaxOutputBytes = DefaultMaxOutputBytes
	}

	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}

	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}

	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	if c.State == nil {
		c.State = resumestate.New(c.Dir)
	}

	return &c, nil
}

func (c *Config) environ() []string {
	return append(os.Environ(), c.Env...)
}
