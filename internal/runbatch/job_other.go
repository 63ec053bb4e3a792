// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !unix

package runbatch

import (
	"errors"
	"time"
)

// ErrUnsupportedPlatform is returned when process groups are not available.
var ErrUnsupportedPlatform = errors.New("parallel mode needs process groups, which this platform does not provide")

func (j *job) start(_ string, _ []string) error {
	j.startedAt = time.Now()
	return ErrUnsupportedPlatform
}

func (j *job) poll() (bool, error) {
	return j.reaped, nil
}

func (j *job) terminate() error { return nil }

func (j *job) kill() error { return nil }

func (j *job) reap() error { return nil }
