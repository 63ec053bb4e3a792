// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0.00s"},
		{in: 1234 * time.Millisecond, want: "1.23s"},
		{in: 59*time.Second + 990*time.Millisecond, want: "59.99s"},
		{in: 2*time.Minute + 3450*time.Millisecond, want: "2m3.45s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.in))
		})
	}
}

func TestPrinter_PlainHeading(t *testing.T) {
	var buf bytes.Buffer

	p := newPrinter(&buf, true)
	p.heading("Tests", "bin/rails test", kindTitle, true)

	assert.Equal(t, "\n\nTests\nbin/rails test\n\n", buf.String())

	buf.Reset()
	p.heading("Continuous Integration", "Running checks", kindBanner, false)
	assert.Equal(t, "Continuous Integration\nRunning checks\n", buf.String())

	buf.Reset()
	p.heading("Setup", "", kindTitle, false)
	assert.Equal(t, "Setup\n", buf.String())
}

func TestPrinter_ModeInfo(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		resume string
		want   string
	}{
		{name: "sequential prints nothing", mode: ModeSequential, want: ""},
		{name: "continue without target prints nothing", mode: ModeSequentialContinue, want: ""},
		{name: "fail-fast and continue", mode: ModeSequentialFailFastContinue, resume: "Tests", want: "Mode: fail-fast, continue from 'Tests'\n\n"},
		{name: "parallel", mode: ModeParallel, want: "Mode: parallel\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			newPrinter(&buf, true).modeInfo(tt.mode, tt.resume)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_Colour(t *testing.T) {
	var buf bytes.Buffer

	p := newPrinter(&buf, false)
	p.echo(kindError, "\nboom")

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "boom")
	assert.True(t, len(out) > 0 && out[0] == '\n', "empty lines are left unstyled")

	buf.Reset()
	newPrinter(&buf, true).echo(kindError, "boom")
	assert.Equal(t, "boom\n", buf.String())
}

func TestPrinter_ParallelLine(t *testing.T) {
	plain := newPrinter(&bytes.Buffer{}, true)
	fancy := newPrinter(&bytes.Buffer{}, false)

	assert.Equal(t, "   - Lint", plain.parallelLine("Lint", statusPending, 0))
	assert.Equal(t, "   OK Lint (1.50s)", plain.parallelLine("Lint", statusSuccess, 1500*time.Millisecond))
	assert.Equal(t, "   FAIL Lint (0.25s)", plain.parallelLine("Lint", statusError, 250*time.Millisecond))
	assert.Equal(t, "   • Lint", fancy.parallelLine("Lint", statusPending, 0))
	assert.Equal(t, "   ✅ Lint (1.50s)", fancy.parallelLine("Lint", statusSuccess, 1500*time.Millisecond))
	assert.Equal(t, "   ❌ Lint (0.25s)", fancy.parallelLine("Lint", statusError, 250*time.Millisecond))
}

func TestPrinter_RewriteLine(t *testing.T) {
	var buf bytes.Buffer

	newPrinter(&buf, true).rewriteLine(3, kindSuccess, "   OK Lint (1.00s)")
	assert.Equal(t, "\033[s\033[3A\r\033[2K   OK Lint (1.00s)\033[u", buf.String())
}
