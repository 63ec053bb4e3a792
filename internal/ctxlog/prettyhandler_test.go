// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name    string
		level   slog.Level
		handler slog.Level
		want    bool
	}{
		{name: "debug on debug handler", level: slog.LevelDebug, handler: slog.LevelDebug, want: true},
		{name: "debug on info handler", level: slog.LevelDebug, handler: slog.LevelInfo, want: false},
		{name: "error on warn handler", level: slog.LevelError, handler: slog.LevelWarn, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPrettyHandler(&slog.HandlerOptions{Level: tt.handler})
			assert.Equal(t, tt.want, h.Enabled(context.Background(), tt.level))
		})
	}
}

func TestPrettyHandler_HandlePlain(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, WithDestinationWriter(&buf)))
	logger.Info("job reaped", "pid", 42, "title", "Lint")

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "job reaped")
	assert.Contains(t, out, `"pid":42`)
	assert.Contains(t, out, `"title":"Lint"`)
	assert.NotContains(t, out, "\033[", "plain handler must not emit escape codes")
}

func TestPrettyHandler_HandleColour(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(&buf), WithColour()))
	logger.Error("spawn failed")

	assert.Contains(t, buf.String(), "\033[31mERROR:\033[0m")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(nil, WithDestinationWriter(&buf))
	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("scope", "Tests")}).WithGroup("job"))
	logger.Info("started", "index", 1)

	assert.Contains(t, buf.String(), `"scope":"Tests"`)
	assert.Contains(t, buf.String(), `"job":{"index":1}`)
}

func TestPrettyHandler_ReplaceAttrDropsTime(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	r := slog.NewRecord(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelWarn, "hello", 0)
	require.NoError(t, h.Handle(context.Background(), r))
	assert.Equal(t, "WARN: hello \n", buf.String())
}

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))
	r := slog.NewRecord(time.Now(), slog.LevelWarn, "hello", 0)

	err := h.Handle(context.Background(), r)
	assert.ErrorIs(t, err, ErrIoWrite)
}

func TestSuppressDefaults(t *testing.T) {
	f := suppressDefaults(nil)

	assert.Equal(t, slog.Attr{}, f(nil, slog.String(slog.MessageKey, "x")))
	assert.Equal(t, slog.Attr{}, f(nil, slog.String(slog.TimeKey, "x")))
	assert.Equal(t, slog.Attr{}, f(nil, slog.String(slog.LevelKey, "x")))
	assert.Equal(t, slog.String("k", "v"), f(nil, slog.String("k", "v")))
}
