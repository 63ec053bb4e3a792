// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package reset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/localci/internal/resumestate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestReset(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var out bytes.Buffer

	require.NoError(t, os.WriteFile(filepath.Join(dir, resumestate.FileName), []byte("Unit\n"), 0o644))

	require.NoError(t, newRoot(&out).Run(context.Background(), []string{"localci", "reset"}))
	assert.Equal(t, "Cleared resume point: Unit\n", out.String())
	assert.NoFileExists(t, filepath.Join(dir, resumestate.FileName))

	out.Reset()

	require.NoError(t, newRoot(&out).Run(context.Background(), []string{"localci", "reset"}))
	assert.Equal(t, "No resume point stored.\n", out.String())
}

func newRoot(out *bytes.Buffer) *cli.Command {
	return &cli.Command{
		Name:      "localci",
		Commands:  []*cli.Command{ResetCmd},
		Writer:    out,
		ErrWriter: out,
	}
}
