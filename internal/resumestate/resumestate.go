// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resumestate persists the title of the step a continued run resumes from.
//
// The state is a single file, named FileName, in the working directory.
// Its contents are exactly the step title.
package resumestate

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/localci/internal/ctxlog"
	"github.com/spf13/afero"
)

// FileName is the name of the state file.
const FileName = ".ci_state"

const filePerm = 0o644

var (
	// ErrSave is returned when the state file cannot be written.
	ErrSave = errors.New("cannot save resume state")
	// ErrClear is returned when the state file cannot be removed.
	ErrClear = errors.New("cannot clear resume state")
)

// Store reads and writes the resume state file in one directory.
type Store struct {
	fs   afero.Fs
	path string
}

// New returns a Store for the state file in dir.
// An empty dir means the current working directory.
func New(dir string) *Store {
	return &Store{
		fs:   FsFactory(),
		path: filepath.Join(dir, FileName),
	}
}

// Path returns the path of the state file.
func (s *Store) Path() string {
	return s.path
}

// Save overwrites the state file with title.
func (s *Store) Save(ctx context.Context, title string) error {
	ctxlog.Debug(ctx, "resumestate", "detail", "saving", "path", s.path, "title", title)

	if err := afero.WriteFile(s.fs, s.path, []byte(title), filePerm); err != nil {
		return errors.Join(ErrSave, err)
	}

	return nil
}

// Load returns the stored title.
// A missing, unreadable or blank file yields ("", false).
func (s *Store) Load(ctx context.Context) (string, bool) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ctxlog.Debug(ctx, "resumestate", "detail", "cannot read state file, ignoring", "path", s.path, "error", err)
		}

		return "", false
	}

	title := strings.TrimSpace(string(b))
	if title == "" {
		return "", false
	}

	return title, true
}

// Clear removes the state file. A missing file is not an error.
func (s *Store) Clear(ctx context.Context) error {
	ctxlog.Debug(ctx, "resumestate", "detail", "clearing", "path", s.path)

	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrClear, err)
	}

	return nil
}
