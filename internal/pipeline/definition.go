// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/localci/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	// DefaultTitle is used when the definition has no title.
	DefaultTitle = "Continuous Integration"
	// DefaultSubtitle is used when the definition has no title and no subtitle.
	DefaultSubtitle = "Running tests, style checks, and security audits"
)

// DefaultFileNames are searched, in order, when no file is given.
var DefaultFileNames = []string{"ci.yaml", "ci.yml", "ci.hcl"}

var (
	// ErrInvalidPipeline is returned when a definition fails validation.
	ErrInvalidPipeline = errors.New("invalid pipeline")
	// ErrParse is returned when a definition cannot be parsed.
	ErrParse = errors.New("cannot parse pipeline")
	// ErrUnknownFormat is returned for files that are neither YAML nor HCL.
	ErrUnknownFormat = errors.New("unknown pipeline format, expected .yaml, .yml or .hcl")
	// ErrReadFile is returned when the definition file cannot be read.
	ErrReadFile = errors.New("cannot read pipeline file")
)

// Definition is a whole pipeline.
type Definition struct {
	Title    string            `yaml:"title"`
	Subtitle string            `yaml:"subtitle"`
	Steps    []*StepDefinition `yaml:"steps"`
}

// StepDefinition is either a single step, with a command or a shell line, or a nested report with steps.
type StepDefinition struct {
	Title   string            `yaml:"title"`
	Command []string          `yaml:"command,omitempty"`
	Shell   string            `yaml:"shell,omitempty"`
	Steps   []*StepDefinition `yaml:"steps,omitempty"`
}

// IsReport reports whether the definition groups other steps.
func (s *StepDefinition) IsReport() bool {
	return s.Steps != nil
}

// Argv returns the command line to execute. Shell lines run through sh -c.
func (s *StepDefinition) Argv() []string {
	if s.Shell != "" {
		return []string{"sh", "-c", s.Shell}
	}

	return s.Command
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (*Definition, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}

	return Load(path, data)
}

// Load parses data, choosing the format from the extension of name, and validates the result.
func Load(name string, data []byte) (*Definition, error) {
	var (
		def *Definition
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".hcl":
		def, err = parseHCL(name, data)
	case ".yaml", ".yml", "":
		def, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}

	if err != nil {
		return nil, err
	}

	if def.Title == "" {
		def.Title = DefaultTitle

		if def.Subtitle == "" {
			def.Subtitle = DefaultSubtitle
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return def, nil
}

// Validate collects every problem with the definition.
// Step titles must be unique because they are the resume key.
func (d *Definition) Validate() error {
	var result error

	if len(d.Steps) == 0 {
		result = multierror.Append(result, errors.New("no steps defined"))
	}

	seen := make(map[string]struct{})

	d.Walk(func(path []string, s *StepDefinition) {
		where := strings.Join(path, " > ")
		if s.Title == "" {
			where += " > (untitled)"

			result = multierror.Append(result, fmt.Errorf("%s: missing title", where))
		}

		sources := 0

		if len(s.Command) > 0 {
			sources++
		}

		if s.Shell != "" {
			sources++
		}

		if s.IsReport() {
			sources++

			if len(s.Steps) == 0 {
				result = multierror.Append(result, fmt.Errorf("%s: report has no steps", where))
			}
		}

		switch {
		case sources == 0:
			result = multierror.Append(result, fmt.Errorf("%s: needs one of command, shell or steps", where))
		case sources > 1:
			result = multierror.Append(result, fmt.Errorf("%s: only one of command, shell or steps may be set", where))
		}

		if len(s.Command) > 0 && s.Command[0] == "" {
			result = multierror.Append(result, fmt.Errorf("%s: %w", where, runbatch.ErrEmptyCommand))
		}

		if s.IsReport() || s.Title == "" {
			return
		}

		if _, ok := seen[s.Title]; ok {
			result = multierror.Append(result, fmt.Errorf("%s: %w", where, runbatch.ErrDuplicateStepTitle))
		}

		seen[s.Title] = struct{}{}
	})

	if result != nil {
		return errors.Join(ErrInvalidPipeline, result)
	}

	return nil
}

// Walk calls fn for every step depth first, in declaration order.
// path holds the titles from the top level down to and including the step.
func (d *Definition) Walk(fn func(path []string, s *StepDefinition)) {
	walk(nil, d.Steps, fn)
}

func walk(parent []string, steps []*StepDefinition, fn func([]string, *StepDefinition)) {
	for _, s := range steps {
		if s == nil {
			continue
		}

		path := append(append([]string(nil), parent...), s.Title)
		fn(path, s)
		walk(path, s.Steps, fn)
	}
}

// Declare declares every step on scope, opening a nested report for each group.
func (d *Definition) Declare(ctx context.Context, scope *runbatch.Scope) {
	declare(ctx, scope, d.Steps)
}

func declare(ctx context.Context, scope *runbatch.Scope, steps []*StepDefinition) {
	for _, s := range steps {
		if s == nil {
			continue
		}

		if s.IsReport() {
			scope.Report(ctx, s.Title, func(ctx context.Context, child *runbatch.Scope) {
				declare(ctx, child, s.Steps)
			})

			continue
		}

		scope.Step(ctx, s.Title, s.Argv()...)
	}
}
