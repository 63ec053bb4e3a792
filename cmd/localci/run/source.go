// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/localci/internal/ctxlog"
	"github.com/matt-FFFFFF/localci/internal/pipeline"
	"github.com/spf13/afero"
)

var (
	// ErrGetPipelineFile is returned when the file cannot be fetched.
	ErrGetPipelineFile = errors.New("failed to get pipeline file")
	// ErrNoPipelineFile is returned when no file was given and none of the defaults exist.
	ErrNoPipelineFile = fmt.Errorf("no pipeline file found, expected one of %s", strings.Join(pipeline.DefaultFileNames, ", "))
)

// LoadDefinition resolves and loads the pipeline definition.
// An empty src selects the first default file in dir.
// Existing local files are read directly, anything else goes through go-getter.
func LoadDefinition(ctx context.Context, src, dir string) (*pipeline.Definition, error) {
	fs := pipeline.FsFactory()

	if src == "" {
		for _, name := range pipeline.DefaultFileNames {
			candidate := filepath.Join(dir, name)
			if ok, _ := afero.Exists(fs, candidate); ok {
				src = candidate
				break
			}
		}

		if src == "" {
			return nil, ErrNoPipelineFile
		}
	}

	if ok, _ := afero.Exists(fs, src); ok {
		ctxlog.Debug(ctx, "loading local pipeline file", "path", src)
		return pipeline.LoadFile(src)
	}

	ctxlog.Debug(ctx, "fetching pipeline file", "url", src)

	data, name, err := getURL(ctx, src)
	if err != nil {
		return nil, err
	}

	return pipeline.Load(name, data)
}

// getURL retrieves the content from the specified URL using Hashicorp's go-getter.
// It returns the content and the file name, and removes the temporary directory afterwards.
func getURL(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", ErrGetPipelineFile
	}

	tmpDir, err := os.MkdirTemp("", "localci-getter-*")
	if err != nil {
		return nil, "", errors.Join(ErrGetPipelineFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Join(ErrGetPipelineFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// Remote sources are fetched as a directory and the file is read from there.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, "", errors.Join(ErrGetPipelineFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, "", fmt.Errorf("%w: invalid URL format: %s", ErrGetPipelineFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, "", errors.Join(ErrGetPipelineFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, "", errors.Join(ErrGetPipelineFile, err)
	}

	return data, fileName, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL splits a go-getter URL into the source directory and the file name.
// A ref query parameter is kept on the returned URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if before, after, found := strings.Cut(last, goGetterRefSeparator); found {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
