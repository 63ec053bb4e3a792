// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"

	"github.com/goccy/go-yaml"
)

func parseYAML(data []byte) (*Definition, error) {
	def := new(Definition)

	if err := yaml.UnmarshalWithOptions(data, def, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	return def, nil
}
