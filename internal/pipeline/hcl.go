// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	stepBlockType   = "step"
	reportBlockType = "report"
)

var (
	stepBlocks = []hcl.BlockHeaderSchema{
		{Type: stepBlockType, LabelNames: []string{"title"}},
		{Type: reportBlockType, LabelNames: []string{"title"}},
	}

	rootSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "title"},
			{Name: "subtitle"},
		},
		Blocks: stepBlocks,
	}

	stepSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "command"},
			{Name: "shell"},
		},
	}

	reportSchema = &hcl.BodySchema{
		Blocks: stepBlocks,
	}
)

func parseHCL(name string, data []byte) (*Definition, error) {
	file, diags := hclsyntax.ParseConfig(data, name, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Join(ErrParse, diags)
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, errors.Join(ErrParse, diags)
	}

	def := new(Definition)

	diags = diags.Extend(stringAttr(content.Attributes["title"], &def.Title))
	diags = diags.Extend(stringAttr(content.Attributes["subtitle"], &def.Subtitle))

	steps, moreDiags := decodeBlocks(content.Blocks)
	diags = diags.Extend(moreDiags)
	def.Steps = steps

	if diags.HasErrors() {
		return nil, errors.Join(ErrParse, diags)
	}

	return def, nil
}

func decodeBlocks(blocks hcl.Blocks) ([]*StepDefinition, hcl.Diagnostics) {
	var (
		steps []*StepDefinition
		diags hcl.Diagnostics
	)

	for _, b := range blocks {
		s := &StepDefinition{Title: b.Labels[0]}

		switch b.Type {
		case reportBlockType:
			content, moreDiags := b.Body.Content(reportSchema)
			diags = diags.Extend(moreDiags)

			children, moreDiags := decodeBlocks(content.Blocks)
			diags = diags.Extend(moreDiags)

			s.Steps = children
			if s.Steps == nil {
				s.Steps = []*StepDefinition{}
			}
		default:
			content, moreDiags := b.Body.Content(stepSchema)
			diags = diags.Extend(moreDiags)
			diags = diags.Extend(stringAttr(content.Attributes["shell"], &s.Shell))
			diags = diags.Extend(listAttr(content.Attributes["command"], &s.Command))
		}

		steps = append(steps, s)
	}

	return steps, diags
}

func stringAttr(attr *hcl.Attribute, target *string) hcl.Diagnostics {
	return decodeAttr(attr, cty.String, target)
}

func listAttr(attr *hcl.Attribute, target *[]string) hcl.Diagnostics {
	return decodeAttr(attr, cty.List(cty.String), target)
}

// decodeAttr evaluates a constant attribute expression into target.
func decodeAttr(attr *hcl.Attribute, want cty.Type, target any) hcl.Diagnostics {
	if attr == nil {
		return nil
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value for " + attr.Name,
			Detail:   detail,
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}

	if val.IsNull() || !val.IsWhollyKnown() {
		return invalid("A known, non-null value is required.")
	}

	val, err := convert.Convert(val, want)
	if err != nil {
		return invalid(err.Error())
	}

	if err := gocty.FromCtyValue(val, target); err != nil {
		return invalid(err.Error())
	}

	return nil
}
