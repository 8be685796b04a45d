// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the RecipeBlock structure, one recipe invocation declared
// in HCL.
//
// Why keep raw attributes?
//
// Attributes may reference var.* and call functions, so they can only be
// evaluated once every variable is resolved. The block therefore keeps its raw
// hcl.Attributes and Values evaluates them on demand, converting each result
// into the single or list shape the recipe's parameter schema declares.
package model

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/artifactgrid/internal/argschema"
	"github.com/specialistvlad/artifactgrid/internal/recipe"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// RecipeBlock is the format-agnostic representation of a recipe block.
type RecipeBlock struct {
	Recipe        string
	Name          string
	FSInformation *FSInfo
	Attributes    hcl.Attributes
	DefRange      hcl.Range
}

// NewRecipeBlockFromHCL reads the attributes of a recipe block. Nested blocks
// are not allowed and the name comes only from the label.
func NewRecipeBlockFromHCL(block *hcl.Block, filePath string) (*RecipeBlock, hcl.Diagnostics) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	if attr, ok := attrs[recipe.ParamName]; ok {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Redundant name attribute",
			Detail:   fmt.Sprintf("The name of a %s block is its label, %q.", block.Type, block.Labels[0]),
			Subject:  attr.NameRange.Ptr(),
		})
	}

	return &RecipeBlock{
		Recipe:        block.Type,
		Name:          block.Labels[0],
		FSInformation: NewFSInfo(filePath, block.DefRange),
		Attributes:    attrs,
		DefRange:      block.DefRange,
	}, diags
}

// Values evaluates every attribute into the named values the recipe schema
// binds. Attributes the schema does not declare are passed through with no
// values so that binding reports them by name.
func (b *RecipeBlock) Values(ctx *hcl.EvalContext, schema *argschema.Schema) (map[string][]string, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	values := map[string][]string{recipe.ParamName: {b.Name}}

	names := make([]string, 0, len(b.Attributes))
	for name := range b.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := b.Attributes[name]
		param, ok := schema.Param(name)
		if !ok {
			values[name] = nil
			continue
		}

		val, valDiags := attr.Expr.Value(ctx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		if val.IsNull() {
			continue
		}

		strs, err := toStrings(val, param.Arity)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid parameter value",
				Detail:   fmt.Sprintf("Parameter %s of %s takes a %s value: %s.", name, b.Recipe, param.Arity, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		values[name] = strs
	}
	return values, diags
}

// toStrings converts a value to the shape of a parameter. A multi-valued
// parameter also accepts a single string.
func toStrings(val cty.Value, arity argschema.Arity) ([]string, error) {
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	if arity == argschema.Single || val.Type().IsPrimitiveType() {
		s, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, err
		}
		var out string
		if err := gocty.FromCtyValue(s, &out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, err
	}
	var out []string
	if err := gocty.FromCtyValue(list, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
