// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/artifactgrid/internal/recipe"
)

// Invocations resolves variables and evaluates every recipe block into a
// recipe invocation, in declaration order.
func (w *Workspace) Invocations(overrides map[string]string) ([]recipe.Invocation, error) {
	vars, err := w.ResolveVariables(overrides)
	if err != nil {
		return nil, err
	}
	ctx := newEvalContext(vars)

	var diags hcl.Diagnostics
	out := make([]recipe.Invocation, 0, len(w.Recipes))
	for _, b := range w.Recipes {
		r, ok := recipe.Lookup(b.Recipe)
		if !ok {
			// Only registered recipes pass the file schema.
			continue
		}
		values, valDiags := b.Values(ctx, r.Schema)
		diags = append(diags, valDiags...)
		out = append(out, recipe.Invocation{
			Recipe: b.Recipe,
			Values: values,
			Origin: b.FSInformation.String(),
		})
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return out, nil
}
