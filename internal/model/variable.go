// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Variable structure and the `variable` block.
//
// Why variables?
//
// The same recipe tree is often evaluated for several configurations, for
// example a different install component per packaging flavour. Variables give
// those knobs a name and a default in the recipe files, and --var overrides
// them without editing the tree.
package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

var ErrVariable = errors.New("invalid variable")

// hclVariableBlock is the decoding target of a `variable` block.
type hclVariableBlock struct {
	Name        string         `hcl:"name,label"`
	Description *string        `hcl:"description,optional"`
	Default     *hcl.Attribute `hcl:"default,optional"`
}

// Variable is a named value visible to recipe attributes as var.<name>.
type Variable struct {
	Name          string
	Description   string
	Default       cty.Value
	HasDefault    bool
	FSInformation *FSInfo
}

// NewVariableFromHCL evaluates the default of a decoded variable block. The
// default may call functions but cannot reference other variables.
func NewVariableFromHCL(block *hclVariableBlock, filePath string) (*Variable, hcl.Diagnostics) {
	v := &Variable{
		Name:          block.Name,
		Default:       cty.NullVal(cty.DynamicPseudoType),
		FSInformation: &FSInfo{FilePath: filePath},
	}
	if block.Description != nil {
		v.Description = *block.Description
	}
	if block.Default == nil {
		return v, nil
	}

	v.FSInformation = NewFSInfo(filePath, block.Default.Range)
	val, diags := block.Default.Expr.Value(newEvalContext(nil))
	if diags.HasErrors() {
		return nil, diags
	}
	v.Default = val
	v.HasDefault = true
	return v, nil
}

// ResolveVariables merges declared defaults with overrides. Overriding an
// undeclared variable and leaving a variable without any value are errors.
func (w *Workspace) ResolveVariables(overrides map[string]string) (map[string]cty.Value, error) {
	declared := make(map[string]*Variable, len(w.Variables))
	for _, v := range w.Variables {
		declared[v.Name] = v
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("%w: %q is not declared", ErrVariable, name)
		}
	}

	vals := make(map[string]cty.Value, len(declared))
	for _, v := range w.Variables {
		if raw, ok := overrides[v.Name]; ok {
			vals[v.Name] = overrideValue(raw)
			continue
		}
		if !v.HasDefault {
			return nil, fmt.Errorf("%w: %q has no default and no value was given (%s)", ErrVariable, v.Name, v.FSInformation)
		}
		vals[v.Name] = v.Default
	}
	return vals, nil
}

// ParseVarFlag splits a name=value override.
func ParseVarFlag(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q must have the form name=value", ErrVariable, s)
	}
	if !hclsyntax.ValidIdentifier(name) {
		return "", "", fmt.Errorf("%w: %q is not a valid identifier", ErrVariable, name)
	}
	return name, value, nil
}

// overrideValue reads list, object and quoted values as HCL expressions and
// everything else as a literal string.
func overrideValue(raw string) cty.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.ContainsRune(`["{`, rune(trimmed[0])) {
		return cty.StringVal(raw)
	}
	expr, diags := hclsyntax.ParseExpression([]byte(trimmed), "--var", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.StringVal(raw)
	}
	val, diags := expr.Value(newEvalContext(nil))
	if diags.HasErrors() {
		return cty.StringVal(raw)
	}
	return val
}
