// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Workspace structure, which is the root container for
// all recipe blocks loaded from a user's .hcl files.
//
// Why have a Workspace?
//
// Projects split their recipes across many files and directories, and the
// order of declaration matters: a recipe may only depend on artifacts declared
// before it. The loading functions discover every file in lexical order and
// consolidate the blocks into one ordered list, so evaluation sees exactly the
// order a reader of the tree would.
package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/artifactgrid/internal/ctxlog"
	"github.com/specialistvlad/artifactgrid/internal/fsutil"
	"github.com/specialistvlad/artifactgrid/internal/recipe"
)

// FileExtension is the extension of recipe files.
const FileExtension = ".hcl"

// Workspace is every recipe and variable declared under one path.
type Workspace struct {
	Variables []*Variable
	Recipes   []*RecipeBlock
	Files     []string
}

// NewWorkspace creates and returns an initialized Workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		Variables: []*Variable{},
		Recipes:   []*RecipeBlock{},
	}
}

// hclRecipeFile is the top-level structure of a recipe file for decoding.
// Recipe blocks have one block type per recipe and are read from Remain.
type hclRecipeFile struct {
	Variables []*hclVariableBlock `hcl:"variable,block"`
	Remain    hcl.Body            `hcl:",remain"`
}

// recipeFileSchema declares one labelled block type per registered recipe.
func recipeFileSchema() *hcl.BodySchema {
	schema := &hcl.BodySchema{}
	for _, r := range recipe.All() {
		schema.Blocks = append(schema.Blocks, hcl.BlockHeaderSchema{
			Type:       r.Name,
			LabelNames: []string{"name"},
		})
	}
	return schema
}

// newWorkspaceFromHCL parses a single HCL file and returns what it declares.
func newWorkspaceFromHCL(filePath string, parser *hclparse.Parser) ([]*Variable, []*RecipeBlock, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsedFile hclRecipeFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	content, diags := parsedFile.Remain.Content(recipeFileSchema())
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	variables := make([]*Variable, 0, len(parsedFile.Variables))
	for _, parsedVar := range parsedFile.Variables {
		v, varDiags := NewVariableFromHCL(parsedVar, filePath)
		if varDiags.HasErrors() {
			return nil, nil, fmt.Errorf("error parsing variable in file %s: %w", filePath, varDiags)
		}
		variables = append(variables, v)
	}

	recipes := make([]*RecipeBlock, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		rb, blockDiags := NewRecipeBlockFromHCL(block, filePath)
		if blockDiags.HasErrors() {
			return nil, nil, fmt.Errorf("error parsing recipe in file %s: %w", filePath, blockDiags)
		}
		recipes = append(recipes, rb)
	}

	return variables, recipes, nil
}

// LoadWorkspace finds and parses all recipe files under path. path may also
// name a single file.
func LoadWorkspace(ctx context.Context, path string) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading recipes from path", "path", path)

	files, err := fsutil.FindFilesByExtension(path, FileExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe files in %s: %w", path, err)
	}

	ws := NewWorkspace()
	ws.Files = files
	if len(files) == 0 {
		logger.Warn("No .hcl recipe files found in path, returning empty workspace", "path", path)
		return ws, nil
	}

	seen := make(map[string]*Variable)
	parser := hclparse.NewParser()
	for _, file := range files {
		variables, recipes, err := newWorkspaceFromHCL(file, parser)
		if err != nil {
			return nil, err
		}
		for _, v := range variables {
			if prev, dup := seen[v.Name]; dup {
				return nil, fmt.Errorf("%w: variable %q declared at %s and %s", ErrVariable, v.Name, prev.FSInformation, v.FSInformation)
			}
			seen[v.Name] = v
		}
		ws.Variables = append(ws.Variables, variables...)
		ws.Recipes = append(ws.Recipes, recipes...)
	}

	logger.Debug("Recipes loaded", "files", len(files), "recipes", len(ws.Recipes), "variables", len(ws.Variables))
	return ws, nil
}
