// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of artifactgrid recipe files.
// Its purpose is to turn free-form HCL into recipe invocations that the
// recipe evaluator can validate.
//
// # Core Concepts
//
//   - Workspace: the root container for every recipe file found under a path.
//     It keeps recipe blocks in declaration order: lexical file order first,
//     then source order inside each file.
//
//   - RecipeBlock: one `<recipe> "<name>" { ... }` block. The block type names
//     the recipe, the label is the artifact name and the attributes are the
//     recipe parameters, kept as raw HCL attributes until evaluation.
//
//   - Variable: a `variable "<name>" { default = ... }` block. Variables are
//     visible to every recipe attribute as var.<name> and can be overridden
//     from the command line.
//
//   - FSInfo: links every block back to its source file and line, so schema
//     errors point at the declaration that caused them.
//
// Why a separate model package?
//
// The recipe evaluator knows nothing about HCL. It consumes named string
// values and validates them against a closed schema. This package owns the
// HCL side of that contract: parsing, expression evaluation with var.* and a
// small function library, and conversion of cty values into the single or
// list shape each parameter declares. Keeping the two apart means the same
// evaluator also serves plain token lists from the command line.
package model
