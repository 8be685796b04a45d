// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package recipe evaluates recipe invocations into build graph entries.
//
// A recipe is a named function with a closed parameter schema. Evaluating an
// invocation always follows the same path:
//
//  1. the raw arguments (a token list or named values) are validated against
//     the recipe's schema by package argschema,
//  2. the recipe derives defaults and composes flags from the validated
//     Arguments, which it cannot modify,
//  3. the result is handed to the graph as one Entry, with install rules
//     filtered by install.Gate.
//
// Evaluate runs a whole sequence of invocations in declaration order and
// returns either a complete graph or an error, never a partial graph.
package recipe
