// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package graph holds the build graph produced by evaluating recipes.
//
// # Why an append-only graph?
//
// Recipes run once each, in declaration order, while the build graph is being
// described. Each recipe hands the graph exactly one Entry: the artifact or
// documentation descriptor it produced, the actions needed to produce
// documentation outputs, and the install rules that passed the install gate.
// The graph validates the whole entry before it appends anything, so every
// state the graph can be observed in is internally consistent:
//
//   - no two artifacts or documentation bundles share a name,
//   - every declared build-order dependency names something registered earlier,
//   - every action dependency names an action registered before it.
//
// Nothing is ever removed or rewritten. Accessors return copies, so consumers
// such as the renderers and the documentation pipeline cannot alter what the
// recipes registered.
//
// # Concurrency
//
// The graph is built by a single goroutine and is not safe for concurrent
// writers. Once evaluation returns it is read-only.
package graph
