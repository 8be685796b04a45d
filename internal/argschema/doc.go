// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package argschema validates the named-option argument lists that recipes
// accept.
//
// # Core Concepts
//
//   - Schema: the closed set of parameters a recipe declares. Each parameter is
//     either single-valued or multi-valued, and may be required.
//
//   - Arguments: the immutable result of validating an invocation against a
//     Schema. Only declared names can appear in it.
//
// Two front-ends feed the same validation. Parse consumes an ordered token
// list where upper-cased parameter names act as keywords:
//
//	NAME mathutil SOURCES a.c b.c COMPONENT devel
//
// Bind consumes values that were already grouped by name, which is what the
// HCL recipe loader produces from block attributes.
//
// Any undeclared parameter, leftover token or empty required parameter makes
// the invocation fail with an *Error naming the recipe and the offending
// names. There is no partial result.
package argschema
