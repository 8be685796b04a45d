// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package argschema

import (
	"fmt"
	"slices"
)

// Arguments is a validated, read-only view of one invocation.
type Arguments struct {
	recipe string
	values map[string][]string
}

// Recipe returns the recipe the arguments were validated for.
func (a Arguments) Recipe() string { return a.recipe }

// Has reports whether the parameter was supplied with a non-empty value.
func (a Arguments) Has(name string) bool {
	v, ok := a.values[name]
	if !ok {
		return false
	}
	return len(v) > 0 && !(len(v) == 1 && v[0] == "")
}

// String returns the value of a single-valued parameter, or "" when absent.
func (a Arguments) String(name string) string {
	v := a.values[name]
	if len(v) == 0 {
		return ""
	}
	return v[len(v)-1]
}

// StringOr returns the value of a single-valued parameter or def when the
// parameter was not supplied.
func (a Arguments) StringOr(name, def string) string {
	if !a.Has(name) {
		return def
	}
	return a.String(name)
}

// List returns a copy of the values of a multi-valued parameter.
func (a Arguments) List(name string) []string {
	return slices.Clone(a.values[name])
}

// Names returns the supplied parameter names in sorted order.
func (a Arguments) Names() []string {
	names := make([]string, 0, len(a.values))
	for n := range a.values {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (a Arguments) GoString() string {
	return fmt.Sprintf("argschema.Arguments{recipe: %q, values: %v}", a.recipe, a.values)
}
