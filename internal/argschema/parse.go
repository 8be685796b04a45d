// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package argschema

import "slices"

// Parse splits an ordered token list into parameters of the schema.
//
// A token equal to a parameter keyword opens that parameter. A single-valued
// parameter takes exactly the next token and a repeated keyword overrides the
// earlier value. A multi-valued parameter collects every token up to the next
// keyword and repeated keywords accumulate. Tokens that no open parameter can
// take are reported as unknown.
func Parse(recipe string, s *Schema, tokens []string) (Arguments, error) {
	values := make(map[string][]string)
	verr := &Error{Recipe: recipe}

	var (
		open   *Param
		filled bool
	)
	for _, tok := range tokens {
		if p, ok := s.keyword(tok); ok {
			open = &p
			filled = false
			if p.Arity == Single {
				values[p.Name] = []string{""}
			} else if _, seen := values[p.Name]; !seen {
				values[p.Name] = []string{}
			}
			continue
		}

		switch {
		case open == nil:
			verr.Unknown = append(verr.Unknown, tok)
		case open.Arity == Single && filled:
			verr.Unknown = append(verr.Unknown, tok)
		case open.Arity == Single:
			values[open.Name] = []string{tok}
			filled = true
		default:
			values[open.Name] = append(values[open.Name], tok)
		}
	}

	return finish(s, verr, values)
}

// Bind validates values that were already grouped by parameter name. A
// single-valued parameter must carry at most one value. Every violation is
// collected into one *Error.
func Bind(recipe string, s *Schema, values map[string][]string) (Arguments, error) {
	verr := &Error{Recipe: recipe}
	bound := make(map[string][]string, len(values))

	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, name := range names {
		p, ok := s.Param(name)
		if !ok {
			verr.Unknown = append(verr.Unknown, name)
			continue
		}
		v := values[name]
		if p.Arity == Single && len(v) > 1 {
			verr.TooMany = append(verr.TooMany, name)
		}
		bound[name] = slices.Clone(v)
	}

	return finish(s, verr, bound)
}

func finish(s *Schema, verr *Error, values map[string][]string) (Arguments, error) {
	args := Arguments{recipe: verr.Recipe, values: values}
	for _, p := range s.params {
		if p.Required && !args.Has(p.Name) {
			verr.Missing = append(verr.Missing, p.Name)
		}
	}
	if !verr.empty() {
		return Arguments{}, verr
	}
	return args, nil
}
