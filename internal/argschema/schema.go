// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package argschema

import (
	"fmt"
	"slices"
	"strings"
)

// Arity tells whether a parameter takes one value or an ordered list.
type Arity int

const (
	Single Arity = iota
	Multi
)

// String returns the lower-case arity name.
func (a Arity) String() string {
	switch a {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return fmt.Sprintf("arity(%d)", int(a))
	}
}

// Param declares one named parameter of a recipe.
type Param struct {
	Name     string
	Arity    Arity
	Required bool
}

// Keyword is the token that introduces the parameter in a token list.
func (p Param) Keyword() string {
	return strings.ToUpper(p.Name)
}

// Schema is the closed set of parameters accepted by one recipe.
type Schema struct {
	params []Param
	byName map[string]int
	byWord map[string]int
}

// New builds a schema. Parameter names must be unique; a duplicate is a
// programming error and panics.
func New(params ...Param) *Schema {
	s := &Schema{
		params: make([]Param, 0, len(params)),
		byName: make(map[string]int, len(params)),
		byWord: make(map[string]int, len(params)),
	}
	for _, p := range params {
		if p.Name == "" {
			panic("argschema: parameter name must not be empty")
		}
		if _, dup := s.byName[p.Name]; dup {
			panic(fmt.Sprintf("argschema: duplicate parameter %q", p.Name))
		}
		s.byName[p.Name] = len(s.params)
		s.byWord[p.Keyword()] = len(s.params)
		s.params = append(s.params, p)
	}
	return s
}

// Required returns a required parameter declaration.
func Required(name string, arity Arity) Param {
	return Param{Name: name, Arity: arity, Required: true}
}

// Optional returns an optional parameter declaration.
func Optional(name string, arity Arity) Param {
	return Param{Name: name, Arity: arity}
}

// Param looks a parameter up by name.
func (s *Schema) Param(name string) (Param, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// Params returns the declared parameters in declaration order.
func (s *Schema) Params() []Param {
	return slices.Clone(s.params)
}

func (s *Schema) keyword(token string) (Param, bool) {
	i, ok := s.byWord[token]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}
