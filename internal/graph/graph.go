// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/artifactgrid/internal/install"
)

var (
	ErrDuplicate  = errors.New("duplicate name")
	ErrUnresolved = errors.New("unresolved dependency")
	ErrEmptyEntry = errors.New("entry registers nothing")
)

// Graph is the append-only build graph.
type Graph struct {
	artifacts []Artifact
	docs      []Doc
	actions   []Action
	installs  []install.Rule

	targets map[string]struct{} // artifact and doc names
	steps   map[string]struct{} // action names
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		targets: make(map[string]struct{}),
		steps:   make(map[string]struct{}),
	}
}

// Register validates the entry against the current graph and appends it.
// Nothing is appended when validation fails.
func (g *Graph) Register(e Entry) error {
	if e.Artifact == nil && e.Doc == nil {
		return ErrEmptyEntry
	}
	if e.Artifact != nil && e.Doc != nil {
		return fmt.Errorf("entry for %q registers both an artifact and a doc", e.Artifact.Name)
	}

	name := ""
	var deps []string
	if e.Artifact != nil {
		name = e.Artifact.Name
		deps = e.Artifact.Dependencies
	} else {
		name = e.Doc.Name
	}

	if _, exists := g.targets[name]; exists {
		return fmt.Errorf("%w: %q is already registered", ErrDuplicate, name)
	}
	for _, dep := range deps {
		if dep == name {
			return fmt.Errorf("%w: %q depends on itself", ErrUnresolved, name)
		}
		if _, ok := g.targets[dep]; !ok {
			return fmt.Errorf("%w: %q depends on %q which is not registered", ErrUnresolved, name, dep)
		}
	}

	pending := make(map[string]struct{}, len(e.Actions))
	for _, a := range e.Actions {
		if _, exists := g.steps[a.Name]; exists {
			return fmt.Errorf("%w: action %q is already registered", ErrDuplicate, a.Name)
		}
		if _, exists := pending[a.Name]; exists {
			return fmt.Errorf("%w: action %q appears twice", ErrDuplicate, a.Name)
		}
		for _, dep := range a.DependsOn {
			_, before := g.steps[dep]
			_, earlier := pending[dep]
			if !before && !earlier {
				return fmt.Errorf("%w: action %q depends on %q which is not registered", ErrUnresolved, a.Name, dep)
			}
		}
		pending[a.Name] = struct{}{}
	}

	g.targets[name] = struct{}{}
	if e.Artifact != nil {
		g.artifacts = append(g.artifacts, e.Artifact.clone())
	} else {
		g.docs = append(g.docs, e.Doc.clone())
	}
	for _, a := range e.Actions {
		g.steps[a.Name] = struct{}{}
		g.actions = append(g.actions, a.clone())
	}
	for _, r := range e.Installs {
		r.Subjects = slices.Clone(r.Subjects)
		g.installs = append(g.installs, r)
	}
	return nil
}

// Has reports whether an artifact or doc with the given name is registered.
func (g *Graph) Has(name string) bool {
	_, ok := g.targets[name]
	return ok
}

// Artifact returns a copy of the named artifact.
func (g *Graph) Artifact(name string) (Artifact, bool) {
	for _, a := range g.artifacts {
		if a.Name == name {
			return a.clone(), true
		}
	}
	return Artifact{}, false
}

// Doc returns a copy of the named documentation bundle.
func (g *Graph) Doc(name string) (Doc, bool) {
	for _, d := range g.docs {
		if d.Name == name {
			return d.clone(), true
		}
	}
	return Doc{}, false
}

// Artifacts returns the artifacts in registration order.
func (g *Graph) Artifacts() []Artifact {
	out := make([]Artifact, len(g.artifacts))
	for i, a := range g.artifacts {
		out[i] = a.clone()
	}
	return out
}

// Docs returns the documentation bundles in registration order.
func (g *Graph) Docs() []Doc {
	out := make([]Doc, len(g.docs))
	for i, d := range g.docs {
		out[i] = d.clone()
	}
	return out
}

// Actions returns the actions in registration order.
func (g *Graph) Actions() []Action {
	out := make([]Action, len(g.actions))
	for i, a := range g.actions {
		out[i] = a.clone()
	}
	return out
}

// ActionsOf returns the actions owned by the named doc in registration order.
func (g *Graph) ActionsOf(owner string) []Action {
	var out []Action
	for _, a := range g.actions {
		if a.Owner == owner {
			out = append(out, a.clone())
		}
	}
	return out
}

// InstallRules returns the install rules in registration order.
func (g *Graph) InstallRules() []install.Rule {
	out := make([]install.Rule, len(g.installs))
	for i, r := range g.installs {
		r.Subjects = slices.Clone(r.Subjects)
		out[i] = r
	}
	return out
}

// InstallRulesFor returns the install rules whose subjects include subject.
func (g *Graph) InstallRulesFor(subject string) []install.Rule {
	var out []install.Rule
	for _, r := range g.installs {
		if slices.Contains(r.Subjects, subject) {
			r.Subjects = slices.Clone(r.Subjects)
			out = append(out, r)
		}
	}
	return out
}
