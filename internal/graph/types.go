// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"slices"

	"github.com/specialistvlad/artifactgrid/internal/install"
)

// Kind is the kind of a compiled artifact.
type Kind string

const (
	ObjectCollection Kind = "object-collection"
	StaticLibrary    Kind = "static-library"
	SharedLibrary    Kind = "shared-library"
	Executable       Kind = "executable"
)

// DocKind is the kind of a documentation bundle.
type DocKind string

const (
	RawCopy          DocKind = "raw-copy"
	RenderedSite     DocKind = "rendered-site"
	RenderedDocument DocKind = "rendered-document"
)

// Artifact is the fully specified descriptor of a compiled artifact.
type Artifact struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`

	Sources      []string `json:"sources" yaml:"sources"`
	IncludeDirs  []string `json:"include_dirs,omitempty" yaml:"include_dirs,omitempty"`
	IncludeFlags []string `json:"include_flags,omitempty" yaml:"include_flags,omitempty"`
	CompileFlags []string `json:"compile_flags,omitempty" yaml:"compile_flags,omitempty"`
	// FlagString is the compile flags and include flags fused into the single
	// property string that engines read as one token.
	FlagString    string   `json:"flag_string,omitempty" yaml:"flag_string,omitempty"`
	LinkLibraries []string `json:"link_libraries,omitempty" yaml:"link_libraries,omitempty"`
	LinkFlags     []string `json:"link_flags,omitempty" yaml:"link_flags,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	OutputName  string `json:"output_name" yaml:"output_name"`
	OutputFile  string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	RuntimeName string `json:"runtime_name,omitempty" yaml:"runtime_name,omitempty"`

	Component   string         `json:"component,omitempty" yaml:"component,omitempty"`
	Destination string         `json:"destination,omitempty" yaml:"destination,omitempty"`
	Policy      install.Policy `json:"policy" yaml:"policy"`

	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`
}

func (a Artifact) clone() Artifact {
	a.Sources = slices.Clone(a.Sources)
	a.IncludeDirs = slices.Clone(a.IncludeDirs)
	a.IncludeFlags = slices.Clone(a.IncludeFlags)
	a.CompileFlags = slices.Clone(a.CompileFlags)
	a.LinkLibraries = slices.Clone(a.LinkLibraries)
	a.LinkFlags = slices.Clone(a.LinkFlags)
	a.Dependencies = slices.Clone(a.Dependencies)
	return a
}

// Doc is the descriptor of a documentation bundle.
type Doc struct {
	Name string  `json:"name" yaml:"name"`
	Kind DocKind `json:"kind" yaml:"kind"`

	Sources   []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	SourceDir string   `json:"source_dir,omitempty" yaml:"source_dir,omitempty"`

	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	PDFOptions  []string `json:"pdf_options,omitempty" yaml:"pdf_options,omitempty"`
	HTMLOptions []string `json:"html_options,omitempty" yaml:"html_options,omitempty"`
	Stylesheet  string   `json:"stylesheet,omitempty" yaml:"stylesheet,omitempty"`
	Locale      string   `json:"locale,omitempty" yaml:"locale,omitempty"`

	// Outputs are the files whose existence marks the bundle as built.
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	Destination string         `json:"destination" yaml:"destination"`
	Component   string         `json:"component" yaml:"component"`
	Policy      install.Policy `json:"policy" yaml:"policy"`

	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`
}

func (d Doc) clone() Doc {
	d.Sources = slices.Clone(d.Sources)
	d.Options = slices.Clone(d.Options)
	d.PDFOptions = slices.Clone(d.PDFOptions)
	d.HTMLOptions = slices.Clone(d.HTMLOptions)
	d.Outputs = slices.Clone(d.Outputs)
	return d
}

// ActionKind distinguishes staging actions from external commands.
type ActionKind string

const (
	StageAction   ActionKind = "stage"
	CommandAction ActionKind = "command"
)

// Stage describes a File Staging step the engine repeats on every build.
type Stage struct {
	SourceRoot  string   `json:"source_root" yaml:"source_root"`
	Destination string   `json:"destination" yaml:"destination"`
	Patterns    []string `json:"patterns" yaml:"patterns"`
}

// Command describes an external tool invocation.
type Command struct {
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args" yaml:"args"`
	Dir     string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	Env     []string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Action is one step of a documentation pipeline.
type Action struct {
	Name      string     `json:"name" yaml:"name"`
	Owner     string     `json:"owner" yaml:"owner"`
	Kind      ActionKind `json:"kind" yaml:"kind"`
	Stage     *Stage     `json:"stage,omitempty" yaml:"stage,omitempty"`
	Command   *Command   `json:"command,omitempty" yaml:"command,omitempty"`
	Outputs   []string   `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	DependsOn []string   `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

func (a Action) clone() Action {
	if a.Stage != nil {
		s := *a.Stage
		s.Patterns = slices.Clone(s.Patterns)
		a.Stage = &s
	}
	if a.Command != nil {
		c := *a.Command
		c.Args = slices.Clone(c.Args)
		c.Env = slices.Clone(c.Env)
		a.Command = &c
	}
	a.Outputs = slices.Clone(a.Outputs)
	a.DependsOn = slices.Clone(a.DependsOn)
	return a
}

// Entry is everything one recipe invocation contributes to the graph.
type Entry struct {
	Artifact *Artifact
	Doc      *Doc
	Actions  []Action
	Installs []install.Rule
}

// AddInstallRule makes Entry an install.Sink.
func (e *Entry) AddInstallRule(rule install.Rule) error {
	rule.Subjects = slices.Clone(rule.Subjects)
	e.Installs = append(e.Installs, rule)
	return nil
}
