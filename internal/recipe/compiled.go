// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package recipe

import (
	"path"
	"slices"
	"strings"

	"github.com/specialistvlad/artifactgrid/internal/argschema"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/install"
	"github.com/specialistvlad/artifactgrid/internal/listops"
)

// Parameter names shared by the compiled-artifact recipes.
const (
	ParamName             = "name"
	ParamSources          = "sources"
	ParamDependencies     = "dependencies"
	ParamCompileFlags     = "compile_flags"
	ParamIncludes         = "includes"
	ParamComponent        = "component"
	ParamOutputName       = "output_name"
	ParamLinkLibraries    = "link_libraries"
	ParamLinkDependencies = "link_dependencies"
	ParamDestination      = "destination"
)

func compileParams() []argschema.Param {
	return []argschema.Param{
		argschema.Required(ParamName, argschema.Single),
		argschema.Required(ParamSources, argschema.Multi),
		argschema.Optional(ParamDependencies, argschema.Multi),
		argschema.Optional(ParamCompileFlags, argschema.Multi),
		argschema.Optional(ParamIncludes, argschema.Multi),
	}
}

func libraryParams() []argschema.Param {
	return append(compileParams(),
		argschema.Optional(ParamComponent, argschema.Single),
		argschema.Optional(ParamOutputName, argschema.Single),
		argschema.Optional(ParamLinkLibraries, argschema.Multi),
	)
}

func init() {
	register(&Recipe{
		Name:    "object_collection",
		Summary: "compile sources into objects that other targets consume",
		Schema:  argschema.New(compileParams()...),
		eval:    objectCollection,
	})
	register(&Recipe{
		Name:    "static_library",
		Summary: "archive sources into lib<output>.a installed under " + LibraryDir,
		Schema:  argschema.New(libraryParams()...),
		eval:    staticLibrary,
	})
	register(&Recipe{
		Name:    "shared_library",
		Summary: "link sources into lib<output>.so version " + SharedVersion + " installed under " + LibraryDir,
		Schema:  argschema.New(libraryParams()...),
		eval:    sharedLibrary,
	})
	register(&Recipe{
		Name:    "executable",
		Summary: "link sources into a program installed under " + BinaryDir + " by default",
		Schema: argschema.New(append(compileParams(),
			argschema.Optional(ParamComponent, argschema.Single),
			argschema.Optional(ParamDestination, argschema.Single),
			argschema.Optional(ParamLinkLibraries, argschema.Multi),
			argschema.Optional(ParamLinkDependencies, argschema.Multi),
		)...),
		eval: executable,
	})
}

// compiled fills the fields every compiled artifact shares.
func compiled(kind graph.Kind, args argschema.Arguments) *graph.Artifact {
	name := args.String(ParamName)
	flags := args.List(ParamCompileFlags)
	includes := args.List(ParamIncludes)

	return &graph.Artifact{
		Name:         name,
		Kind:         kind,
		Sources:      args.List(ParamSources),
		IncludeDirs:  includes,
		IncludeFlags: listops.AddPrefix("-I", includes),
		CompileFlags: flags,
		FlagString:   strings.TrimSpace(listops.Join(" ", flags) + listops.PrependOver(" -I", includes)),
		Dependencies: args.List(ParamDependencies),
		OutputName:   args.StringOr(ParamOutputName, name),
	}
}

func withLinkLibraries(a *graph.Artifact, libs []string) {
	a.LinkLibraries = libs
	a.LinkFlags = listops.AddPrefix("-l", libs)
}

// gateTargets attaches the component, the policy and, unless the policy is
// Internal, the install rule for a compiled artifact.
func gateTargets(a *graph.Artifact, component, destination string, entry *graph.Entry) error {
	a.Component = component
	a.Destination = destination
	a.Policy = install.PolicyFor(component)
	entry.Artifact = a

	_, err := install.Gate(entry, a.Policy, install.Rule{
		Kind:        install.Targets,
		Subjects:    []string{a.Name},
		Destination: destination,
		Component:   component,
	})
	return err
}

// objectCollection registers objects only; they are consumed by other
// targets and never installed on their own.
func objectCollection(_ Env, args argschema.Arguments, entry *graph.Entry) error {
	a := compiled(graph.ObjectCollection, args)
	a.Policy = install.Internal
	entry.Artifact = a
	return nil
}

func staticLibrary(_ Env, args argschema.Arguments, entry *graph.Entry) error {
	a := compiled(graph.StaticLibrary, args)
	a.OutputFile = staticLibraryFile(a.OutputName)
	withLinkLibraries(a, args.List(ParamLinkLibraries))
	return gateTargets(a, args.StringOr(ParamComponent, DefaultLibraryComponent), LibraryDir, entry)
}

func sharedLibrary(_ Env, args argschema.Arguments, entry *graph.Entry) error {
	a := compiled(graph.SharedLibrary, args)
	a.OutputFile = sharedLibraryFile(a.OutputName)
	a.Version = SharedVersion
	a.RuntimeName = sharedRuntimeName(a.OutputName)
	withLinkLibraries(a, args.List(ParamLinkLibraries))
	return gateTargets(a, args.StringOr(ParamComponent, DefaultRuntimeComponent), LibraryDir, entry)
}

// executable links link_libraries plus the runtime support library, then the
// link_dependencies, which also become build-order dependencies.
func executable(_ Env, args argschema.Arguments, entry *graph.Entry) error {
	a := compiled(graph.Executable, args)
	a.OutputFile = a.OutputName

	var libs []string
	if args.Has(ParamLinkLibraries) {
		libs = append(args.List(ParamLinkLibraries), RuntimeSupportLibrary)
	}
	for _, dep := range args.List(ParamLinkDependencies) {
		if !slices.Contains(a.Dependencies, dep) {
			a.Dependencies = append(a.Dependencies, dep)
		}
		libs = append(libs, dep)
	}
	withLinkLibraries(a, libs)

	destination := path.Clean(args.StringOr(ParamDestination, BinaryDir))
	return gateTargets(a, args.StringOr(ParamComponent, DefaultRuntimeComponent), destination, entry)
}
