// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package recipe

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/artifactgrid/internal/argschema"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/install"
	"github.com/specialistvlad/artifactgrid/internal/listops"
)

// Parameter names used only by documentation recipes.
const (
	ParamSourceDir  = "source_dir"
	ParamOptions    = "options"
	ParamStylesheet = "stylesheet"
)

// ErrSiteLayout reports a site source directory without a site definition or
// page tree.
var ErrSiteLayout = errors.New("invalid site layout")

func docParams(extra ...argschema.Param) []argschema.Param {
	return append([]argschema.Param{
		argschema.Required(ParamName, argschema.Single),
		argschema.Required(ParamDestination, argschema.Single),
		argschema.Required(ParamComponent, argschema.Single),
	}, extra...)
}

func init() {
	register(&Recipe{
		Name:    "raw_docs",
		Summary: "install documentation files as they are",
		Schema:  argschema.New(docParams(argschema.Required(ParamSources, argschema.Multi))...),
		eval:    rawDocs,
	})
	register(&Recipe{
		Name:    "site_docs",
		Summary: "render a " + SiteRenderer + " site and install the rendered directory",
		Schema: argschema.New(docParams(
			argschema.Required(ParamSourceDir, argschema.Single),
			argschema.Optional(ParamOptions, argschema.Multi),
		)...),
		eval: siteDocs,
	})
	register(&Recipe{
		Name:    "rendered_docs",
		Summary: "render sources to PDF and HTML with " + DocumentRenderer,
		Schema: argschema.New(docParams(
			argschema.Required(ParamSources, argschema.Multi),
			argschema.Optional(ParamStylesheet, argschema.Single),
			argschema.Optional(ParamOptions, argschema.Multi),
		)...),
		eval: renderedDocs,
	})
}

func newDoc(kind graph.DocKind, args argschema.Arguments) *graph.Doc {
	component := args.String(ParamComponent)
	return &graph.Doc{
		Name:        args.String(ParamName),
		Kind:        kind,
		Destination: args.String(ParamDestination),
		Component:   component,
		Policy:      install.PolicyFor(component),
	}
}

func gateDoc(d *graph.Doc, kind install.SubjectKind, subjects []string, entry *graph.Entry) error {
	entry.Doc = d
	_, err := install.Gate(entry, d.Policy, install.Rule{
		Kind:        kind,
		Subjects:    subjects,
		Destination: d.Destination,
		Component:   d.Component,
	})
	return err
}

// rawDocs installs literal files; nothing is built.
func rawDocs(env Env, args argschema.Arguments, entry *graph.Entry) error {
	d := newDoc(graph.RawCopy, args)
	d.Sources = args.List(ParamSources)

	subjects := make([]string, len(d.Sources))
	for i, s := range d.Sources {
		subjects[i] = env.sourcePath(s)
	}
	return gateDoc(d, install.Files, subjects, entry)
}

func siteDocs(env Env, args argschema.Arguments, entry *graph.Entry) error {
	d := newDoc(graph.RenderedSite, args)
	d.SourceDir = args.String(ParamSourceDir)
	d.Options = args.List(ParamOptions)
	d.Locale = Locale(env.Distribution)

	if !env.exists(filepath.Join(d.SourceDir, SiteDefinition), false) {
		return fmt.Errorf("%w: %s has no %s", ErrSiteLayout, d.SourceDir, SiteDefinition)
	}
	if !env.exists(filepath.Join(d.SourceDir, SitePages), true) {
		return fmt.Errorf("%w: %s has no %s/ directory", ErrSiteLayout, d.SourceDir, SitePages)
	}

	staged := env.buildArea(d.Name, "src")
	site := env.buildArea(d.Name, "site")
	marker := filepath.Join(site, SiteMarker)
	d.Outputs = []string{marker}

	stage := d.Name + ".stage"
	entry.Actions = []graph.Action{
		{
			Name:  stage,
			Owner: d.Name,
			Kind:  graph.StageAction,
			Stage: &graph.Stage{
				SourceRoot:  env.sourcePath(d.SourceDir),
				Destination: staged,
				Patterns:    []string{"*"},
			},
		},
		{
			Name:  d.Name + ".render",
			Owner: d.Name,
			Kind:  graph.CommandAction,
			Command: &graph.Command{
				Program: SiteRenderer,
				Args: append([]string{
					"build", "--clean",
					"--config-file", filepath.Join(staged, SiteDefinition),
					"--site-dir", site,
				}, d.Options...),
				Dir: staged,
				Env: listops.AddSuffix(d.Locale, []string{"LANG=", "LC_ALL="}),
			},
			Outputs:   []string{marker},
			DependsOn: []string{stage},
		},
	}
	return gateDoc(d, install.Directory, []string{site}, entry)
}

// documentOptions returns the PDF and HTML renderer option sets. Caller
// options replace both sets.
func documentOptions(args argschema.Arguments) (pdf, html []string) {
	if args.Has(ParamOptions) {
		opts := args.List(ParamOptions)
		return opts, slices.Clone(opts)
	}
	pdf = slices.Concat(pdfGeometryFlags, commonDocumentFlags)
	html = slices.Clone(commonDocumentFlags)
	if args.Has(ParamStylesheet) {
		html = append(html, "--css", args.String(ParamStylesheet))
	}
	return pdf, html
}

func renderedDocs(env Env, args argschema.Arguments, entry *graph.Entry) error {
	d := newDoc(graph.RenderedDocument, args)
	d.Sources = args.List(ParamSources)
	d.Stylesheet = args.String(ParamStylesheet)
	d.PDFOptions, d.HTMLOptions = documentOptions(args)

	staged := env.buildArea(d.Name, "src")
	base := filepath.Join(env.BuildDir, d.Name)
	pdfOut, htmlOut := base+".pdf", base+".html"
	d.Outputs = []string{pdfOut, htmlOut}

	patterns := make([]string, len(d.Sources))
	inputs := make([]string, len(d.Sources))
	for i, s := range d.Sources {
		rel, err := env.relSource(s)
		if err != nil {
			return err
		}
		patterns[i] = rel
		inputs[i] = filepath.Join(staged, rel)
	}

	stage := d.Name + ".stage"
	render := func(suffix string, opts []string, out string) graph.Action {
		return graph.Action{
			Name:  d.Name + "." + suffix,
			Owner: d.Name,
			Kind:  graph.CommandAction,
			Command: &graph.Command{
				Program: DocumentRenderer,
				Args:    slices.Concat(opts, []string{"-o", out}, inputs),
				Dir:     staged,
			},
			Outputs:   []string{out},
			DependsOn: []string{stage},
		}
	}
	entry.Actions = []graph.Action{
		{
			Name:  stage,
			Owner: d.Name,
			Kind:  graph.StageAction,
			Stage: &graph.Stage{
				SourceRoot:  env.SourceDir,
				Destination: staged,
				Patterns:    patterns,
			},
		},
		render("pdf", d.PDFOptions, pdfOut),
		render("html", d.HTMLOptions, htmlOut),
	}
	return gateDoc(d, install.Files, []string{pdfOut, htmlOut}, entry)
}
