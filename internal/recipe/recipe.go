// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package recipe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/artifactgrid/internal/argschema"
	"github.com/specialistvlad/artifactgrid/internal/ctxlog"
	"github.com/specialistvlad/artifactgrid/internal/graph"
)

var (
	ErrUnknownRecipe = errors.New("unknown recipe")
	// ErrOutsideSource reports a source path that leaves SourceDir.
	ErrOutsideSource = errors.New("source outside the source directory")
)

// Env is the fixed evaluation environment shared by all invocations.
type Env struct {
	// SourceDir is the directory recipe paths are relative to.
	SourceDir string
	// BuildDir is the build output area.
	BuildDir string
	// Distribution is the target distribution id, for example "el6".
	Distribution string
	// SourceFS is consulted for layout checks. Defaults to os.DirFS(SourceDir).
	SourceFS fs.FS
}

func (e Env) exists(p string, wantDir bool) bool {
	var (
		info fs.FileInfo
		err  error
	)
	switch {
	case filepath.IsAbs(p):
		info, err = os.Stat(p)
	case e.SourceFS != nil:
		info, err = fs.Stat(e.SourceFS, filepath.ToSlash(filepath.Clean(p)))
	default:
		info, err = os.Stat(filepath.Join(e.SourceDir, p))
	}
	if err != nil {
		return false
	}
	return info.IsDir() == wantDir
}

func (e Env) sourcePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.SourceDir, p)
}

// relSource returns p relative to SourceDir. Absolute paths inside SourceDir
// are accepted; anything that resolves above it is not.
func (e Env) relSource(p string) (string, error) {
	rel := filepath.Clean(p)
	if filepath.IsAbs(rel) {
		root, err := filepath.Abs(e.SourceDir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", e.SourceDir, err)
		}
		if rel, err = filepath.Rel(root, rel); err != nil {
			return "", fmt.Errorf("%w: %s", ErrOutsideSource, p)
		}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideSource, p)
	}
	return rel, nil
}

type evalFunc func(env Env, args argschema.Arguments, entry *graph.Entry) error

// Recipe is one named recipe with its closed parameter schema.
type Recipe struct {
	Name    string
	Summary string
	Schema  *argschema.Schema
	eval    evalFunc
}

// Build runs the recipe on validated arguments and returns the entry it
// contributes to the graph.
func (r *Recipe) Build(env Env, args argschema.Arguments) (graph.Entry, error) {
	var entry graph.Entry
	if err := r.eval(env, args, &entry); err != nil {
		return graph.Entry{}, fmt.Errorf("%s %q: %w", r.Name, args.String("name"), err)
	}
	return entry, nil
}

var registry = map[string]*Recipe{}

func register(r *Recipe) {
	if _, dup := registry[r.Name]; dup {
		panic(fmt.Sprintf("recipe: duplicate recipe %q", r.Name))
	}
	registry[r.Name] = r
}

// Lookup returns the named recipe.
func Lookup(name string) (*Recipe, bool) {
	r, ok := registry[name]
	return r, ok
}

// All returns every recipe sorted by name.
func All() []*Recipe {
	out := make([]*Recipe, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invocation is one call of a recipe. Exactly one of Tokens and Values is
// normally set; Values wins when both are.
type Invocation struct {
	Recipe string
	Tokens []string
	Values map[string][]string
	// Origin names where the invocation was declared, for diagnostics.
	Origin string
}

func (inv Invocation) arguments(r *Recipe) (argschema.Arguments, error) {
	if inv.Values != nil {
		return argschema.Bind(r.Name, r.Schema, inv.Values)
	}
	return argschema.Parse(r.Name, r.Schema, inv.Tokens)
}

// Evaluator applies invocations to one graph in declaration order.
type Evaluator struct {
	env   Env
	graph *graph.Graph
}

// NewEvaluator creates an evaluator with an empty graph.
func NewEvaluator(env Env) *Evaluator {
	if env.SourceFS == nil && env.SourceDir != "" {
		env.SourceFS = os.DirFS(env.SourceDir)
	}
	return &Evaluator{env: env, graph: graph.New()}
}

// Graph returns the graph built so far.
func (e *Evaluator) Graph() *graph.Graph { return e.graph }

// Apply validates and evaluates one invocation, then registers its entry.
func (e *Evaluator) Apply(ctx context.Context, inv Invocation) error {
	logger := ctxlog.FromContext(ctx)

	r, ok := Lookup(inv.Recipe)
	if !ok {
		return withOrigin(inv.Origin, fmt.Errorf("%w: %q", ErrUnknownRecipe, inv.Recipe))
	}
	args, err := inv.arguments(r)
	if err != nil {
		return withOrigin(inv.Origin, err)
	}
	entry, err := r.Build(e.env, args)
	if err != nil {
		return withOrigin(inv.Origin, fmt.Errorf("%s %q: %w", r.Name, args.String("name"), err))
	}
	if entry.Artifact != nil {
		entry.Artifact.Origin = inv.Origin
	}
	if entry.Doc != nil {
		entry.Doc.Origin = inv.Origin
	}
	if err := e.graph.Register(entry); err != nil {
		return withOrigin(inv.Origin, fmt.Errorf("%s %q: %w", r.Name, args.String("name"), err))
	}

	logger.Debug("Recipe evaluated.",
		"recipe", r.Name,
		"name", args.String("name"),
		"install_rules", len(entry.Installs),
		"actions", len(entry.Actions),
	)
	return nil
}

// Evaluate runs every invocation in order against a fresh graph. On the first
// error the graph is discarded.
func Evaluate(ctx context.Context, env Env, invocations []Invocation) (*graph.Graph, error) {
	ev := NewEvaluator(env)
	for _, inv := range invocations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := ev.Apply(ctx, inv); err != nil {
			return nil, err
		}
	}
	g := ev.Graph()
	ctxlog.FromContext(ctx).Info("Evaluation finished.",
		"artifacts", len(g.Artifacts()),
		"docs", len(g.Docs()),
		"install_rules", len(g.InstallRules()),
	)
	return g, nil
}

func withOrigin(origin string, err error) error {
	if origin == "" {
		return err
	}
	return fmt.Errorf("%s: %w", origin, err)
}
