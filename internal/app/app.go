package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/specialistvlad/artifactgrid/internal/ctxlog"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/model"
	"github.com/specialistvlad/artifactgrid/internal/pipeline"
	"github.com/specialistvlad/artifactgrid/internal/recipe"
	"github.com/specialistvlad/artifactgrid/internal/render"
	"github.com/specialistvlad/artifactgrid/internal/staging"
	"github.com/specialistvlad/artifactgrid/internal/watch"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. Documents go to outW;
// logs and tool diagnostics go to errW.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: config,
	}
}

// Context attaches the app logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Env is the recipe evaluation environment derived from the configuration.
func (a *App) Env() recipe.Env {
	return recipe.Env{
		SourceDir:    a.config.SourceDir,
		BuildDir:     a.config.BuildDir,
		Distribution: a.config.Distribution,
	}
}

// Load reads every recipe file under the recipe path into invocations.
func (a *App) Load(ctx context.Context) ([]recipe.Invocation, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading recipes...", "recipe_path", a.config.RecipePath)

	ws, err := model.LoadWorkspace(ctx, a.config.RecipePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	invs, err := ws.Invocations(a.config.Vars)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate recipe attributes: %w", err)
	}
	logger.Info("Recipes loaded successfully.", "files", len(ws.Files), "recipes_found", len(invs))
	return invs, nil
}

// Evaluate loads the recipe files and evaluates them into a build graph.
func (a *App) Evaluate(ctx context.Context) (*graph.Graph, error) {
	invs, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}
	return recipe.Evaluate(a.Context(ctx), a.Env(), invs)
}

// Eval evaluates the recipe files and writes the graph document.
func (a *App) Eval(ctx context.Context) error {
	g, err := a.Evaluate(ctx)
	if err != nil {
		return err
	}
	return a.write(g)
}

// Invoke evaluates a single token-list invocation and writes the graph
// document.
func (a *App) Invoke(ctx context.Context, recipeName string, tokens []string) error {
	g, err := recipe.Evaluate(a.Context(ctx), a.Env(), []recipe.Invocation{{
		Recipe: recipeName,
		Tokens: tokens,
		Origin: "command line",
	}})
	if err != nil {
		return err
	}
	return a.write(g)
}

// Docs evaluates the recipe files and builds the named documentation bundles,
// or all of them when no name is given.
func (a *App) Docs(ctx context.Context, names ...string) error {
	g, err := a.Evaluate(ctx)
	if err != nil {
		return err
	}
	return pipeline.New(a.errW, a.errW).Run(a.Context(ctx), g, names...)
}

// Watch re-evaluates and writes the graph document whenever recipe files
// change, until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	w := &watch.Watcher{Root: a.config.RecipePath, Extension: model.FileExtension}
	return w.Run(a.Context(ctx), a.Eval)
}

// Stage copies the files matching patterns from one root to another.
func (a *App) Stage(ctx context.Context, from, to string, patterns []string) error {
	res, err := staging.Stage(a.Context(ctx), from, to, patterns)
	if err != nil {
		return err
	}
	a.logger.Info("Staging finished.", "copied", len(res.Copied), "unchanged", len(res.Unchanged))
	for _, p := range res.Copied {
		fmt.Fprintln(a.outW, p)
	}
	return nil
}

// Schema writes the JSON Schema of the graph document.
func (a *App) Schema() error {
	s, err := render.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.outW, string(s))
	return err
}

// Recipes writes a table of every recipe and its parameters.
func (a *App) Recipes() error {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for _, r := range recipe.All() {
		fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Summary)
		for _, p := range r.Schema.Params() {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s, %s\n", p.Name, p.Keyword(), req, p.Arity)
		}
	}
	return tw.Flush()
}

func (a *App) write(g *graph.Graph) error {
	doc := render.NewDocument(g, render.Meta{
		SourceDir:    a.config.SourceDir,
		BuildDir:     a.config.BuildDir,
		Distribution: a.config.Distribution,
	})
	return render.Write(a.outW, render.Format(a.config.Format), doc)
}
