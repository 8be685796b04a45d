// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package pipeline executes the documentation actions of a build graph.
//
// Compiled artifacts are left to the build engine. Documentation bundles
// carry their own actions: a staging step followed by one or more renderer
// commands. Runner executes them in registration order, which always
// satisfies the declared action dependencies, and checks that every declared
// output exists afterwards.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/specialistvlad/artifactgrid/internal/ctxlog"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/staging"
)

var (
	ErrUnknownDoc    = errors.New("unknown documentation bundle")
	ErrMissingOutput = errors.New("declared output was not produced")
	ErrMalformed     = errors.New("malformed action")
)

// Runner executes graph actions.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	// BaseEnv is the environment commands start from. Defaults to os.Environ().
	BaseEnv []string
}

// New returns a Runner streaming tool output to stdout and stderr.
func New(stdout, stderr io.Writer) *Runner {
	return &Runner{Stdout: stdout, Stderr: stderr}
}

// Run executes the actions of the named docs, or of every doc when no name
// is given.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, docs ...string) error {
	logger := ctxlog.FromContext(ctx)

	if len(docs) == 0 {
		for _, d := range g.Docs() {
			docs = append(docs, d.Name)
		}
	}

	for _, name := range docs {
		if _, ok := g.Doc(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDoc, name)
		}
		actions := g.ActionsOf(name)
		logger.Info("Building documentation.", "doc", name, "actions", len(actions))
		for _, a := range actions {
			if err := r.RunAction(ctx, a); err != nil {
				logger.Error("Action failed.", "doc", name, "action", a.Name, "error", err)
				return err
			}
		}
	}
	return nil
}

// RunAction executes one action. Tool failures are returned unwrapped.
func (r *Runner) RunAction(ctx context.Context, a graph.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx).With("action", a.Name)

	switch a.Kind {
	case graph.StageAction:
		if a.Stage == nil {
			return fmt.Errorf("%w: %s has no stage", ErrMalformed, a.Name)
		}
		res, err := staging.Stage(ctx, a.Stage.SourceRoot, a.Stage.Destination, a.Stage.Patterns)
		if err != nil {
			return err
		}
		logger.Debug("Staged.", "copied", len(res.Copied), "unchanged", len(res.Unchanged))
	case graph.CommandAction:
		if a.Command == nil {
			return fmt.Errorf("%w: %s has no command", ErrMalformed, a.Name)
		}
		logger.Debug("Running command.", "program", a.Command.Program, "args", a.Command.Args)
		if err := r.run(ctx, a.Command); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s has kind %q", ErrMalformed, a.Name, a.Kind)
	}

	for _, out := range a.Outputs {
		if _, err := os.Stat(out); err != nil {
			return fmt.Errorf("%w: %s (action %s)", ErrMissingOutput, out, a.Name)
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, c *graph.Command) error {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0o755); err != nil {
			return err
		}
	}
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	base := r.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	cmd.Env = mergeEnv(base, c.Env)
	return cmd.Run()
}

// mergeEnv overlays KEY=VALUE pairs on base and returns the result sorted by
// key.
func mergeEnv(base, override []string) []string {
	envMap := make(map[string]string, len(base)+len(override))
	for _, list := range [][]string{base, override} {
		for _, kv := range list {
			if k, v, ok := strings.Cut(kv, "="); ok {
				envMap[k] = v
			}
		}
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
