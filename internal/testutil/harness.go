package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/artifactgrid/internal/app"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Output    string
	Err       error
	App       *app.App
	Graph     *graph.Graph
	Root      string
}

// Options tweak the configuration used by the harness.
type Options struct {
	Distribution string
	Vars         map[string]string
	Format       string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithOptions(context.Background(), t, files, Options{})
}

// RunIntegrationTestWithOptions writes files into a fresh source tree, loads
// every recipe file in it and evaluates the build graph.
func RunIntegrationTestWithOptions(ctx context.Context, t *testing.T, files map[string]string, opts Options) *HarnessResult {
	t.Helper()

	// 1. Create a temporary source tree and a separate build area.
	root := t.TempDir()
	buildDir := t.TempDir()

	// 2. Write all files. Relative paths such as "docs/site/mkdocs.yml"
	//    create their subdirectories.
	for name, content := range files {
		filePath := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	distribution := opts.Distribution
	if distribution == "" {
		distribution = "fedora40"
	}
	config, err := app.NewConfig(app.Config{
		RecipePath:   root,
		BuildDir:     buildDir,
		Distribution: distribution,
		Format:       opts.Format,
		LogLevel:     "debug",
		LogFormat:    "text",
		Vars:         opts.Vars,
	})
	require.NoError(t, err)

	outBuffer := &app.SafeBuffer{}
	logBuffer := &app.SafeBuffer{}
	testApp := app.NewApp(outBuffer, logBuffer, config)

	g, runErr := testApp.Evaluate(ctx)
	if runErr == nil && opts.Format != "" {
		runErr = testApp.Eval(ctx)
	}

	if os.Getenv("ARTIFACTGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Output:    outBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Graph:     g,
		Root:      root,
	}
}
