package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/artifactgrid/internal/argschema"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/recipe"
	"github.com/specialistvlad/artifactgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLibraryDefaults(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"src/recipes.hcl": `
			static_library "mathutil" {
				sources = ["a.c", "b.c"]
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	lib := testutil.RequireArtifact(t, result, "mathutil")
	assert.Equal(t, "mathutil", lib.OutputName)
	assert.Equal(t, "devel", lib.Component)
	rules := testutil.RequireInstallRules(t, result, "mathutil", 1)
	assert.Equal(t, "lib64", rules[0].Destination)
}

func TestPrivateSharedLibrary(t *testing.T) {
	files := map[string]string{
		"net.hcl": `
			shared_library "net" {
				sources   = ["n.c"]
				component = "private"
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	net := testutil.RequireArtifact(t, result, "net")
	assert.Equal(t, "1.7", net.Version)
	testutil.RequireInstallRules(t, result, "net", 0)
	assert.Empty(t, result.Graph.InstallRules())
}

func TestExecutableLinksRuntimeSupport(t *testing.T) {
	files := map[string]string{
		"tool.hcl": `
			executable "tool" {
				sources        = ["main.c"]
				link_libraries = ["mathutil"]
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	tool := testutil.RequireArtifact(t, result, "tool")
	assert.Equal(t, []string{"mathutil", recipe.RuntimeSupportLibrary}, tool.LinkLibraries)
	rules := testutil.RequireInstallRules(t, result, "tool", 1)
	assert.Equal(t, "bin", rules[0].Destination)
	assert.Equal(t, "runtime", rules[0].Component)
}

func TestDualFormatDocOptions(t *testing.T) {
	files := map[string]string{
		"docs/manual.hcl": `
			rendered_docs "manual" {
				sources     = ["intro.md"]
				destination = "share/doc/manual"
				component   = "docs"
				stylesheet  = "s.css"
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	manual := testutil.RequireDoc(t, result, "manual")
	assert.Equal(t, []string{"-V", "geometry:margin=1in", "--toc", "--smart", "--standalone"}, manual.PDFOptions)
	assert.Equal(t, []string{"--toc", "--smart", "--standalone", "--css", "s.css"}, manual.HTMLOptions)
	testutil.RequireInstallRules(t, result, filepath.Join(result.App.Env().BuildDir, "manual.pdf"), 1)
}

func TestSiteDocsOnLegacyDistribution(t *testing.T) {
	files := map[string]string{
		"guide/mkdocs.yml":    "site_name: Guide\n",
		"guide/docs/index.md": "# Guide\n",
		"guide/recipes.hcl": `
			site_docs "guide" {
				source_dir  = "guide"
				destination = "share/doc/guide"
				component   = "docs"
			}
		`,
	}

	result := testutil.RunIntegrationTestWithOptions(context.Background(), t, files, testutil.Options{Distribution: "el6"})

	guide := testutil.RequireDoc(t, result, "guide")
	assert.Equal(t, recipe.LegacyLocale, guide.Locale)
	actions := result.Graph.ActionsOf("guide")
	require.Len(t, actions, 2)
	assert.Equal(t, graph.CommandAction, actions[1].Kind)
	assert.Contains(t, actions[1].Command.Env, "LC_ALL=en_US.utf8")
}

func TestDeclarationOrderAcrossFiles(t *testing.T) {
	files := map[string]string{
		"a_libs.hcl": `
			static_library "core" {
				sources = ["core.c"]
			}
		`,
		"b_tools.hcl": `
			executable "tool" {
				sources           = ["main.c"]
				link_dependencies = ["core"]
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)
	tool := testutil.RequireArtifact(t, result, "tool")
	assert.Equal(t, []string{"core"}, tool.Dependencies)
}

func TestForwardDependencyIsRejected(t *testing.T) {
	files := map[string]string{
		"a_tools.hcl": `
			executable "tool" {
				sources      = ["main.c"]
				dependencies = ["core"]
			}
		`,
		"b_libs.hcl": `
			static_library "core" {
				sources = ["core.c"]
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)
	require.ErrorIs(t, result.Err, graph.ErrUnresolved)
	assert.Nil(t, result.Graph, "a failed evaluation yields no graph")
}

func TestMissingAndUnknownParameters(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		result := testutil.RunIntegrationTest(t, map[string]string{
			"docs.hcl": `raw_docs "notes" {
				sources = ["README"]
			}`,
		})
		require.ErrorIs(t, result.Err, argschema.ErrMissing)
		assert.ErrorContains(t, result.Err, "destination")
		assert.ErrorContains(t, result.Err, "component")
	})

	t.Run("unknown", func(t *testing.T) {
		result := testutil.RunIntegrationTest(t, map[string]string{
			"lib.hcl": `static_library "x" {
				sources = ["x.c"]
				version = "2"
			}`,
		})
		require.ErrorIs(t, result.Err, argschema.ErrUnknown)
		assert.ErrorContains(t, result.Err, "version")
	})
}

func TestRenderedOutput(t *testing.T) {
	files := map[string]string{
		"lib.hcl": `
			variable "flavour" {
				default = "devel"
			}
			static_library "x" {
				sources   = ["x.c"]
				component = var.flavour
			}
		`,
	}

	result := testutil.RunIntegrationTestWithOptions(context.Background(), t, files, testutil.Options{
		Format: "hcl",
		Vars:   map[string]string{"flavour": "tools"},
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, `artifact "x" {`)
	assert.Regexp(t, `component\s+= "tools"`, result.Output)
}
