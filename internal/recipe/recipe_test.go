package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/artifactgrid/internal/argschema"
	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/install"
	"github.com/specialistvlad/artifactgrid/internal/staging"
)

func testEnv() Env {
	return Env{
		SourceDir:    "/src",
		BuildDir:     "/build",
		Distribution: "fedora40",
		SourceFS: fstest.MapFS{
			"site/mkdocs.yml":     {Data: []byte("site_name: guide\n")},
			"site/docs/index.md":  {Data: []byte("# Guide\n")},
			"nopages/mkdocs.yml":  {Data: []byte("site_name: x\n")},
			"nodef/docs/index.md": {Data: []byte("# x\n")},
		},
	}
}

func tokens(recipe string, toks ...string) Invocation {
	return Invocation{Recipe: recipe, Tokens: toks}
}

func eval(t *testing.T, invs ...Invocation) *graph.Graph {
	t.Helper()
	g, err := Evaluate(context.Background(), testEnv(), invs)
	require.NoError(t, err)
	require.NotNil(t, g)
	return g
}

func TestStaticLibrary_Defaults(t *testing.T) {
	g := eval(t, tokens("static_library", "NAME", "mathutil", "SOURCES", "a.c", "b.c"))

	a, ok := g.Artifact("mathutil")
	require.True(t, ok)
	assert.Equal(t, graph.StaticLibrary, a.Kind)
	assert.Equal(t, []string{"a.c", "b.c"}, a.Sources)
	assert.Equal(t, "mathutil", a.OutputName)
	assert.Equal(t, "libmathutil.a", a.OutputFile)
	assert.Equal(t, "devel", a.Component)
	assert.Equal(t, install.Installable, a.Policy)

	want := []install.Rule{{Kind: install.Targets, Subjects: []string{"mathutil"}, Destination: "lib64", Component: "devel"}}
	if diff := cmp.Diff(want, g.InstallRules()); diff != "" {
		t.Errorf("install rules mismatch (-want +got):\n%s", diff)
	}
}

func TestSharedLibrary_VersionAndOutputName(t *testing.T) {
	g := eval(t, tokens("shared_library", "NAME", "net", "SOURCES", "net.c", "OUTPUT_NAME", "netio"))

	a, ok := g.Artifact("net")
	require.True(t, ok)
	assert.Equal(t, "net", a.Name, "output name does not rename the artifact")
	assert.Equal(t, "libnetio.so", a.OutputFile)
	assert.Equal(t, "1.7", a.Version)
	assert.Equal(t, "libnetio.so.1.7", a.RuntimeName)
	assert.Equal(t, "runtime", a.Component)

	rules := g.InstallRulesFor("net")
	require.Len(t, rules, 1)
	assert.Equal(t, "lib64", rules[0].Destination)
	assert.Equal(t, "runtime", rules[0].Component)
}

func TestExecutable_LinkLibrariesAddRuntimeSupport(t *testing.T) {
	g := eval(t, tokens("executable", "NAME", "tool", "SOURCES", "main.c", "LINK_LIBRARIES", "mathutil"))

	a, ok := g.Artifact("tool")
	require.True(t, ok)
	assert.Equal(t, []string{"mathutil", RuntimeSupportLibrary}, a.LinkLibraries)
	assert.Equal(t, []string{"-lmathutil", "-l" + RuntimeSupportLibrary}, a.LinkFlags)
	assert.Equal(t, "tool", a.OutputFile)

	want := []install.Rule{{Kind: install.Targets, Subjects: []string{"tool"}, Destination: "bin", Component: "runtime"}}
	assert.Equal(t, want, g.InstallRules())
}

func TestExecutable_NoLinkLibrariesNoRuntimeSupport(t *testing.T) {
	g := eval(t, tokens("executable", "NAME", "tool", "SOURCES", "main.c", "DESTINATION", "libexec/tools/"))

	a, _ := g.Artifact("tool")
	assert.Empty(t, a.LinkLibraries)
	assert.Equal(t, "libexec/tools", a.Destination)
}

func TestExecutable_LinkDependencies(t *testing.T) {
	g := eval(t,
		tokens("static_library", "NAME", "core", "SOURCES", "core.c"),
		tokens("static_library", "NAME", "extra", "SOURCES", "extra.c"),
		tokens("executable", "NAME", "tool", "SOURCES", "main.c",
			"DEPENDENCIES", "extra",
			"LINK_LIBRARIES", "m",
			"LINK_DEPENDENCIES", "core", "extra"),
	)

	a, _ := g.Artifact("tool")
	assert.Equal(t, []string{"extra", "core"}, a.Dependencies)
	assert.Equal(t, []string{"m", RuntimeSupportLibrary, "core", "extra"}, a.LinkLibraries)
}

func TestExecutable_LinkDependencyMustBeRegistered(t *testing.T) {
	g, err := Evaluate(context.Background(), testEnv(), []Invocation{
		tokens("executable", "NAME", "tool", "SOURCES", "main.c", "LINK_DEPENDENCIES", "core"),
	})
	require.ErrorIs(t, err, graph.ErrUnresolved)
	assert.Nil(t, g)
}

func TestObjectCollection_Flags(t *testing.T) {
	g := eval(t, tokens("object_collection", "NAME", "objs", "SOURCES", "a.c",
		"COMPILE_FLAGS", "-O2", "-g", "INCLUDES", "inc", "gen"))

	a, _ := g.Artifact("objs")
	assert.Equal(t, graph.ObjectCollection, a.Kind)
	assert.Equal(t, "-O2 -g -Iinc -Igen", a.FlagString)
	assert.Equal(t, []string{"-Iinc", "-Igen"}, a.IncludeFlags)
	assert.Equal(t, []string{"inc", "gen"}, a.IncludeDirs)
	assert.Equal(t, install.Internal, a.Policy)
	assert.Empty(t, g.InstallRules())
}

func TestObjectCollection_IncludesOnly(t *testing.T) {
	g := eval(t, tokens("object_collection", "NAME", "objs", "SOURCES", "a.c", "INCLUDES", "inc"))
	a, _ := g.Artifact("objs")
	assert.Equal(t, "-Iinc", a.FlagString)
}

func TestFlagsStayOnTheirArtifact(t *testing.T) {
	g := eval(t,
		tokens("static_library", "NAME", "a", "SOURCES", "a.c", "COMPILE_FLAGS", "-DA"),
		tokens("static_library", "NAME", "b", "SOURCES", "b.c"),
	)
	b, _ := g.Artifact("b")
	assert.Empty(t, b.CompileFlags)
	assert.Empty(t, b.FlagString)
}

func TestRawDocs(t *testing.T) {
	g := eval(t, tokens("raw_docs", "NAME", "notes", "SOURCES", "README", "NEWS",
		"DESTINATION", "share/doc/pkg", "COMPONENT", "docs"))

	d, ok := g.Doc("notes")
	require.True(t, ok)
	assert.Equal(t, graph.RawCopy, d.Kind)
	assert.Empty(t, g.Actions())

	want := []install.Rule{{
		Kind:        install.Files,
		Subjects:    []string{filepath.Join("/src", "README"), filepath.Join("/src", "NEWS")},
		Destination: "share/doc/pkg",
		Component:   "docs",
	}}
	assert.Equal(t, want, g.InstallRules())
}

func TestSiteDocs(t *testing.T) {
	env := testEnv()
	env.Distribution = "el6"
	g, err := Evaluate(context.Background(), env, []Invocation{
		tokens("site_docs", "NAME", "guide", "SOURCE_DIR", "site",
			"DESTINATION", "share/doc/guide", "COMPONENT", "docs", "OPTIONS", "--strict"),
	})
	require.NoError(t, err)

	d, ok := g.Doc("guide")
	require.True(t, ok)
	marker := filepath.Join("/build", "guide", "site", "index.html")
	assert.Equal(t, []string{marker}, d.Outputs)
	assert.Equal(t, LegacyLocale, d.Locale)

	actions := g.ActionsOf("guide")
	require.Len(t, actions, 2)
	assert.Equal(t, graph.StageAction, actions[0].Kind)
	assert.Equal(t, filepath.Join("/src", "site"), actions[0].Stage.SourceRoot)

	cmd := actions[1].Command
	require.NotNil(t, cmd)
	assert.Equal(t, SiteRenderer, cmd.Program)
	assert.Equal(t, []string{"LANG=en_US.utf8", "LC_ALL=en_US.utf8"}, cmd.Env)
	assert.Equal(t, "--strict", cmd.Args[len(cmd.Args)-1])
	assert.Equal(t, []string{actions[0].Name}, actions[1].DependsOn)

	want := []install.Rule{{
		Kind:        install.Directory,
		Subjects:    []string{filepath.Join("/build", "guide", "site")},
		Destination: "share/doc/guide",
		Component:   "docs",
	}}
	assert.Equal(t, want, g.InstallRules())
}

func TestSiteDocs_LayoutChecks(t *testing.T) {
	for _, dir := range []string{"nopages", "nodef", "absent"} {
		t.Run(dir, func(t *testing.T) {
			_, err := Evaluate(context.Background(), testEnv(), []Invocation{
				tokens("site_docs", "NAME", "guide", "SOURCE_DIR", dir, "DESTINATION", "d", "COMPONENT", "docs"),
			})
			require.ErrorIs(t, err, ErrSiteLayout)
		})
	}
}

func TestRenderedDocs_DefaultOptions(t *testing.T) {
	g := eval(t, tokens("rendered_docs", "NAME", "manual", "SOURCES", "intro.md", "usage.md",
		"DESTINATION", "share/doc", "COMPONENT", "docs", "STYLESHEET", "style.css"))

	d, ok := g.Doc("manual")
	require.True(t, ok)
	assert.Equal(t, []string{"-V", "geometry:margin=1in", "--toc", "--smart", "--standalone"}, d.PDFOptions)
	assert.Equal(t, []string{"--toc", "--smart", "--standalone", "--css", "style.css"}, d.HTMLOptions)

	pdf, html := filepath.Join("/build", "manual.pdf"), filepath.Join("/build", "manual.html")
	assert.Equal(t, []string{pdf, html}, d.Outputs)

	actions := g.ActionsOf("manual")
	require.Len(t, actions, 3)
	assert.Equal(t, []string{"intro.md", "usage.md"}, actions[0].Stage.Patterns)
	staged := filepath.Join("/build", "manual", "src")
	wantPDF := []string{"-V", "geometry:margin=1in", "--toc", "--smart", "--standalone",
		"-o", pdf, filepath.Join(staged, "intro.md"), filepath.Join(staged, "usage.md")}
	assert.Equal(t, wantPDF, actions[1].Command.Args)
	assert.Equal(t, []string{html}, actions[2].Outputs)

	rules := g.InstallRules()
	require.Len(t, rules, 1)
	assert.Equal(t, []string{pdf, html}, rules[0].Subjects)
}

func TestRenderedDocs_OptionsReplaceBothSets(t *testing.T) {
	g := eval(t, tokens("rendered_docs", "NAME", "manual", "SOURCES", "a.md",
		"DESTINATION", "share/doc", "COMPONENT", "docs", "STYLESHEET", "style.css", "OPTIONS", "--number-sections"))

	d, _ := g.Doc("manual")
	assert.Equal(t, []string{"--number-sections"}, d.PDFOptions)
	assert.Equal(t, []string{"--number-sections"}, d.HTMLOptions)
}

func TestRenderedDocs_NoStylesheet(t *testing.T) {
	g := eval(t, tokens("rendered_docs", "NAME", "manual", "SOURCES", "a.md", "DESTINATION", "d", "COMPONENT", "docs"))
	d, _ := g.Doc("manual")
	assert.Equal(t, []string{"--toc", "--smart", "--standalone"}, d.HTMLOptions)
}

func TestPrivateComponentSuppressesInstallForEveryRecipe(t *testing.T) {
	cases := []Invocation{
		tokens("static_library", "NAME", "x", "SOURCES", "x.c", "COMPONENT", "private"),
		tokens("shared_library", "NAME", "x", "SOURCES", "x.c", "COMPONENT", "private"),
		tokens("executable", "NAME", "x", "SOURCES", "x.c", "COMPONENT", "private"),
		tokens("raw_docs", "NAME", "x", "SOURCES", "README", "DESTINATION", "d", "COMPONENT", "private"),
		tokens("site_docs", "NAME", "x", "SOURCE_DIR", "site", "DESTINATION", "d", "COMPONENT", "private"),
		tokens("rendered_docs", "NAME", "x", "SOURCES", "a.md", "DESTINATION", "d", "COMPONENT", "private"),
	}
	for _, inv := range cases {
		t.Run(inv.Recipe, func(t *testing.T) {
			g := eval(t, inv)
			assert.True(t, g.Has("x"), "private artifacts are still registered")
			assert.Empty(t, g.InstallRules())
		})
	}
}

func TestSchemaViolations(t *testing.T) {
	t.Run("missing sources", func(t *testing.T) {
		g, err := Evaluate(context.Background(), testEnv(), []Invocation{
			tokens("static_library", "NAME", "ok", "SOURCES", "ok.c"),
			tokens("static_library", "NAME", "mathutil"),
		})
		require.ErrorIs(t, err, argschema.ErrMissing)
		assert.ErrorContains(t, err, "static_library")
		assert.ErrorContains(t, err, "sources")
		assert.Nil(t, g, "no partial graph")
	})

	t.Run("unknown keyword", func(t *testing.T) {
		_, err := Evaluate(context.Background(), testEnv(), []Invocation{
			tokens("executable", "NAME", "tool", "SOURCES", "main.c", "STYLESHEET", "x.css"),
		})
		require.ErrorIs(t, err, argschema.ErrUnknown)
	})

	t.Run("unknown value name", func(t *testing.T) {
		_, err := Evaluate(context.Background(), testEnv(), []Invocation{{
			Recipe: "raw_docs",
			Values: map[string][]string{"name": {"n"}, "sources": {"a"}, "destination": {"d"}, "component": {"c"}, "version": {"2"}},
			Origin: "docs.hcl:3",
		}})
		require.ErrorIs(t, err, argschema.ErrUnknown)
		assert.ErrorContains(t, err, "docs.hcl:3")
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := Evaluate(context.Background(), testEnv(), []Invocation{tokens("python_module", "NAME", "x")})
		require.ErrorIs(t, err, ErrUnknownRecipe)
	})
}

func TestDuplicateNamesFail(t *testing.T) {
	_, err := Evaluate(context.Background(), testEnv(), []Invocation{
		tokens("static_library", "NAME", "x", "SOURCES", "x.c"),
		tokens("raw_docs", "NAME", "x", "SOURCES", "README", "DESTINATION", "d", "COMPONENT", "docs"),
	})
	require.ErrorIs(t, err, graph.ErrDuplicate)
}

func TestEvaluate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, testEnv(), []Invocation{tokens("static_library", "NAME", "x", "SOURCES", "x.c")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocale(t *testing.T) {
	tests := map[string]string{
		"el6":      LegacyLocale,
		"RHEL6":    LegacyLocale,
		"sles11":   LegacyLocale,
		"el7":      DefaultLocale,
		"ubuntu24": DefaultLocale,
		"":         DefaultLocale,
	}
	for dist, want := range tests {
		assert.Equal(t, want, Locale(dist), dist)
	}
}

func TestAllRecipes(t *testing.T) {
	var names []string
	for _, r := range All() {
		names = append(names, r.Name)
		_, ok := r.Schema.Param(ParamName)
		assert.True(t, ok, "%s declares name", r.Name)
	}
	assert.Equal(t, []string{
		"executable", "object_collection", "raw_docs", "rendered_docs",
		"shared_library", "site_docs", "static_library",
	}, names)
}

// validValues supplies every required parameter of r with a value that passes
// evaluation in testEnv.
func validValues(r *Recipe) map[string][]string {
	values := map[string][]string{}
	for _, p := range r.Schema.Params() {
		if !p.Required {
			continue
		}
		switch p.Name {
		case ParamSourceDir:
			values[p.Name] = []string{"site"}
		case ParamName:
			values[p.Name] = []string{"x"}
		default:
			values[p.Name] = []string{"v"}
		}
	}
	return values
}

func TestEveryRecipe_RequiredAndUndeclaredParameters(t *testing.T) {
	for _, r := range All() {
		t.Run(r.Name, func(t *testing.T) {
			_, err := Evaluate(context.Background(), testEnv(), []Invocation{{Recipe: r.Name, Values: validValues(r)}})
			require.NoError(t, err)

			for _, p := range r.Schema.Params() {
				if !p.Required {
					continue
				}
				values := validValues(r)
				delete(values, p.Name)
				_, err := Evaluate(context.Background(), testEnv(), []Invocation{{Recipe: r.Name, Values: values}})
				require.ErrorIs(t, err, argschema.ErrMissing, p.Name)
				assert.ErrorContains(t, err, p.Name)
			}

			values := validValues(r)
			values["undeclared_knob"] = []string{"1"}
			_, err = Evaluate(context.Background(), testEnv(), []Invocation{{Recipe: r.Name, Values: values}})
			require.ErrorIs(t, err, argschema.ErrUnknown)
			assert.ErrorContains(t, err, "undeclared_knob")
		})
	}
}

func TestEveryRecipe_NonPrivateComponentInstallsOnce(t *testing.T) {
	for _, r := range All() {
		if _, ok := r.Schema.Param(ParamComponent); !ok {
			continue
		}
		t.Run(r.Name, func(t *testing.T) {
			values := validValues(r)
			values[ParamComponent] = []string{"anything"}
			g, err := Evaluate(context.Background(), testEnv(), []Invocation{{Recipe: r.Name, Values: values}})
			require.NoError(t, err)
			assert.Len(t, g.InstallRules(), 1)
		})
	}
}

func TestRenderedDocs_AbsoluteSourceInsideRoot(t *testing.T) {
	g := eval(t, tokens("rendered_docs", "NAME", "manual", "SOURCES", "/src/guide/intro.md", "usage.md",
		"DESTINATION", "d", "COMPONENT", "docs"))

	actions := g.ActionsOf("manual")
	require.Len(t, actions, 3)
	assert.Equal(t, []string{"guide/intro.md", "usage.md"}, actions[0].Stage.Patterns)
	staged := filepath.Join("/build", "manual", "src")
	assert.Equal(t, []string{filepath.Join(staged, "guide", "intro.md"), filepath.Join(staged, "usage.md")},
		actions[1].Command.Args[len(actions[1].Command.Args)-2:])
}

func TestRenderedDocs_SourceOutsideRoot(t *testing.T) {
	for _, src := range []string{"../outside.md", "guide/../../outside.md", "/etc/outside.md"} {
		t.Run(src, func(t *testing.T) {
			g, err := Evaluate(context.Background(), testEnv(), []Invocation{
				tokens("rendered_docs", "NAME", "manual", "SOURCES", src, "DESTINATION", "d", "COMPONENT", "docs"),
			})
			require.ErrorIs(t, err, ErrOutsideSource)
			assert.Nil(t, g)
			assert.ErrorContains(t, err, `rendered_docs "manual"`)
			assert.ErrorContains(t, err, src)
		})
	}
}

func TestRenderedDocs_AbsoluteSourceStagesRendererInput(t *testing.T) {
	srcDir, buildDir := t.TempDir(), t.TempDir()
	guide := filepath.Join(srcDir, "guide.md")
	require.NoError(t, os.WriteFile(guide, []byte("# Guide\n"), 0o644))

	env := Env{SourceDir: srcDir, BuildDir: buildDir, Distribution: "fedora40"}
	g, err := Evaluate(context.Background(), env, []Invocation{
		tokens("rendered_docs", "NAME", "m", "SOURCES", guide, "DESTINATION", "d", "COMPONENT", "docs"),
	})
	require.NoError(t, err)

	actions := g.ActionsOf("m")
	st := actions[0].Stage
	res, err := staging.Stage(context.Background(), st.SourceRoot, st.Destination, st.Patterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"guide.md"}, res.Copied)

	args := actions[1].Command.Args
	input := args[len(args)-1]
	assert.FileExists(t, input)
}
