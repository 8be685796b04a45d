package testutil

import (
	"testing"

	"github.com/specialistvlad/artifactgrid/internal/graph"
	"github.com/specialistvlad/artifactgrid/internal/install"
	"github.com/stretchr/testify/require"
)

// RequireArtifact fails the test unless the evaluation succeeded and
// registered the named artifact.
func RequireArtifact(t *testing.T, result *HarnessResult, name string) graph.Artifact {
	t.Helper()
	require.NoError(t, result.Err, "evaluation failed; logs:\n%s", result.LogOutput)
	a, ok := result.Graph.Artifact(name)
	require.True(t, ok, "artifact %q was not registered", name)
	return a
}

// RequireDoc is RequireArtifact for documentation bundles.
func RequireDoc(t *testing.T, result *HarnessResult, name string) graph.Doc {
	t.Helper()
	require.NoError(t, result.Err, "evaluation failed; logs:\n%s", result.LogOutput)
	d, ok := result.Graph.Doc(name)
	require.True(t, ok, "doc %q was not registered", name)
	return d
}

// RequireInstallRules returns the install rules whose subjects include
// subject and fails unless there are exactly n of them.
func RequireInstallRules(t *testing.T, result *HarnessResult, subject string, n int) []install.Rule {
	t.Helper()
	require.NoError(t, result.Err, "evaluation failed; logs:\n%s", result.LogOutput)
	rules := result.Graph.InstallRulesFor(subject)
	require.Len(t, rules, n, "install rules for %q", subject)
	return rules
}
