package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "rig", root.Name())
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"install", "bootstrap", "target", "genconfig", "topics", "version", "completion", "help"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootWithoutSubcommandFails(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
}

func TestVerbosityFlagCounts(t *testing.T) {
	root := NewRootCmd()
	require.NoError(t, root.PersistentFlags().Parse([]string{"-vv"}))
	count, err := root.PersistentFlags().GetCount("verbose")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTargetCommandPrintsTarget(t *testing.T) {
	out, err := execute(t, "target")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenconfigPrintsDefaults(t *testing.T) {
	out, err := execute(t, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[install]")
	assert.Contains(t, out, "jobs = 4")
	assert.Contains(t, out, "[bootstrap]")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rig version")
}

func TestHelpTopicsListsEmbeddedTopics(t *testing.T) {
	out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "manifest")
	assert.Contains(t, out, "methods")
	assert.Contains(t, out, "bootstrap")
	assert.Contains(t, out, "--jobs")
}

func TestTopicsCommandDelegatesToHelp(t *testing.T) {
	out, err := execute(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Available help topics")
}

func TestInstallCommandFlags(t *testing.T) {
	root := NewRootCmd()
	install, _, err := root.Find([]string{"install"})
	require.NoError(t, err)

	assert.NotNil(t, install.Flags().Lookup("manifest"))
	assert.NotNil(t, install.Flags().Lookup("jobs"))
}

func TestBootstrapCommandFlags(t *testing.T) {
	root := NewRootCmd()
	bootstrap, _, err := root.Find([]string{"bootstrap"})
	require.NoError(t, err)

	assert.NotNil(t, bootstrap.Flags().Lookup("repo"))
	assert.NotNil(t, bootstrap.Flags().Lookup("yes"))
	assert.NotNil(t, bootstrap.Flags().Lookup("schedule"))
}
