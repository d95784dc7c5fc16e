package install

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/rig/pkg/execx"
	"github.com/arthur-debert/rig/pkg/install/methods"
	"github.com/arthur-debert/rig/pkg/install/state"
	"github.com/arthur-debert/rig/pkg/manifest"
	"github.com/arthur-debert/rig/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrchestrator(t *testing.T, runner execx.Runner) *Orchestrator {
	t.Helper()
	oracle := state.NewOracle(runner, state.NewCache(), state.WithAppDirs(nil))
	installer := methods.NewInstaller(runner,
		methods.WithLocalBin(filepath.Join(t.TempDir(), "bin")),
		methods.WithExpander(func(p string) string { return p }))
	return NewOrchestrator(runner, installer, oracle, nil, 2)
}

func parseManifest(t *testing.T, src string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(src))
	require.NoError(t, err)
	return m
}

func TestMethodPriority(t *testing.T) {
	// brew outranks apt: the apt path must never be touched, regardless of
	// how the config lists the methods.
	m := parseManifest(t, `{
	  "tool": {"packages": {"darwin": {"apt": "tool-deb", "brew": "tool"}}}
	}`)

	runner := execx.NewFakeRunner()
	report := newOrchestrator(t, runner).Run(context.Background(), m, "darwin")

	require.Equal(t, 1, report.Processed())
	assert.Empty(t, runner.CommandsMatching("apt"))
	require.Len(t, runner.CommandsMatching("brew install"), 1)
}

func TestBatchingCorrectness(t *testing.T) {
	src := `{
	  "fzf": {"packages": {"darwin": {"brew": "fzf"}}},
	  "ripgrep": {"packages": {"darwin": {"brew": "ripgrep"}}},
	  "bat": {"packages": {"darwin": {"brew": "bat"}}}
	}`

	t.Run("three misses produce one batched invocation", func(t *testing.T) {
		runner := execx.NewFakeRunner()
		report := newOrchestrator(t, runner).Run(context.Background(), parseManifest(t, src), "darwin")

		installs := runner.CommandsMatching("brew install")
		require.Len(t, installs, 1)
		assert.Equal(t, "brew install fzf ripgrep bat", installs[0])
		assert.Equal(t, 3, report.Count(methods.OutcomeInstalled))
	})

	t.Run("three hits produce zero install invocations", func(t *testing.T) {
		runner := execx.NewFakeRunner().
			Script("brew list --formula -1", execx.Result{Stdout: "fzf\nripgrep\nbat\n"})
		report := newOrchestrator(t, runner).Run(context.Background(), parseManifest(t, src), "darwin")

		assert.Empty(t, runner.CommandsMatching("brew install"))
		assert.Equal(t, 3, report.Count(methods.OutcomeAlreadyPresent))
	})
}

func TestBulkListingCachedAcrossPackages(t *testing.T) {
	m := parseManifest(t, `{
	  "a": {"packages": {"ubuntu": {"apt": "a"}}},
	  "b": {"packages": {"ubuntu": {"apt": "b"}}},
	  "c": {"packages": {"ubuntu": {"apt": "c"}}}
	}`)

	runner := execx.NewFakeRunner()
	newOrchestrator(t, runner).Run(context.Background(), m, "ubuntu")

	assert.Len(t, runner.CommandsMatching("dpkg-query"), 1)
}

func TestBatchFailureIsOneWarning(t *testing.T) {
	m := parseManifest(t, `{
	  "a": {"packages": {"ubuntu": {"apt": "a"}}},
	  "b": {"packages": {"ubuntu": {"apt": "b"}}}
	}`)

	runner := execx.NewFakeRunner().
		ScriptPrefix("sudo apt install", execx.Result{ExitCode: 100})
	report := newOrchestrator(t, runner).Run(context.Background(), m, "ubuntu")

	require.Len(t, report.Warnings(), 1)
	// Member outcomes are not distinguished within a failed batch
	assert.Equal(t, 2, report.Count(methods.OutcomeFailed))
}

func TestSystemPhaseCompletesBeforeSecondaryPhase(t *testing.T) {
	m := parseManifest(t, `{
	  "fzf": {"packages": {"darwin": {"brew": "fzf"}}},
	  "bat": {"packages": {"darwin": {"cargo": "bat"}}}
	}`)

	runner := execx.NewFakeRunner()
	newOrchestrator(t, runner).Run(context.Background(), m, "darwin")

	commands := runner.Commands()
	brewIdx, cargoIdx := -1, -1
	for i, c := range commands {
		if c == "brew install fzf" {
			brewIdx = i
		}
		if c == "cargo install bat" {
			cargoIdx = i
		}
	}
	require.NotEqual(t, -1, brewIdx)
	require.NotEqual(t, -1, cargoIdx)
	assert.Less(t, brewIdx, cargoIdx, "batched system installs must precede secondary installs")
}

func TestSecondaryFailureDoesNotAbortRun(t *testing.T) {
	m := parseManifest(t, `{
	  "bad": {"packages": {"darwin": {"cargo": "bad"}}},
	  "good": {"packages": {"darwin": {"uv_tool": "good"}}}
	}`)

	runner := execx.NewFakeRunner().
		Script("cargo install bad", execx.Result{ExitCode: 101})
	report := newOrchestrator(t, runner).Run(context.Background(), m, "darwin")

	assert.Equal(t, 2, report.Processed())
	outcome, ok := report.Outcome("bad")
	require.True(t, ok)
	assert.Equal(t, methods.OutcomeFailed, outcome)
	outcome, ok = report.Outcome("good")
	require.True(t, ok)
	assert.Equal(t, methods.OutcomeInstalled, outcome)
}

func TestUnauthenticatedGhExtensionSkips(t *testing.T) {
	m := parseManifest(t, `{
	  "gh-dash": {"packages": {"darwin": {"gh_extension": "dlvhdr/gh-dash"}}}
	}`)

	runner := execx.NewFakeRunner().
		Script("gh auth status", execx.Result{ExitCode: 1})
	report := newOrchestrator(t, runner).Run(context.Background(), m, "darwin")

	outcome, ok := report.Outcome("gh-dash")
	require.True(t, ok)
	assert.Equal(t, methods.OutcomeSkipped, outcome)
	assert.Empty(t, runner.CommandsMatching("gh extension install"))
}

func TestIdempotence(t *testing.T) {
	src := `{
	  "fzf": {"packages": {"darwin": {"brew": "fzf"}}},
	  "ruff": {"packages": {"darwin": {"uv_tool": "ruff"}}}
	}`

	// First run: nothing installed yet
	first := execx.NewFakeRunner()
	report := newOrchestrator(t, first).Run(context.Background(), parseManifest(t, src), "darwin")
	assert.Equal(t, 2, report.Count(methods.OutcomeInstalled))

	// Second run against the now-provisioned system: everything reports
	// already-present and no install invocations are issued.
	second := execx.NewFakeRunner().
		Script("brew list --formula -1", execx.Result{Stdout: "fzf\n"}).
		Script("uv tool list", execx.Result{Stdout: "ruff v0.4.1\n"})
	report = newOrchestrator(t, second).Run(context.Background(), parseManifest(t, src), "darwin")

	assert.Equal(t, 2, report.Count(methods.OutcomeAlreadyPresent))
	assert.Empty(t, second.CommandsMatching("install "))
}

func TestBrewTaps(t *testing.T) {
	src := `{
	  "_brew_taps": ["owner/good", "owner/bad"],
	  "fzf": {"packages": {"darwin": {"brew": "fzf"}}}
	}`

	t.Run("processed when brew present, failures tolerated", func(t *testing.T) {
		runner := execx.NewFakeRunner().
			PutOnPath("brew").
			Script("brew tap owner/bad", execx.Result{ExitCode: 1})
		report := newOrchestrator(t, runner).Run(context.Background(), parseManifest(t, src), "darwin")

		assert.Len(t, runner.CommandsMatching("brew tap"), 2)
		// The package run continues past the failed tap
		assert.Equal(t, 1, report.Processed())
	})

	t.Run("skipped entirely without brew", func(t *testing.T) {
		runner := execx.NewFakeRunner()
		newOrchestrator(t, runner).Run(context.Background(), parseManifest(t, src), "darwin")
		assert.Empty(t, runner.CommandsMatching("brew tap"))
	})
}

func TestIndexRefreshPerTarget(t *testing.T) {
	src := `{"a": {"packages": {"ubuntu": {"apt": "a"}, "fedora": {"dnf": "a"}, "darwin": {"brew": "a"}}}}`

	t.Run("ubuntu refreshes apt", func(t *testing.T) {
		runner := execx.NewFakeRunner()
		newOrchestrator(t, runner).Run(context.Background(), parseManifest(t, src), "ubuntu")
		assert.Len(t, runner.CommandsMatching("sudo apt update"), 1)
	})

	t.Run("darwin refreshes nothing", func(t *testing.T) {
		runner := execx.NewFakeRunner()
		newOrchestrator(t, runner).Run(context.Background(), parseManifest(t, src), "darwin")
		assert.Empty(t, runner.CommandsMatching("apt update"))
	})
}

func TestPackagesWithoutTargetConfigAreExcluded(t *testing.T) {
	m := parseManifest(t, `{
	  "darwin-only": {"packages": {"darwin": {"brew": "x"}}},
	  "ubuntu-only": {"packages": {"ubuntu": {"apt": "y"}}}
	}`)

	runner := execx.NewFakeRunner()
	report := newOrchestrator(t, runner).Run(context.Background(), m, "darwin")

	assert.Equal(t, 1, report.Processed())
	_, ok := report.Outcome("ubuntu-only")
	assert.False(t, ok)
}

func TestRunFromManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "packages.json",
		`{"fzf": {"packages": {"darwin": {"brew": "fzf"}}}}`)

	runner := execx.NewFakeRunner()
	report, err := Run(context.Background(), Options{
		Target:       "darwin",
		ManifestPath: path,
		Runner:       runner,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed())
}

func TestRunUnreadableManifestIsFatal(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Target:       "darwin",
		ManifestPath: "/nonexistent/packages.json",
		Runner:       execx.NewFakeRunner(),
	})
	assert.Error(t, err)
}
