package state

import (
	"context"
	"testing"

	"github.com/arthur-debert/rig/pkg/execx"
	"github.com/arthur-debert/rig/pkg/manifest"
	"github.com/arthur-debert/rig/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOracle(runner execx.Runner, opts ...Option) *Oracle {
	return NewOracle(runner, NewCache(), opts...)
}

func TestBrewInstalled(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().
		Script("brew list --formula -1", execx.Result{Stdout: "fzf\nripgrep\n"})
	o := newOracle(runner)

	assert.True(t, o.IsInstalled(ctx, "ripgrep", manifest.MethodBrew, manifest.StringValue("ripgrep")))
	assert.False(t, o.IsInstalled(ctx, "bat", manifest.MethodBrew, manifest.StringValue("bat")))
}

func TestBulkListingRunsOncePerMethod(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().
		Script("brew list --formula -1", execx.Result{Stdout: "fzf\n"})
	o := newOracle(runner)

	o.IsInstalled(ctx, "fzf", manifest.MethodBrew, manifest.StringValue("fzf"))
	o.IsInstalled(ctx, "ripgrep", manifest.MethodBrew, manifest.StringValue("ripgrep"))
	o.IsInstalled(ctx, "bat", manifest.MethodBrew, manifest.StringValue("bat"))

	assert.Len(t, runner.CommandsMatching("brew list --formula"), 1)
}

func TestFailedListingMeansNotInstalled(t *testing.T) {
	// No brew on this host: the listing fails, nothing is installed, and
	// the oracle must not error out.
	ctx := context.Background()
	runner := execx.NewFakeRunner().
		Script("brew list --formula -1", execx.Result{ExitCode: 127, Stderr: "sh: brew: not found"})
	o := newOracle(runner)

	assert.False(t, o.IsInstalled(ctx, "fzf", manifest.MethodBrew, manifest.StringValue("fzf")))
	// Still only one attempt
	o.IsInstalled(ctx, "bat", manifest.MethodBrew, manifest.StringValue("bat"))
	assert.Len(t, runner.CommandsMatching("brew list --formula"), 1)
}

func TestNameOnPathCountsAsInstalled(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().PutOnPath("jq")
	o := newOracle(runner)

	// The brew listing is empty but the binary is already on PATH
	assert.True(t, o.IsInstalled(ctx, "jq", manifest.MethodBrew, manifest.StringValue("jq")))
}

func TestCaskInstalled(t *testing.T) {
	ctx := context.Background()

	t.Run("from brew ledger", func(t *testing.T) {
		runner := execx.NewFakeRunner().
			Script("brew list --cask -1", execx.Result{Stdout: "kitty\n"})
		o := newOracle(runner, WithAppDirs(nil))

		assert.True(t, o.IsInstalled(ctx, "kitty", manifest.MethodCask, manifest.StringValue("kitty")))
	})

	t.Run("from application bundles", func(t *testing.T) {
		appDir := t.TempDir()
		testutil.CreateDir(t, appDir, "Visual Studio Code.app")

		runner := execx.NewFakeRunner()
		o := newOracle(runner, WithAppDirs([]string{appDir}))

		assert.True(t, o.IsInstalled(ctx, "visual-studio-code", manifest.MethodCask,
			manifest.StringValue("visual-studio-code")))
		assert.False(t, o.IsInstalled(ctx, "slack", manifest.MethodCask,
			manifest.StringValue("slack")))
	})
}

func TestDnfGroupSemantics(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().
		Script(`rpm -qa --qf '%{NAME}\n'`, execx.Result{Stdout: "gcc\nmake\nglibc\n"})
	o := newOracle(runner)

	t.Run("all members present", func(t *testing.T) {
		assert.True(t, o.IsInstalled(ctx, "build-tools", manifest.MethodDnf,
			manifest.StringValue("gcc make")))
	})

	t.Run("one missing member fails the group", func(t *testing.T) {
		assert.False(t, o.IsInstalled(ctx, "build-tools", manifest.MethodDnf,
			manifest.StringValue("gcc gcc-c++ make")))
	})
}

func TestFirstWordListings(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().
		Script("uv tool list", execx.Result{Stdout: "ruff v0.4.1\n- ruff\n"}).
		Script("cargo install --list", execx.Result{Stdout: "ripgrep v13.0.0:\n    rg\n"}).
		Script("snap list 2>/dev/null", execx.Result{Stdout: "Name  Version\nspotify  1.2.3\n"})
	o := newOracle(runner)

	assert.True(t, o.IsInstalled(ctx, "ruff", manifest.MethodUvTool, manifest.StringValue("ruff")))
	assert.True(t, o.IsInstalled(ctx, "ripgrep", manifest.MethodCargo, manifest.StringValue("ripgrep")))
	assert.True(t, o.IsInstalled(ctx, "spotify", manifest.MethodSnap, manifest.SnapValue{Name: "spotify"}))
	assert.False(t, o.IsInstalled(ctx, "zoom", manifest.MethodSnap, manifest.SnapValue{Name: "zoom"}))
}

func TestGoToolAndEgetCheckBinaryName(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().PutOnPath("golangci-lint", "lazygit")
	o := newOracle(runner)

	assert.True(t, o.IsInstalled(ctx, "golangci-lint", manifest.MethodGoTool,
		manifest.StringValue("github.com/golangci/golangci-lint/cmd/golangci-lint@latest")))
	assert.True(t, o.IsInstalled(ctx, "lazygit", manifest.MethodEget,
		manifest.StringValue("jesseduffield/lazygit")))
	assert.False(t, o.IsInstalled(ctx, "gopls", manifest.MethodGoTool,
		manifest.StringValue("golang.org/x/tools/gopls@latest")))
}

func TestGhExtensionInstalled(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().
		Script("gh extension list 2>/dev/null", execx.Result{Stdout: "gh dash  dlvhdr/gh-dash  v4.0.0\n"})
	o := newOracle(runner)

	assert.True(t, o.IsInstalled(ctx, "gh-dash", manifest.MethodGhExtension,
		manifest.StringValue("dlvhdr/gh-dash")))
	assert.False(t, o.IsInstalled(ctx, "gh-poi", manifest.MethodGhExtension,
		manifest.StringValue("seachicken/gh-poi")))
}

func TestFlatpakAndYay(t *testing.T) {
	ctx := context.Background()
	runner := execx.NewFakeRunner().
		Script("flatpak list --columns=application 2>/dev/null", execx.Result{Stdout: "org.signal.Signal\n"}).
		Script("yay -Qq 2>/dev/null", execx.Result{Stdout: "paru\n"})
	o := newOracle(runner)

	assert.True(t, o.IsInstalled(ctx, "signal", manifest.MethodFlatpak,
		manifest.StringValue("org.signal.Signal")))
	assert.True(t, o.IsInstalled(ctx, "paru", manifest.MethodYay, manifest.StringValue("paru")))
}

func TestManualInstalled(t *testing.T) {
	ctx := context.Background()

	t.Run("check_command outranks everything", func(t *testing.T) {
		runner := execx.NewFakeRunner().PutOnPath("kitty")
		o := newOracle(runner)

		v := manifest.ManualValue{Type: manifest.ManualScript, URL: "https://x", CheckCommand: "kitty"}
		assert.True(t, o.IsInstalled(ctx, "kitty-terminal", manifest.MethodManual, v))
	})

	t.Run("check_dir with expansion", func(t *testing.T) {
		dir := t.TempDir()
		testutil.CreateDir(t, dir, "nvim")

		runner := execx.NewFakeRunner()
		o := newOracle(runner, WithExpander(func(p string) string {
			require.Equal(t, "$DATA/nvim", p)
			return dir + "/nvim"
		}))

		v := manifest.ManualValue{Type: manifest.ManualScript, URL: "https://x", CheckDir: "$DATA/nvim"}
		assert.True(t, o.IsInstalled(ctx, "nvim-config", manifest.MethodManual, v))
	})

	t.Run("dest used for git_clone", func(t *testing.T) {
		dir := t.TempDir()
		testutil.CreateDir(t, dir, "tpm")

		runner := execx.NewFakeRunner()
		o := newOracle(runner, WithExpander(func(p string) string { return p }))

		v := manifest.ManualValue{Type: manifest.ManualGitClone, URL: "https://x", Dest: dir + "/tpm"}
		assert.True(t, o.IsInstalled(ctx, "tpm", manifest.MethodManual, v))

		missing := manifest.ManualValue{Type: manifest.ManualGitClone, URL: "https://x", Dest: dir + "/absent"}
		assert.False(t, o.IsInstalled(ctx, "tpm2", manifest.MethodManual, missing))
	})

	t.Run("falls back to package name on path", func(t *testing.T) {
		runner := execx.NewFakeRunner().PutOnPath("starship")
		o := newOracle(runner)

		v := manifest.ManualValue{Type: manifest.ManualScript, URL: "https://x"}
		assert.True(t, o.IsInstalled(ctx, "starship", manifest.MethodManual, v))
	})

	t.Run("glob in check_dir", func(t *testing.T) {
		dir := t.TempDir()
		testutil.CreateDir(t, dir, "app-v1.2")

		runner := execx.NewFakeRunner()
		o := newOracle(runner, WithExpander(func(p string) string { return p }))

		v := manifest.ManualValue{Type: manifest.ManualScript, URL: "https://x", CheckDir: dir + "/app-v*"}
		assert.True(t, o.IsInstalled(ctx, "app", manifest.MethodManual, v))
	})
}
