// Package methods knows how to invoke the underlying tool for each
// installation method and how to read failure versus benign "already
// present" conditions out of tool output.
package methods

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/execx"
	"github.com/arthur-debert/rig/pkg/expand"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/manifest"
	"github.com/kballard/go-shellquote"
)

// caskConflictMarker is homebrew's message when an app bundle already
// exists outside its ledger. Its own conflict detection is unreliable, so
// this counts as a skip, not a failure.
const caskConflictMarker = "It seems there is already an App at"

// Installer invokes the underlying tools. Each install takes exactly the
// package's display name and its method value; the only shared state is the
// command runner.
type Installer struct {
	runner   execx.Runner
	brewBin  string
	localBin string
	expand   func(string) string
}

// Option configures an Installer
type Option func(*Installer)

// WithBrewBin overrides the homebrew executable (the original setup drove
// installs through a wrapper binary)
func WithBrewBin(bin string) Option {
	return func(i *Installer) { i.brewBin = bin }
}

// WithLocalBin overrides the user-local binary directory used by eget
func WithLocalBin(dir string) Option {
	return func(i *Installer) { i.localBin = dir }
}

// WithExpander overrides path expansion for git_clone destinations
func WithExpander(fn func(string) string) Option {
	return func(i *Installer) { i.expand = fn }
}

// NewInstaller creates an Installer backed by the given runner
func NewInstaller(runner execx.Runner, opts ...Option) *Installer {
	inst := &Installer{
		runner:  runner,
		brewBin: "brew",
		expand:  expand.Expand,
	}
	if home, err := os.UserHomeDir(); err == nil {
		inst.localBin = filepath.Join(home, ".local", "bin")
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// Install installs one package via the given method. The returned note, when
// non-empty, explains a skip or failure for display.
func (i *Installer) Install(ctx context.Context, name string, method manifest.Method, value manifest.Value) (Outcome, string) {
	switch method {
	case manifest.MethodBrew:
		return i.simple(ctx, fmt.Sprintf("%s install %s", i.brewBin, str(value)))
	case manifest.MethodCask:
		return i.installCask(ctx, str(value))
	case manifest.MethodApt:
		return i.simple(ctx, "sudo apt install -y "+str(value))
	case manifest.MethodDnf:
		return i.simple(ctx, "sudo dnf install -y "+str(value))
	case manifest.MethodUvTool:
		return i.simple(ctx, "uv tool install "+str(value))
	case manifest.MethodCargo:
		return i.simple(ctx, "cargo install "+str(value))
	case manifest.MethodGoTool:
		return i.simple(ctx, "go install "+str(value))
	case manifest.MethodSnap:
		return i.installSnap(ctx, value)
	case manifest.MethodFlatpak:
		return i.simple(ctx, "flatpak install -y flathub "+str(value))
	case manifest.MethodYay:
		return i.simple(ctx, "yay -S --noconfirm "+str(value))
	case manifest.MethodGhExtension:
		return i.installGhExtension(ctx, str(value))
	case manifest.MethodEget:
		return i.installEget(ctx, str(value))
	case manifest.MethodManual:
		return i.installManual(ctx, name, value)
	}
	return OutcomeSkipped, "unrecognized method"
}

// InstallBatch issues one invocation installing every queued value for a
// batchable method. Failure covers the whole batch; per-package outcomes
// within a failed batch are not distinguished.
func (i *Installer) InstallBatch(ctx context.Context, method manifest.Method, values []string) error {
	var cmd string
	switch method {
	case manifest.MethodBrew:
		cmd = fmt.Sprintf("%s install %s", i.brewBin, strings.Join(values, " "))
	case manifest.MethodCask:
		cmd = fmt.Sprintf("%s install --cask %s", i.brewBin, strings.Join(values, " "))
	case manifest.MethodApt:
		cmd = "sudo apt install -y " + strings.Join(values, " ")
	case manifest.MethodDnf:
		cmd = "sudo dnf install -y " + strings.Join(values, " ")
	default:
		return errors.Newf(errors.ErrMethodUnknown, "method %s is not batchable", method)
	}

	result := i.runner.Run(ctx, cmd)
	if !result.Ok() {
		return errors.Newf(errors.ErrInstallFailed, "batched %s install failed", method).
			WithDetail("exit", result.ExitCode)
	}
	return nil
}

// Tap registers one homebrew tap. Failures are reported, not fatal.
func (i *Installer) Tap(ctx context.Context, tap string) error {
	result := i.runner.Run(ctx, "brew tap "+tap)
	if !result.Ok() {
		return errors.Newf(errors.ErrCommandFailed, "brew tap %s failed", tap)
	}
	return nil
}

// RefreshIndex refreshes the system package index for Linux-family targets.
// Best effort: errors are logged, never propagated.
func (i *Installer) RefreshIndex(ctx context.Context, target string) {
	logger := logging.GetLogger("methods")
	switch target {
	case "ubuntu", "pop":
		if result := i.runner.Run(ctx, "sudo apt update"); !result.Ok() {
			logger.Warn().Int("exit", result.ExitCode).Msg("apt update failed")
		}
	case "fedora":
		// dnf check-update exits 100 when updates are available
		if result := i.runner.Run(ctx, "sudo dnf check-update"); result.ExitCode != 0 && result.ExitCode != 100 {
			logger.Warn().Int("exit", result.ExitCode).Msg("dnf check-update failed")
		}
	}
}

func (i *Installer) simple(ctx context.Context, cmd string) (Outcome, string) {
	if result := i.runner.Run(ctx, cmd); !result.Ok() {
		return OutcomeFailed, ""
	}
	return OutcomeInstalled, ""
}

func (i *Installer) installCask(ctx context.Context, cask string) (Outcome, string) {
	result := i.runner.Run(ctx, fmt.Sprintf("%s install --cask %s", i.brewBin, cask))
	if result.Ok() {
		return OutcomeInstalled, ""
	}
	if strings.Contains(result.Output(), caskConflictMarker) {
		return OutcomeSkipped, "app already present"
	}
	return OutcomeFailed, ""
}

func (i *Installer) installSnap(ctx context.Context, value manifest.Value) (Outcome, string) {
	sv, ok := value.(manifest.SnapValue)
	if !ok {
		sv = manifest.SnapValue{Name: str(value)}
	}
	cmd := "sudo snap install " + sv.Name
	if sv.Classic {
		cmd += " --classic"
	}
	return i.simple(ctx, cmd)
}

// installGhExtension checks authentication first: attempting an install
// while unauthenticated produces a confusing underlying failure, so the
// package is skipped instead.
func (i *Installer) installGhExtension(ctx context.Context, repo string) (Outcome, string) {
	if !i.runner.Run(ctx, "gh auth status").Ok() {
		return OutcomeSkipped, "gh not authenticated"
	}
	return i.simple(ctx, "gh extension install "+repo)
}

func (i *Installer) installEget(ctx context.Context, repo string) (Outcome, string) {
	if i.localBin != "" {
		if err := os.MkdirAll(i.localBin, 0755); err != nil {
			return OutcomeFailed, "cannot create " + i.localBin
		}
	}
	return i.simple(ctx, fmt.Sprintf("eget %s --to %s", repo, i.localBin))
}

func (i *Installer) installManual(ctx context.Context, name string, value manifest.Value) (Outcome, string) {
	mv, ok := value.(manifest.ManualValue)
	if !ok {
		return OutcomeSkipped, "malformed manual value"
	}

	switch mv.Type {
	case manifest.ManualScript:
		return i.runScript(ctx, mv)
	case manifest.ManualGitClone:
		return i.gitClone(ctx, mv)
	}
	return OutcomeSkipped, "unrecognized manual type"
}

// runScript downloads and executes an install script. Extra arguments are
// tokenized and requoted so manifest-authored quoting survives the shell.
func (i *Installer) runScript(ctx context.Context, mv manifest.ManualValue) (Outcome, string) {
	var cmd string
	if mv.Args != "" {
		tokens, err := shellquote.Split(mv.Args)
		if err != nil {
			return OutcomeFailed, "malformed script args"
		}
		cmd = fmt.Sprintf(`sh -c "$(curl -fsSL %s)" "" %s`, mv.URL, shellquote.Join(tokens...))
	} else {
		cmd = fmt.Sprintf("curl -fsSL %s | bash", mv.URL)
	}
	return i.simple(ctx, cmd)
}

func (i *Installer) gitClone(ctx context.Context, mv manifest.ManualValue) (Outcome, string) {
	dest := i.expand(mv.Dest)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return OutcomeFailed, "cannot create " + filepath.Dir(dest)
	}
	return i.simple(ctx, fmt.Sprintf("git clone %s %s", mv.URL, dest))
}

func str(value manifest.Value) string {
	if s, ok := value.(manifest.StringValue); ok {
		return string(s)
	}
	return ""
}
