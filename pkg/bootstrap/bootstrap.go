// Package bootstrap brings a fresh machine to the point where the package
// installer and dotfiles can run: it installs Homebrew (macOS), chezmoi and
// the Proton Pass CLI, verifies secrets authentication, then initializes
// and applies the dotfiles repository.
//
// Unlike package installs, these are prerequisites: any failure here aborts
// with a fatal error, since nothing downstream can work without them.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/arthur-debert/rig/pkg/execx"
	"github.com/arthur-debert/rig/pkg/install/methods"
	"github.com/arthur-debert/rig/pkg/logging"
)

// Reporter receives bootstrap progress. The display package's Console
// satisfies it.
type Reporter interface {
	Section(title string)
	Status(name string, outcome methods.Outcome, note string)
}

type nullReporter struct{}

func (nullReporter) Section(string)                         {}
func (nullReporter) Status(string, methods.Outcome, string) {}

// Options configures a bootstrap run
type Options struct {
	// Repo is the dotfiles repository to initialize chezmoi with
	Repo string
	// Target is the detected target identifier; darwin gets Homebrew
	Target string
	// ChezmoiDir is the chezmoi source directory
	ChezmoiDir string
	// LocalBin receives the chezmoi binary on non-darwin hosts
	LocalBin string
	// AssumeYes skips interactive confirmations
	AssumeYes bool
	// Confirm asks the user before mutating steps; nil uses an
	// interactive terminal prompt
	Confirm func(prompt string) (bool, error)
	// Reporter receives progress; nil discards it
	Reporter Reporter
}

// Bootstrapper executes the bootstrap sequence
type Bootstrapper struct {
	runner   execx.Runner
	opts     Options
	reporter Reporter
}

// New creates a Bootstrapper
func New(runner execx.Runner, opts Options) *Bootstrapper {
	if opts.Reporter == nil {
		opts.Reporter = nullReporter{}
	}
	if opts.Confirm == nil {
		opts.Confirm = askConfirm
	}
	return &Bootstrapper{runner: runner, opts: opts, reporter: opts.Reporter}
}

// Run executes the full bootstrap sequence. The first failing prerequisite
// aborts the run.
func (b *Bootstrapper) Run(ctx context.Context) error {
	logger := logging.GetLogger("bootstrap")
	logger.Info().Str("target", b.opts.Target).Msg("Starting bootstrap")

	b.reporter.Section("Prerequisites")
	if err := b.EnsureHomebrew(ctx); err != nil {
		return err
	}
	if err := b.EnsureChezmoi(ctx); err != nil {
		return err
	}
	if err := b.EnsurePassCLI(ctx); err != nil {
		return err
	}

	b.reporter.Section("Authentication")
	if err := b.CheckAuth(ctx); err != nil {
		return err
	}

	b.reporter.Section("Dotfiles")
	if err := b.InitDotfiles(ctx); err != nil {
		return err
	}
	if err := b.ApplyDotfiles(ctx); err != nil {
		return err
	}

	logger.Info().Msg("Bootstrap finished")
	return nil
}

// EnsureHomebrew installs Homebrew on darwin hosts when missing
func (b *Bootstrapper) EnsureHomebrew(ctx context.Context) error {
	if b.opts.Target != "darwin" {
		return nil
	}
	if b.runner.LookPath("brew") {
		b.reporter.Status("Homebrew", methods.OutcomeAlreadyPresent, "")
		return nil
	}
	if err := b.confirm("Install Homebrew?"); err != nil {
		return err
	}
	result := b.runner.Run(ctx,
		`/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`)
	if !result.Ok() {
		b.reporter.Status("Homebrew", methods.OutcomeFailed, "")
		return errors.New(errors.ErrBootstrapTool, "failed to install Homebrew")
	}
	b.reporter.Status("Homebrew", methods.OutcomeInstalled, "")
	return nil
}

// EnsureChezmoi installs chezmoi when missing: via brew on darwin, via the
// upstream installer into LocalBin elsewhere
func (b *Bootstrapper) EnsureChezmoi(ctx context.Context) error {
	if b.runner.LookPath("chezmoi") {
		b.reporter.Status("chezmoi", methods.OutcomeAlreadyPresent, "")
		return nil
	}
	if err := b.confirm("Install chezmoi?"); err != nil {
		return err
	}

	var result execx.Result
	if b.opts.Target == "darwin" {
		result = b.runner.Run(ctx, "brew install chezmoi")
	} else {
		result = b.runner.Run(ctx,
			fmt.Sprintf(`sh -c "$(curl -fsLS get.chezmoi.io)" -- -b %q`, b.opts.LocalBin))
		// The fresh binary must be reachable for the steps that follow
		prependPath(b.opts.LocalBin)
	}
	if !result.Ok() {
		b.reporter.Status("chezmoi", methods.OutcomeFailed, "")
		return errors.New(errors.ErrBootstrapTool, "failed to install chezmoi")
	}
	b.reporter.Status("chezmoi", methods.OutcomeInstalled, "")
	return nil
}

// EnsurePassCLI installs the Proton Pass CLI when missing
func (b *Bootstrapper) EnsurePassCLI(ctx context.Context) error {
	if b.runner.LookPath("pass-cli") {
		b.reporter.Status("Proton Pass CLI", methods.OutcomeAlreadyPresent, "")
		return nil
	}
	if err := b.confirm("Install the Proton Pass CLI?"); err != nil {
		return err
	}

	var result execx.Result
	if b.opts.Target == "darwin" {
		b.runner.Run(ctx, "brew tap protonpass/tap")
		result = b.runner.Run(ctx, "brew install protonpass/tap/pass-cli")
	} else {
		result = b.runner.Run(ctx, "curl -fsSL https://proton.me/download/pass-cli/install.sh | bash")
	}
	if !result.Ok() {
		b.reporter.Status("Proton Pass CLI", methods.OutcomeFailed, "")
		return errors.New(errors.ErrBootstrapTool, "failed to install the Proton Pass CLI")
	}
	b.reporter.Status("Proton Pass CLI", methods.OutcomeInstalled, "")
	return nil
}

// CheckAuth verifies the secrets CLI is authenticated. Templates in the
// dotfiles repo read secrets during apply, so an unauthenticated CLI makes
// the rest of the run meaningless.
func (b *Bootstrapper) CheckAuth(ctx context.Context) error {
	if !b.runner.Run(ctx, "pass-cli vault list").Ok() {
		b.reporter.Status("Proton Pass CLI authenticated", methods.OutcomeFailed, "run: pass-cli login")
		return errors.New(errors.ErrAuthRequired,
			"Proton Pass CLI is not authenticated; run `pass-cli login` and retry")
	}
	b.reporter.Status("Proton Pass CLI authenticated", methods.OutcomeAlreadyPresent, "")
	return nil
}

// InitDotfiles initializes chezmoi with the dotfiles repo unless the source
// directory is already a checkout
func (b *Bootstrapper) InitDotfiles(ctx context.Context) error {
	if isDir(filepath.Join(b.opts.ChezmoiDir, ".git")) {
		b.reporter.Status("Dotfiles already initialized", methods.OutcomeAlreadyPresent, "")
		return nil
	}
	if !b.runner.Run(ctx, "chezmoi init "+b.opts.Repo).Ok() {
		b.reporter.Status("chezmoi init", methods.OutcomeFailed, "")
		return errors.Newf(errors.ErrBootstrapTool, "chezmoi init %s failed", b.opts.Repo)
	}
	b.reporter.Status("chezmoi init", methods.OutcomeInstalled, "")
	return nil
}

// ApplyDotfiles applies the dotfiles, streaming chezmoi's own progress
// output to the user
func (b *Bootstrapper) ApplyDotfiles(ctx context.Context) error {
	if err := b.confirm("Apply dotfiles now?"); err != nil {
		return err
	}
	if !b.runner.RunStreaming(ctx, "chezmoi apply -v").Ok() {
		b.reporter.Status("chezmoi apply", methods.OutcomeFailed, "")
		return errors.New(errors.ErrBootstrapTool, "chezmoi apply failed")
	}
	b.reporter.Status("chezmoi apply", methods.OutcomeInstalled, "")
	return nil
}

// confirm asks before a mutating step; AssumeYes short-circuits. A declined
// prompt aborts bootstrap: every step here is a prerequisite for the next.
func (b *Bootstrapper) confirm(prompt string) error {
	if b.opts.AssumeYes {
		return nil
	}
	ok, err := b.opts.Confirm(prompt)
	if err != nil {
		return errors.Wrap(err, errors.ErrBootstrapTool, "confirmation failed")
	}
	if !ok {
		return errors.Newf(errors.ErrBootstrapTool, "aborted: %s declined", prompt)
	}
	return nil
}

func askConfirm(prompt string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: prompt, Default: true}, &ok)
	return ok, err
}

func prependPath(dir string) {
	if dir == "" {
		return
	}
	_ = os.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
