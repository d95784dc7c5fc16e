package install

import (
	"context"

	"github.com/arthur-debert/rig/pkg/execx"
	"github.com/arthur-debert/rig/pkg/install/methods"
	"github.com/arthur-debert/rig/pkg/install/state"
	"github.com/arthur-debert/rig/pkg/manifest"
	"github.com/arthur-debert/rig/pkg/paths"
	"github.com/arthur-debert/rig/pkg/platform"
)

// Options configures a full provisioning run
type Options struct {
	// Target overrides auto-detection when non-empty
	Target string
	// ManifestPath locates the package manifest
	ManifestPath string
	// Jobs bounds the secondary-phase worker pool; 0 means DefaultJobs
	Jobs int
	// BrewBin overrides the homebrew executable; empty means "brew"
	BrewBin string
	// Runner overrides command execution; nil means the system shell
	Runner execx.Runner
	// Reporter receives progress; nil discards it
	Reporter Reporter
}

// Run loads the manifest and executes a provisioning run. The returned
// error is reserved for prerequisite failures; package-level failures live
// in the report.
func Run(ctx context.Context, opts Options) (*Report, error) {
	runner := opts.Runner
	if runner == nil {
		runner = execx.NewShellRunner()
	}

	target := opts.Target
	if target == "" {
		target = platform.DetectTarget()
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	p, err := paths.New("")
	if err != nil {
		return nil, err
	}

	oracleOpts := []state.Option{state.WithAppDirs(p.ApplicationDirs())}
	installerOpts := []methods.Option{methods.WithLocalBin(p.LocalBin())}
	if opts.BrewBin != "" {
		installerOpts = append(installerOpts, methods.WithBrewBin(opts.BrewBin))
	}

	oracle := state.NewOracle(runner, state.NewCache(), oracleOpts...)
	installer := methods.NewInstaller(runner, installerOpts...)

	orch := NewOrchestrator(runner, installer, oracle, opts.Reporter, opts.Jobs)
	return orch.Run(ctx, m, target), nil
}
