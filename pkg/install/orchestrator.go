// Package install drives a provisioning run: given the manifest and a
// target, it determines what is already present, batches system-method
// installs into single invocations, parallelizes secondary installs, and
// aggregates a report.
//
// Individual package failures never abort the run; only prerequisite
// failures (an unreadable manifest, for instance) surface as errors.
package install

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/rig/pkg/install/methods"
	"github.com/arthur-debert/rig/pkg/install/state"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/manifest"
	"github.com/arthur-debert/rig/pkg/platform"

	"github.com/arthur-debert/rig/pkg/execx"
)

// DefaultJobs bounds the secondary-phase worker pool. Downstream tools are
// network- and rate-limit-bound, so a small ceiling wins over raw
// parallelism.
const DefaultJobs = 4

// Orchestrator runs the two-phase install algorithm
type Orchestrator struct {
	runner    execx.Runner
	installer *methods.Installer
	oracle    *state.Oracle
	reporter  Reporter
	jobs      int
}

// NewOrchestrator wires an orchestrator. A nil reporter discards progress;
// jobs < 1 falls back to DefaultJobs.
func NewOrchestrator(runner execx.Runner, installer *methods.Installer, oracle *state.Oracle, reporter Reporter, jobs int) *Orchestrator {
	if reporter == nil {
		reporter = NullReporter{}
	}
	if jobs < 1 {
		jobs = DefaultJobs
	}
	return &Orchestrator{
		runner:    runner,
		installer: installer,
		oracle:    oracle,
		reporter:  reporter,
		jobs:      jobs,
	}
}

// queued is one pending install for a batchable method
type queued struct {
	name  string
	value string
}

// Run executes a full provisioning run for the given target
func (o *Orchestrator) Run(ctx context.Context, m *manifest.Manifest, target string) *Report {
	logger := logging.GetLogger("install")
	report := &Report{Target: target}

	o.processTaps(ctx, m.BrewTaps)

	if platform.IsLinuxFamily(target) {
		o.installer.RefreshIndex(ctx, target)
	}

	items := m.ForTarget(target)
	logger.Info().Str("target", target).Int("packages", len(items)).Msg("Starting install run")

	var system, secondary []manifest.Selected
	for _, item := range items {
		if item.Config.HasSystemMethod() {
			system = append(system, item)
		} else {
			secondary = append(secondary, item)
		}
	}

	o.runSystemPhase(ctx, system, report)
	o.runSecondaryPhase(ctx, secondary, report)

	o.reporter.Summary(report.Processed())
	logger.Info().
		Int("processed", report.Processed()).
		Int("installed", report.Count(methods.OutcomeInstalled)).
		Int("failed", report.Count(methods.OutcomeFailed)).
		Msg("Install run finished")
	return report
}

// processTaps registers brew taps once per run, before any package work.
// Individual tap failures are tolerated.
func (o *Orchestrator) processTaps(ctx context.Context, taps []string) {
	if len(taps) == 0 || !o.runner.LookPath("brew") {
		return
	}
	o.reporter.Section("Homebrew Taps")
	for _, tap := range taps {
		if err := o.installer.Tap(ctx, tap); err != nil {
			o.reporter.Status(tap, methods.OutcomeFailed, "")
		} else {
			o.reporter.Status(tap, methods.OutcomeAlreadyPresent, "")
		}
	}
}

// runSystemPhase checks every system-method package, then issues at most one
// batched install per method. The phase is sequential: batching already
// amortizes the cost.
func (o *Orchestrator) runSystemPhase(ctx context.Context, items []manifest.Selected, report *Report) {
	o.reporter.Section("System Packages")

	toInstall := make(map[manifest.Method][]queued)
	for _, item := range items {
		method, value, _ := item.Config.First(manifest.SystemMethods)
		if o.oracle.IsInstalled(ctx, item.Name, method, value) {
			report.record(PackageResult{Name: item.Name, Method: method, Outcome: methods.OutcomeAlreadyPresent})
			o.reporter.Status(item.Name, methods.OutcomeAlreadyPresent, "")
			continue
		}
		sv, _ := value.(manifest.StringValue)
		toInstall[method] = append(toInstall[method], queued{name: item.Name, value: string(sv)})
	}

	for _, method := range manifest.SystemMethods {
		batch := toInstall[method]
		if len(batch) == 0 {
			continue
		}
		values := make([]string, len(batch))
		for i, q := range batch {
			values[i] = q.value
		}
		if err := o.installer.InstallBatch(ctx, method, values); err != nil {
			// One warning for the whole batch; member outcomes are not
			// distinguished.
			o.reporter.Warning(fmt.Sprintf("Failed to install some %s packages", method))
			report.warn(fmt.Sprintf("batched %s install failed (%s)", method, joinNames(batch)))
			for _, q := range batch {
				report.record(PackageResult{Name: q.name, Method: method, Outcome: methods.OutcomeFailed, Note: "batched install failed"})
			}
			continue
		}
		for _, q := range batch {
			report.record(PackageResult{Name: q.name, Method: method, Outcome: methods.OutcomeInstalled})
			o.reporter.Status(q.name, methods.OutcomeInstalled, "")
		}
	}
}

// runSecondaryPhase handles the remaining packages, one install invocation
// each, through a bounded worker pool. It returns only after every worker
// has finished.
func (o *Orchestrator) runSecondaryPhase(ctx context.Context, items []manifest.Selected, report *Report) {
	o.reporter.Section("Secondary Packages")

	tasks := make(chan manifest.Selected)
	var wg sync.WaitGroup

	for w := 0; w < o.jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				res := o.installOne(ctx, item)
				report.record(res)
				o.reporter.Status(res.Name, res.Outcome, res.Note)
			}
		}()
	}

	for _, item := range items {
		tasks <- item
	}
	close(tasks)
	wg.Wait()
}

// installOne resolves the first applicable secondary method for a package,
// checks presence, and installs when absent. Later methods in the config are
// never attempted, even when the chosen one fails.
func (o *Orchestrator) installOne(ctx context.Context, item manifest.Selected) PackageResult {
	method, value, ok := item.Config.First(manifest.SecondaryMethods)
	if !ok {
		return PackageResult{Name: item.Name, Outcome: methods.OutcomeSkipped, Note: "no applicable method"}
	}
	if o.oracle.IsInstalled(ctx, item.Name, method, value) {
		return PackageResult{Name: item.Name, Method: method, Outcome: methods.OutcomeAlreadyPresent}
	}
	outcome, note := o.installer.Install(ctx, item.Name, method, value)
	return PackageResult{Name: item.Name, Method: method, Outcome: outcome, Note: note}
}

func joinNames(batch []queued) string {
	names := make([]string, len(batch))
	for i, q := range batch {
		names[i] = q.name
	}
	return strings.Join(names, ", ")
}
