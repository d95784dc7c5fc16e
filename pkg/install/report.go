package install

import (
	"sync"

	"github.com/arthur-debert/rig/pkg/install/methods"
	"github.com/arthur-debert/rig/pkg/manifest"
)

// PackageResult is one package's terminal state for the run
type PackageResult struct {
	Name    string
	Method  manifest.Method
	Outcome methods.Outcome
	Note    string
}

// Report aggregates the outcomes of a run. It is safe for concurrent
// recording; the secondary phase records from worker goroutines.
type Report struct {
	Target string

	mu       sync.Mutex
	results  []PackageResult
	warnings []string
}

func (r *Report) record(res PackageResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *Report) warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

// Results returns every recorded package result
func (r *Report) Results() []PackageResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PackageResult, len(r.results))
	copy(out, r.results)
	return out
}

// Warnings returns the non-fatal problems recorded during the run
func (r *Report) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Processed returns the number of packages handled
func (r *Report) Processed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// Count returns how many packages ended in the given outcome
func (r *Report) Count(outcome methods.Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, res := range r.results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Outcome returns the recorded outcome for a package name
func (r *Report) Outcome(name string) (methods.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		if res.Name == name {
			return res.Outcome, true
		}
	}
	return "", false
}
