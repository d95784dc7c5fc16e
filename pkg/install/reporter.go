package install

import "github.com/arthur-debert/rig/pkg/install/methods"

// Reporter receives run progress for display. The orchestrator reports
// through this interface so rendering stays out of the install logic;
// pkg/display provides the terminal implementation.
//
// Status may be called from multiple goroutines during the secondary phase.
type Reporter interface {
	// Section announces a new phase of the run
	Section(title string)
	// Status reports one package's terminal state. note, when non-empty,
	// explains a skip or failure.
	Status(name string, outcome methods.Outcome, note string)
	// Warning reports a non-fatal problem, such as a failed batch
	Warning(msg string)
	// Summary closes the run with the processed package count
	Summary(processed int)
}

// NullReporter discards all progress
type NullReporter struct{}

func (NullReporter) Section(string)                         {}
func (NullReporter) Status(string, methods.Outcome, string) {}
func (NullReporter) Warning(string)                         {}
func (NullReporter) Summary(int)                            {}
