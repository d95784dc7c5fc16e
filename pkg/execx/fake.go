package execx

import (
	"context"
	"strings"
	"sync"
)

// FakeRunner is a scripted Runner for tests. Commands are matched against
// scripted responses by exact command line first, then by prefix. Unscripted
// commands succeed with empty output.
//
// FakeRunner is safe for concurrent use; the install orchestrator runs
// secondary installs from multiple goroutines.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Result
	prefixes  []prefixResponse
	commands  []string
	path      map[string]bool
}

type prefixResponse struct {
	prefix string
	result Result
}

// NewFakeRunner creates an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]Result),
		path:      make(map[string]bool),
	}
}

// Script registers a response for an exact command line
func (f *FakeRunner) Script(command string, result Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = result
	return f
}

// ScriptPrefix registers a response for any command line starting with prefix
func (f *FakeRunner) ScriptPrefix(prefix string, result Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes = append(f.prefixes, prefixResponse{prefix: prefix, result: result})
	return f
}

// PutOnPath marks an executable name as present on the search path
func (f *FakeRunner) PutOnPath(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.path[n] = true
	}
	return f
}

func (f *FakeRunner) Run(_ context.Context, command string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, command)

	if r, ok := f.responses[command]; ok {
		return r
	}
	for _, p := range f.prefixes {
		if strings.HasPrefix(command, p.prefix) {
			return p.result
		}
	}
	return Result{}
}

func (f *FakeRunner) RunStreaming(ctx context.Context, command string) Result {
	return f.Run(ctx, command)
}

func (f *FakeRunner) LookPath(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path[name]
}

// Commands returns every command line executed so far, in order
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}

// CommandsMatching returns executed command lines containing substr
func (f *FakeRunner) CommandsMatching(substr string) []string {
	var out []string
	for _, c := range f.Commands() {
		if strings.Contains(c, substr) {
			out = append(out, c)
		}
	}
	return out
}
