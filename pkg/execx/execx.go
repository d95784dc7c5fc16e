// Package execx runs external commands for rig.
//
// Everything rig provisions happens through other tools (brew, apt, chezmoi,
// gh, ...). This package is the single process boundary: a Runner executes a
// shell command line and reports exit status plus captured output. Code that
// needs to react to command results takes a Runner so tests can substitute
// the scripted fake in fake.go.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/arthur-debert/rig/pkg/logging"
)

// Result holds the outcome of one external command
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the command exited zero
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Output returns combined stdout and stderr, used for matching benign
// failure markers in tool output
func (r Result) Output() string {
	return r.Stdout + r.Stderr
}

// Runner executes external commands
type Runner interface {
	// Run executes a shell command line, capturing output
	Run(ctx context.Context, command string) Result
	// RunStreaming executes a shell command line with stdout/stderr
	// inherited from the current process (used for chezmoi apply, whose
	// progress output should reach the user directly)
	RunStreaming(ctx context.Context, command string) Result
	// LookPath reports whether an executable is present on PATH
	LookPath(name string) bool
}

// ShellRunner runs commands through the system shell
type ShellRunner struct{}

// NewShellRunner creates a Runner backed by `sh -c`
func NewShellRunner() *ShellRunner {
	return &ShellRunner{}
}

func (s *ShellRunner) Run(ctx context.Context, command string) Result {
	logging.LogCommand(command)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return Result{
		ExitCode: exitCode(err),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}

func (s *ShellRunner) RunStreaming(ctx context.Context, command string) Result {
	logging.LogCommand(command)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	return Result{ExitCode: exitCode(err)}
}

func (s *ShellRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// exitCode maps an exec error to a shell-style exit code. A command that
// could not be started at all reports 127, like the shell would.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 127
}
