// Package display renders run progress to the terminal. It implements the
// install package's Reporter interface.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arthur-debert/rig/pkg/install/methods"
	"github.com/arthur-debert/rig/pkg/style"
	"github.com/arthur-debert/rig/pkg/ui"
	"github.com/arthur-debert/rig/pkg/ui/output/styles"
)

// Console writes status lines, section headers and the closing summary.
// Status may be called concurrently by the secondary-phase workers, so all
// writes go through one mutex.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	colored bool
}

// NewConsole creates a Console with format auto-detection on f
func NewConsole(f *os.File) *Console {
	return NewConsoleWriter(f, ui.DetectFormat(f))
}

// NewConsoleWriter creates a Console with an explicit format, for tests and
// redirection
func NewConsoleWriter(w io.Writer, format ui.Format) *Console {
	return &Console{
		out:     w,
		colored: format == ui.FormatTerminal,
	}
}

// Header announces the run and its resolved target
func (c *Console) Header(target string) {
	c.print(c.styled("Header", fmt.Sprintf("rig (target: %s)", target)))
}

func (c *Console) Section(title string) {
	c.print(c.styled("Section", title))
}

func (c *Console) Status(name string, outcome methods.Outcome, note string) {
	c.print(style.RenderStatus(statusFor(outcome), name, note, c.colored))
}

func (c *Console) Warning(msg string) {
	c.print(c.styled("Warning", "  Warning: "+msg))
}

func (c *Console) Summary(processed int) {
	c.print(c.styled("Summary", fmt.Sprintf("Processed %d packages", processed)))
}

func (c *Console) print(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, line)
}

func (c *Console) styled(name, text string) string {
	if !c.colored {
		return text
	}
	return styles.Get(name).Render(text)
}

func statusFor(outcome methods.Outcome) style.Status {
	switch outcome {
	case methods.OutcomeAlreadyPresent:
		return style.StatusOK
	case methods.OutcomeInstalled:
		return style.StatusDone
	case methods.OutcomeSkipped:
		return style.StatusSkip
	case methods.OutcomeFailed:
		return style.StatusFail
	}
	return style.StatusSkip
}
