package display

import (
	"strings"
	"testing"

	"github.com/arthur-debert/rig/pkg/install"
	"github.com/arthur-debert/rig/pkg/install/methods"
	"github.com/arthur-debert/rig/pkg/ui"
	"github.com/stretchr/testify/assert"
)

// Console must satisfy the orchestrator's Reporter interface
var _ install.Reporter = (*Console)(nil)

func TestConsolePlainOutput(t *testing.T) {
	var buf strings.Builder
	c := NewConsoleWriter(&buf, ui.FormatText)

	c.Header("darwin")
	c.Section("System Packages")
	c.Status("ripgrep", methods.OutcomeAlreadyPresent, "")
	c.Status("fzf", methods.OutcomeInstalled, "")
	c.Status("gh-dash", methods.OutcomeSkipped, "gh not authenticated")
	c.Status("bat", methods.OutcomeFailed, "")
	c.Warning("Failed to install some apt packages")
	c.Summary(4)

	out := buf.String()
	assert.Contains(t, out, "target: darwin")
	assert.Contains(t, out, "System Packages")
	assert.Contains(t, out, "  [ok] ripgrep")
	assert.Contains(t, out, "  [done] fzf")
	assert.Contains(t, out, "  [skip] gh-dash (gh not authenticated)")
	assert.Contains(t, out, "  [fail] bat")
	assert.Contains(t, out, "Warning: Failed to install some apt packages")
	assert.Contains(t, out, "Processed 4 packages")
}

func TestConsolePlainOutputHasNoEscapes(t *testing.T) {
	var buf strings.Builder
	c := NewConsoleWriter(&buf, ui.FormatText)

	c.Status("ripgrep", methods.OutcomeAlreadyPresent, "")
	assert.NotContains(t, buf.String(), "\x1b[")
}
