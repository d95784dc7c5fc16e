package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStylesLoad(t *testing.T) {
	// init() already loaded the embedded sheet
	for _, name := range []string{"Header", "Section", "Summary", "Warning", "Error", "Muted"} {
		assert.Contains(t, Names(), name)
	}
}

func TestGetUnknownNameFallsBack(t *testing.T) {
	// Unknown names must render unstyled rather than crash
	s := Get("NoSuchStyle")
	assert.Equal(t, "plain", s.Render("plain"))
}

func TestLoadFromData(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, LoadFromData(embeddedStyles))
	})

	err := LoadFromData([]byte(`
colors:
  accent:
    light: "21"
    dark: "45"
styles:
  Custom:
    bold: true
    foreground: accent
`))
	require.NoError(t, err)
	assert.Contains(t, Names(), "Custom")
}

func TestLoadFromDataRejectsBadYAML(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, LoadFromData(embeddedStyles))
	})
	assert.Error(t, LoadFromData([]byte("styles: [not a map")))
}
