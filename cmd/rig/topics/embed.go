// Package topics embeds rig's help topic files so the binary is
// self-documenting.
package topics

import "embed"

//go:embed *.md
var Files embed.FS
