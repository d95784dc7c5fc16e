package config

import (
	"io"

	gotoml "github.com/pelletier/go-toml/v2"
)

// Generate writes the effective default configuration as TOML, as a
// starting point for a user config file
func Generate(w io.Writer) error {
	enc := gotoml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(Default())
}
