// Package genconfig implements the genconfig command.
package genconfig

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rig/pkg/config"
)

// NewCommand creates the genconfig command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Generate(cmd.OutOrStdout())
		},
	}
}
