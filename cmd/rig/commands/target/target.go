// Package target implements the target command.
package target

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rig/pkg/platform"
)

// NewCommand creates the target command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "target",
		Short:   MsgShort,
		Long:    MsgLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(platform.DetectTarget())
		},
	}
}
