// Package topics implements the topics command, a shortcut for
// "help topics".
package topics

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the topics command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgShort,
		Long:    MsgLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, helpCmd := range cmd.Root().Commands() {
				if helpCmd.Name() == "help" && helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return cmd.Help()
		},
	}
}
