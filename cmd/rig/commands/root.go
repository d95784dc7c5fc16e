// Package commands builds rig's command tree.
package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rig/cmd/rig/commands/bootstrap"
	"github.com/arthur-debert/rig/cmd/rig/commands/genconfig"
	"github.com/arthur-debert/rig/cmd/rig/commands/install"
	"github.com/arthur-debert/rig/cmd/rig/commands/target"
	topicscmd "github.com/arthur-debert/rig/cmd/rig/commands/topics"
	helpdocs "github.com/arthur-debert/rig/cmd/rig/topics"
	"github.com/arthur-debert/rig/internal/version"
	"github.com/arthur-debert/rig/pkg/cobrax/topics"
	"github.com/arthur-debert/rig/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "rig",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but exit nonzero
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	// The topics help system installs its own help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(install.NewCommand())
	rootCmd.AddCommand(bootstrap.NewCommand())
	rootCmd.AddCommand(target.NewCommand())
	rootCmd.AddCommand(genconfig.NewCommand())
	rootCmd.AddCommand(topicscmd.NewCommand())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topics are embedded in the binary, so this cannot fail outside of
	// a packaging bug; fall back to cobra's stock help if it does.
	_, _ = topics.Initialize(rootCmd, helpdocs.Files, topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("rig version %s\n", version.Version)
			cmd.Printf("  commit: %s\n", version.Commit)
			cmd.Printf("  built:  %s\n", version.Date)
		},
	}
}
