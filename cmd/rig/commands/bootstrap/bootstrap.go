// Package bootstrap implements the bootstrap command.
package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/rig/pkg/bootstrap"
	"github.com/arthur-debert/rig/pkg/config"
	"github.com/arthur-debert/rig/pkg/display"
	"github.com/arthur-debert/rig/pkg/execx"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/paths"
	"github.com/arthur-debert/rig/pkg/platform"
)

// NewCommand creates the bootstrap command
func NewCommand() *cobra.Command {
	var (
		repo      string
		assumeYes bool
		schedule  bool
	)

	cmd := &cobra.Command{
		Use:     "bootstrap",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.bootstrap")

			p, err := paths.New("")
			if err != nil {
				return err
			}
			cfg, err := config.Load(p.ConfigFile())
			if err != nil {
				return err
			}

			if repo == "" {
				repo = cfg.Bootstrap.Repo
			}
			target := platform.DetectTarget()
			console := display.NewConsole(os.Stdout)
			console.Header(target)

			b := bootstrap.New(execx.NewShellRunner(), bootstrap.Options{
				Repo:       repo,
				Target:     target,
				ChezmoiDir: p.ChezmoiSourceDir(),
				LocalBin:   p.LocalBin(),
				AssumeYes:  assumeYes,
				Reporter:   console,
			})
			if err := b.Run(cmd.Context()); err != nil {
				return err
			}

			if schedule {
				if target != "darwin" {
					console.Warning("--schedule is only supported on macOS; skipping")
					return nil
				}
				exe, err := os.Executable()
				if err != nil {
					return err
				}
				logFile := filepath.Join(p.StateDir(), "refresh.log")
				path, err := bootstrap.WriteRefreshAgent(p.LaunchAgentsDir(), exe, logFile)
				if err != nil {
					return err
				}
				logger.Info().Str("plist", path).Msg("Wrote refresh agent")
				console.Section("Scheduled daily 'rig install' via " + path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", MsgFlagRepo)
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().BoolVar(&schedule, "schedule", false, MsgFlagSchedule)

	return cmd
}
