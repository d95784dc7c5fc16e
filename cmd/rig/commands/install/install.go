// Package install implements the install command.
package install

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/rig/pkg/config"
	"github.com/arthur-debert/rig/pkg/display"
	"github.com/arthur-debert/rig/pkg/expand"
	"github.com/arthur-debert/rig/pkg/install"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/paths"
	"github.com/arthur-debert/rig/pkg/platform"
)

// NewCommand creates the install command
func NewCommand() *cobra.Command {
	var (
		manifestPath string
		jobs         int
	)

	cmd := &cobra.Command{
		Use:     "install [target]",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.install")

			p, err := paths.New("")
			if err != nil {
				return err
			}
			cfg, err := config.Load(p.ConfigFile())
			if err != nil {
				return err
			}

			target := ""
			if len(args) > 0 {
				target = args[0]
			} else {
				target = platform.DetectTarget()
			}

			path := manifestPath
			if path == "" {
				path = cfg.Install.Manifest
			}
			if path == "" {
				path = p.ManifestFile()
			}
			path = expand.ExpandWith(path, p.Home(), os.Getenv)

			if jobs == 0 {
				jobs = cfg.Install.Jobs
			}

			logger.Info().
				Str("target", target).
				Str("manifest", path).
				Int("jobs", jobs).
				Msg("Starting install")

			console := display.NewConsole(os.Stdout)
			console.Header(target)

			// Package-level failures are reported inline; only
			// prerequisite failures reach the exit code.
			_, err = install.Run(cmd.Context(), install.Options{
				Target:       target,
				ManifestPath: path,
				Jobs:         jobs,
				BrewBin:      cfg.Homebrew.Bin,
				Reporter:     console,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", MsgFlagManifest)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, MsgFlagJobs)

	return cmd
}
