// Package paths centralizes filesystem locations used by rig.
//
// All locations follow the XDG base directory spec (via adrg/xdg) so they
// can be redirected in tests by setting XDG_* environment variables.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths resolves the well-known locations rig reads and writes
type Paths struct {
	home string
}

// New creates a Paths instance rooted at the current user's home directory.
// An explicit home overrides detection (used in tests).
func New(home string) (*Paths, error) {
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		home = h
	}
	return &Paths{home: home}, nil
}

// Home returns the user's home directory
func (p *Paths) Home() string {
	return p.home
}

// ConfigFile returns the path of rig's own config file
func (p *Paths) ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "rig", "config.toml")
}

// StateDir returns the directory for logs and other run state
func (p *Paths) StateDir() string {
	return filepath.Join(xdg.StateHome, "rig")
}

// ChezmoiSourceDir returns the chezmoi source directory, where the dotfiles
// repo is checked out
func (p *Paths) ChezmoiSourceDir() string {
	return filepath.Join(xdg.DataHome, "chezmoi")
}

// ManifestFile returns the default location of the package manifest. The
// manifest lives in the dotfiles repo itself so it is versioned alongside
// the configuration it provisions.
func (p *Paths) ManifestFile() string {
	return filepath.Join(p.ChezmoiSourceDir(), "packages.json")
}

// LocalBin returns the user-local binary directory used by eget and the
// chezmoi bootstrap installer
func (p *Paths) LocalBin() string {
	return filepath.Join(p.home, ".local", "bin")
}

// ApplicationDirs returns the macOS application bundle directories checked
// by the cask installed-state oracle
func (p *Paths) ApplicationDirs() []string {
	return []string{
		"/Applications",
		filepath.Join(p.home, "Applications"),
	}
}

// LaunchAgentsDir returns the per-user launchd agents directory
func (p *Paths) LaunchAgentsDir() string {
	return filepath.Join(p.home, "Library", "LaunchAgents")
}
