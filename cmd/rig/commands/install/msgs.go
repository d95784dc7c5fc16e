package install

// Message constants
const (
	MsgShort = "Install packages from the manifest"
	MsgLong  = `Install reads the package manifest and installs everything configured
for this machine:
  - Packages already installed are detected and left alone
  - System packages (brew, cask, apt, dnf) are installed in one batch
  - The remaining methods run in parallel, a few at a time

The target is detected from the OS unless given explicitly. A failed
package never stops the run; failures are reported at the end.`

	MsgExample = `  # Install everything for this machine
  rig install

  # Pretend to be another target
  rig install fedora

  # Use a different manifest
  rig install --manifest ~/packages.json

  # Serialize installs
  rig install --jobs 1`

	MsgFlagManifest = "Path to the package manifest (default: packages.json in the chezmoi source directory)"
	MsgFlagJobs     = "Maximum parallel installs for non-batched methods"
)
