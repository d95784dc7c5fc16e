package bootstrap

// Message constants
const (
	MsgShort = "Set up a fresh machine"
	MsgLong  = `Bootstrap installs the tools everything else depends on, then brings in
your dotfiles:
  - Homebrew (macOS only)
  - chezmoi
  - the Proton Pass CLI, which must be authenticated
  - your dotfiles repository, initialized and applied via chezmoi

Every step is a prerequisite for the next, so the first failure stops
the run. Run 'rig install' afterwards to install your packages.`

	MsgExample = `  # Interactive bootstrap with the configured dotfiles repo
  rig bootstrap

  # Non-interactive, explicit repo
  rig bootstrap --yes --repo https://github.com/you/.dotfiles.git

  # Also schedule a daily 'rig install' (macOS)
  rig bootstrap --schedule`

	MsgFlagRepo     = "Dotfiles repository to initialize chezmoi with"
	MsgFlagYes      = "Assume yes; skip confirmation prompts"
	MsgFlagSchedule = "Write a launchd agent that runs 'rig install' daily (macOS only)"
)
