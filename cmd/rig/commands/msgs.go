package commands

// Message constants
const (
	MsgRootShort = "A personal machine provisioning toolkit"
	MsgRootLong  = `rig provisions a machine from a versioned description of it: a package
manifest kept in your dotfiles repository, applied with chezmoi.

Run 'rig bootstrap' once on a fresh machine, then 'rig install' whenever
the manifest changes.`

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
)
