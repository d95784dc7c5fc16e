package target

// Message constants
const (
	MsgShort = "Print the detected target"
	MsgLong  = `Target prints the identifier rig uses to select manifest entries for
this machine: "darwin" on macOS, the os-release ID (ubuntu, fedora,
arch, ...) on Linux.`
)
