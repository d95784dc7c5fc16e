package genconfig

// Message constants
const (
	MsgShort = "Print a config file with the default settings"
	MsgLong  = `Genconfig writes rig's default configuration as TOML. Redirect it to
the config file location to start customizing:`

	MsgExample = `  rig genconfig > ~/.config/rig/config.toml`
)
