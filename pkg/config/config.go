// Package config loads rig's own settings: built-in defaults, then the
// user's config file, then RIG_* environment overrides, each layer
// overriding the previous.
package config

import (
	_ "embed"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/rig/pkg/errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// Config holds rig's settings
type Config struct {
	Install   InstallConfig   `koanf:"install" toml:"install"`
	Homebrew  HomebrewConfig  `koanf:"homebrew" toml:"homebrew"`
	Bootstrap BootstrapConfig `koanf:"bootstrap" toml:"bootstrap"`
}

// InstallConfig configures the package installer
type InstallConfig struct {
	Jobs     int    `koanf:"jobs" toml:"jobs"`
	Manifest string `koanf:"manifest" toml:"manifest"`
}

// HomebrewConfig configures how homebrew is invoked
type HomebrewConfig struct {
	Bin string `koanf:"bin" toml:"bin"`
}

// BootstrapConfig configures the bootstrap flow
type BootstrapConfig struct {
	Repo string `koanf:"repo" toml:"repo"`
}

// Load reads configuration, merging defaults, the config file at path (when
// it exists) and RIG_* environment variables. RIG_INSTALL_JOBS=8 overrides
// install.jobs, and so on.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawBytes(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load built-in defaults")
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
			}
		}
	}

	if err := k.Load(env.Provider("RIG_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "RIG_")), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	return &cfg, nil
}

// Default returns the built-in defaults without touching disk or environment
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded defaults always parse; reaching this is a bug.
		panic(err)
	}
	return cfg
}

// rawBytesProvider feeds embedded bytes into koanf
type rawBytesProvider struct {
	bytes []byte
}

func rawBytes(b []byte) *rawBytesProvider {
	return &rawBytesProvider{bytes: b}
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider supports only ReadBytes")
}
