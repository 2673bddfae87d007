// Package config loads the optional pascal.toml project file that
// overrides the interpreter's built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults mirror original_source/pinterp.h's PInterp constructor defaults.
const (
	DefaultStackSize = 1024
	DefaultHeapSize  = 3 * 1024
)

// Config holds the interpreter and front-end settings a pascal.toml file
// may override; command-line flags always take precedence over these.
type Config struct {
	StackSize int  `toml:"stack_size"`
	HeapSize  int  `toml:"heap_size"`
	Verbose   bool `toml:"verbose"`
	Trace     bool `toml:"trace"`
}

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{StackSize: DefaultStackSize, HeapSize: DefaultHeapSize}
}

// Load reads path (typically "pascal.toml") and overlays it onto the
// built-in defaults. A missing file is not an error, matching
// chazu-maggie/manifest.Load's tolerance for an absent manifest — this
// system's config file is entirely optional.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return cfg, nil
}
