// Package project locates and loads pell.toml project files.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/pell-lang/pell/pkg/kernel"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "pell.toml"

// Config represents a pell.toml project configuration file.
type Config struct {
	// Requires constrains the kernel versions the project works with,
	// e.g. ">= 0.3, < 0.4". Empty allows any kernel.
	Requires string `toml:"requires,omitempty"`

	// Prelude lists files loaded into the environment before any other
	// input, in order, relative to pell.toml.
	Prelude []string `toml:"prelude,omitempty"`

	// Trace enables rewrite tracing for every evaluation.
	Trace bool `toml:"trace,omitempty"`
}

// Load reads a pell.toml file from the given path.
func Load(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &config, nil
}

// Find searches for a pell.toml starting from dir and walking up parent
// directories. Returns the path to pell.toml and the parsed config, or
// ("", nil, nil) if not found.
func Find(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		// Stop at .git boundary
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// CheckKernel verifies the running kernel satisfies the Requires constraint.
func (c *Config) CheckKernel() error {
	if c == nil || c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
	}
	if !constraint.Check(semver.MustParse(kernel.Version)) {
		return fmt.Errorf("kernel %s does not satisfy required %q", kernel.Version, c.Requires)
	}
	return nil
}

// PreludePaths resolves the prelude entries relative to the config location.
func (c *Config) PreludePaths(configPath string) []string {
	if c == nil {
		return nil
	}
	dir := filepath.Dir(configPath)
	paths := make([]string, len(c.Prelude))
	for i, p := range c.Prelude {
		if filepath.IsAbs(p) {
			paths[i] = p
		} else {
			paths[i] = filepath.Join(dir, p)
		}
	}
	return paths
}
