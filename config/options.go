// Package config handles the options of a declaration unit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Options configures one compilation unit.
type Options struct {
	// Unit names the compilation unit; it prefixes log output.
	Unit string `toml:"unit" yaml:"unit"`

	// Debug marks a debug build: debug-only assertions are checked.
	Debug bool `toml:"debug" yaml:"debug"`

	// Verbose logs every declaration and every variable modified inside a
	// control split.
	Verbose bool `toml:"verbose" yaml:"verbose"`

	// Header is the path GenerateHeader writes to when no path is given.
	Header string `toml:"header" yaml:"header"`

	// LogLevel is one of "debug", "info", "warning", "error" or "none".
	LogLevel string `toml:"log-level" yaml:"log-level"`
}

// Default returns the options used when no file is given.
func Default() *Options {
	return &Options{
		Unit:     "default",
		LogLevel: "warning",
	}
}

// Load reads options from a .toml, .yaml or .yml file. Unset fields keep
// their defaults.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	opts := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, opts); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported options format %q for %s", ext, path)
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Validate checks field values.
func (o *Options) Validate() error {
	switch strings.ToLower(o.LogLevel) {
	case "", "debug", "info", "warning", "error", "none":
		return nil
	}
	return fmt.Errorf("unknown log-level %q", o.LogLevel)
}
