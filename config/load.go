package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyCharsets is returned by Load when hint.charsets has no entries —
// the label generator cannot produce any labels from an empty charset
// list, so this is a ConfigInvalid condition (spec.md §7).
var ErrEmptyCharsets = fmt.Errorf("hint.charsets must not be empty")

// Load reads and decodes the YAML configuration at path and runs the
// minimal structural validation the core's invariants depend on.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the structural invariants the core relies on and that a
// malformed YAML document cannot otherwise violate silently.
func (c *Config) Validate() error {
	if len(c.Hint.Charsets) == 0 {
		return ErrEmptyCharsets
	}
	for _, stepList := range [][]MouseStep{c.Mouse.Step.Translate, c.Mouse.Step.Scroll, c.Mouse.Step.Drag} {
		if len(stepList) == 0 {
			return fmt.Errorf("mouse.step: translate/scroll/drag must each have at least one entry")
		}
	}
	return nil
}
