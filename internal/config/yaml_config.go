package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SectionsConfig represents the structure of the sections.yaml file.
// Each list replaces the built-in candidate keys for that section, in
// priority order. Omitted sections keep their defaults.
type SectionsConfig struct {
	Summary  []string `yaml:"summary"`
	Fields   []string `yaml:"fields"`
	Controls []string `yaml:"controls"`
}

// LoadSectionsConfig loads the section candidate file at path.
// Returns nil without error if the file doesn't exist.
func LoadSectionsConfig(path string) (*SectionsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg SectionsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Overrides returns the configured lists keyed by section name.
func (c *SectionsConfig) Overrides() map[string][]string {
	if c == nil {
		return nil
	}
	return map[string][]string{
		"summary":  c.Summary,
		"fields":   c.Fields,
		"controls": c.Controls,
	}
}
