package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// FileName is the optional per-repository config file. It sits below native
// git config in precedence, the same way the teacher's local dotfile sits
// below its global platform config.
const FileName = ".git-trim.yml"

// FileConfig is the subset of Config that a .git-trim.yml may override.
// Pointer fields distinguish "absent from the file" from "explicitly set to
// the zero value", the same problem CLIOverrides' *Set fields solve for flags.
type FileConfig struct {
	Bases          []string `yaml:"bases,omitempty"`
	Protected      []string `yaml:"protected,omitempty"`
	Delete         string   `yaml:"delete,omitempty"`
	Update         *bool    `yaml:"update,omitempty"`
	UpdateInterval string   `yaml:"updateInterval,omitempty"`
	Confirm        *bool    `yaml:"confirm,omitempty"`
	Detach         *bool    `yaml:"detach,omitempty"`
}

// findNearestFile walks up from dir looking for FileName, the same
// parent-walk FindNearestConfigPath does for the teacher's dotfile.
func findNearestFile(dir string) (string, bool, error) {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func loadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// applyFileConfig merges a FileConfig's explicitly-set fields into cfg.
func applyFileConfig(cfg *Config, fc FileConfig) error {
	if len(fc.Bases) > 0 {
		cfg.Bases = fc.Bases
	}
	if len(fc.Protected) > 0 {
		cfg.Protected = fc.Protected
	}
	if fc.Delete != "" {
		cfg.Delete = fc.Delete
	}
	if fc.Update != nil {
		cfg.Update = *fc.Update
	}
	if fc.UpdateInterval != "" {
		d, err := time.ParseDuration(fc.UpdateInterval)
		if err != nil {
			return fmt.Errorf("updateInterval: %w", err)
		}
		cfg.UpdateInterval = d
	}
	if fc.Confirm != nil {
		cfg.Confirm = *fc.Confirm
	}
	if fc.Detach != nil {
		cfg.Detach = *fc.Detach
	}
	return nil
}
