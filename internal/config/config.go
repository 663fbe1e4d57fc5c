// Package config loads run settings from .specdown.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	FileName            = ".specdown.yaml"
	DefaultShellCommand = "bash -c"
)

// Config holds every setting the run command accepts. Command-line flags
// override values loaded from the file.
type Config struct {
	ShellCommand          string   `yaml:"shell_command"`
	Env                   []string `yaml:"env"`
	UnsetEnv              []string `yaml:"unset_env"`
	AddPath               []string `yaml:"add_path"`
	WorkspaceDir          string   `yaml:"workspace_dir"`
	TemporaryWorkspaceDir bool     `yaml:"temporary_workspace_dir"`
	WorkspaceInitCommand  string   `yaml:"workspace_init_command"`
	RunningDir            string   `yaml:"running_dir"`
	Colour                bool     `yaml:"colour"`
}

func Default() Config {
	return Config{ShellCommand: DefaultShellCommand}
}

// Load returns the defaults overlaid with the file at path. A missing file is
// only an error when required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	merged := Merge(cfg, file)
	if err := merged.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return merged, nil
}

// Merge overlays the fields overlay sets onto base. List fields are
// appended.
func Merge(base, overlay Config) Config {
	merged := base

	if overlay.ShellCommand != "" {
		merged.ShellCommand = overlay.ShellCommand
	}
	merged.Env = append(append([]string{}, base.Env...), overlay.Env...)
	merged.UnsetEnv = append(append([]string{}, base.UnsetEnv...), overlay.UnsetEnv...)
	merged.AddPath = append(append([]string{}, base.AddPath...), overlay.AddPath...)
	if overlay.WorkspaceDir != "" {
		merged.WorkspaceDir = overlay.WorkspaceDir
	}
	if overlay.TemporaryWorkspaceDir {
		merged.TemporaryWorkspaceDir = true
	}
	if overlay.WorkspaceInitCommand != "" {
		merged.WorkspaceInitCommand = overlay.WorkspaceInitCommand
	}
	if overlay.RunningDir != "" {
		merged.RunningDir = overlay.RunningDir
	}
	if overlay.Colour {
		merged.Colour = true
	}

	return merged
}

func (c Config) Validate() error {
	if c.WorkspaceDir != "" && c.TemporaryWorkspaceDir {
		return fmt.Errorf("workspace_dir and temporary_workspace_dir cannot both be set")
	}
	return nil
}

// Marshal renders cfg as YAML, for writing a starter file.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
