package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/delvex/pkg/settings"
)

// FileConfig mirrors the YAML config file. Pointer fields distinguish
// "unset" from zero values so CLI flags keep precedence.
type FileConfig struct {
	Delimiter *string `yaml:"delimiter,omitempty"`
	Output    *string `yaml:"output,omitempty"`
	NoColor   *bool   `yaml:"no_color,omitempty"`
	Strict    *bool   `yaml:"strict,omitempty"`
	Width     *int    `yaml:"width,omitempty"`
}

// resolveConfigPath returns the explicit config path if set, otherwise the
// XDG path ($XDG_CONFIG_HOME/delvex/config.yaml) or
// ~/.config/delvex/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// loadFileConfig reads and parses the config file at path. An empty path
// returns an empty config.
func loadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFileConfig merges file-level defaults into the run parameters. A
// value is taken from the file only when the corresponding flag was not set
// on the command line.
func applyFileConfig(cfg FileConfig, params *settings.Run, flags *pflag.FlagSet) {
	if cfg.Delimiter != nil && !flags.Changed("delimiter") {
		params.Delimiter = *cfg.Delimiter
	}
	if cfg.Output != nil && !flags.Changed("output") {
		params.Output = *cfg.Output
	}
	if cfg.NoColor != nil && !flags.Changed("no-color") {
		params.NoColor = *cfg.NoColor
	}
	if cfg.Strict != nil && !flags.Changed("strict") {
		params.StrictPresence = *cfg.Strict
	}
	if cfg.Width != nil && !flags.Changed("width") && *cfg.Width > 0 {
		outputWidth = *cfg.Width
	}
}
