// Package config loads rmux tool configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (RMUX_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .rmux-config.yaml in current directory
//  2. ~/.config/rmux/config.yaml
//
// Tool configuration is distinct from project documents: it decides where
// projects are stored and how the tool itself behaves, never what a
// compiled session looks like.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all rmux tool configuration.
type Config struct {
	// Tmux settings, overridable per project document.
	TmuxCommand string `yaml:"tmux_command"`
	TmuxSocket  string `yaml:"tmux_socket"`
	TmuxOptions string `yaml:"tmux_options"`

	// ProjectsDir is where named project documents live.
	ProjectsDir string `yaml:"projects_dir"`

	Verbose bool `yaml:"verbose"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	cfg := &Config{}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.ProjectsDir = filepath.Join(home, ".config", "rmux", "projects")
	}
	return cfg
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)
	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".rmux-config.yaml"); err == nil {
		return ".rmux-config.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "rmux", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.TmuxCommand != "" {
		cfg.TmuxCommand = file.TmuxCommand
	}
	if file.TmuxSocket != "" {
		cfg.TmuxSocket = file.TmuxSocket
	}
	if file.TmuxOptions != "" {
		cfg.TmuxOptions = file.TmuxOptions
	}
	if file.ProjectsDir != "" {
		cfg.ProjectsDir = expandUser(file.ProjectsDir)
	}
	if file.Verbose {
		cfg.Verbose = file.Verbose
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("RMUX_TMUX_COMMAND"); v != "" {
		cfg.TmuxCommand = v
	}
	if v := os.Getenv("RMUX_TMUX_SOCKET"); v != "" {
		cfg.TmuxSocket = v
	}
	if v := os.Getenv("RMUX_TMUX_OPTIONS"); v != "" {
		cfg.TmuxOptions = v
	}
	if v := os.Getenv("RMUX_PROJECTS_DIR"); v != "" {
		cfg.ProjectsDir = expandUser(v)
	}
	if v := os.Getenv("RMUX_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

func expandUser(path string) string {
	if path == "~" || len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
