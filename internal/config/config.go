// Package config loads and writes the wtm configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Dicklesworthstone/wtm/internal/util"
)

// Config represents the main configuration
type Config struct {
	Terminal TerminalConfig `toml:"terminal"`
	Session  SessionConfig  `toml:"session"`
	Theme    string         `toml:"theme"` // mocha, latte, plain, auto
}

// TerminalConfig selects the terminal emulator and how its windows are
// tagged so wtm can find them again.
type TerminalConfig struct {
	Command      string   `toml:"command"`       // emulator binary
	Args         []string `toml:"args"`          // extra args; empty derives --class from window_class
	WindowClass  string   `toml:"window_class"`  // WM_CLASS marking wtm-owned windows
	SpawnTimeout string   `toml:"spawn_timeout"` // max wait for a new window (e.g. "5s")
}

// SessionConfig controls session state storage.
type SessionConfig struct {
	Dir         string `toml:"dir"`          // state directory override (empty = XDG default)
	LockTimeout string `toml:"lock_timeout"` // max wait for the session lock (e.g. "2s")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Terminal: TerminalConfig{
			Command:      "alacritty",
			WindowClass:  "wtm_tab",
			SpawnTimeout: "5s",
		},
		Session: SessionConfig{
			LockTimeout: "2s",
		},
		Theme: "auto",
	}
}

// DefaultPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/wtm/config.toml
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "wtm", "config.toml")
}

// Load reads the config file at path (or the default path when empty).
// A missing file yields the defaults; a present file is merged over them.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyFallbacks()
	return cfg, nil
}

// applyFallbacks restores defaults for fields the user blanked out.
func (c *Config) applyFallbacks() {
	def := Default()
	if c.Terminal.Command == "" {
		c.Terminal.Command = def.Terminal.Command
	}
	if c.Terminal.WindowClass == "" {
		c.Terminal.WindowClass = def.Terminal.WindowClass
	}
	if c.Terminal.SpawnTimeout == "" {
		c.Terminal.SpawnTimeout = def.Terminal.SpawnTimeout
	}
	if c.Session.LockTimeout == "" {
		c.Session.LockTimeout = def.Session.LockTimeout
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
}

// TerminalArgs returns the argument vector for launching the terminal.
// When no explicit args are configured, the WM class is applied the
// alacritty way: --class instance,general.
func (c *Config) TerminalArgs() []string {
	if len(c.Terminal.Args) > 0 {
		return c.Terminal.Args
	}
	class := c.Terminal.WindowClass
	return []string{"--class", class + "," + class}
}

// SpawnTimeout returns the parsed spawn timeout.
func (c *Config) SpawnTimeout() time.Duration {
	d, err := util.ParseDuration(c.Terminal.SpawnTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// LockTimeout returns the parsed session lock timeout.
func (c *Config) LockTimeout() time.Duration {
	d, err := util.ParseDuration(c.Session.LockTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// CreateDefault writes a commented default config file, refusing to
// overwrite an existing one.
func CreateDefault() (string, error) {
	path := DefaultPath()

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// Print writes the effective configuration as TOML.
func Print(cfg *Config, w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}

const defaultConfigTOML = `# wtm configuration

# Color theme: mocha, latte, plain, auto
theme = "auto"

[terminal]
# Terminal emulator used for tab windows.
command = "alacritty"
# WM_CLASS applied to spawned windows; wtm finds its windows by this class.
window_class = "wtm_tab"
# Extra launch arguments. Empty derives "--class <class>,<class>".
args = []
# How long to wait for a launched window to appear.
spawn_timeout = "5s"

[session]
# Session state directory. Empty uses $XDG_STATE_HOME/wtm.
dir = ""
# How long a key press waits for the session lock before giving up.
lock_timeout = "2s"
`
