package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	LogLevel   string           `toml:"log_level"`
	DataSource DataSourceConfig `toml:"data_source"`
	Hotkey     HotkeyConfig     `toml:"hotkey"`
	Dispatch   DispatchConfig   `toml:"dispatch"`
	Web        WebConfig        `toml:"web"`
}

type DataSourceConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

type HotkeyConfig struct {
	Modifiers string `toml:"modifiers"`
}

type DispatchConfig struct {
	DelayMs  int `toml:"delay_ms"`
	SettleMs int `toml:"settle_ms"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

// Delay is the time between resolving a snippet and handing it to the injector.
func (c DispatchConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// Settle is the pause the injector takes before typing.
func (c DispatchConfig) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		DataSource: DataSourceConfig{
			Path:  "button_names.xlsx",
			Watch: false,
		},
		Hotkey: HotkeyConfig{
			Modifiers: "ctrl+shift",
		},
		Dispatch: DispatchConfig{
			DelayMs:  2000,
			SettleMs: 1000,
		},
		Web: WebConfig{
			Enabled: true,
			Port:    8377,
		},
	}
}

// ConfigDir returns the per-user configuration directory, creating it if needed
func ConfigDir() (string, error) {
	base := os.Getenv("APPDATA")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", err)
		}
		base = dir
	}

	configDir := filepath.Join(base, "typeitown")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default TOML file
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path.
// If the file doesn't exist, it creates it with default values
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataSource.Path) == "" {
		return fmt.Errorf("data_source.path must not be empty")
	}
	if _, err := ParseModifiers(c.Hotkey.Modifiers); err != nil {
		return fmt.Errorf("invalid hotkey.modifiers: %w", err)
	}
	if c.Dispatch.DelayMs < 0 || c.Dispatch.SettleMs < 0 {
		return fmt.Errorf("dispatch delays must not be negative")
	}
	if c.Web.Enabled && (c.Web.Port <= 0 || c.Web.Port > 65535) {
		return fmt.Errorf("web.port out of range: %d", c.Web.Port)
	}
	return nil
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Modifiers is the parsed modifier prefix shared by every snippet hotkey
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Win   bool
}

// String renders the prefix in canonical order, e.g. "ctrl+shift"
func (m Modifiers) String() string {
	var parts []string
	if m.Ctrl {
		parts = append(parts, "ctrl")
	}
	if m.Shift {
		parts = append(parts, "shift")
	}
	if m.Alt {
		parts = append(parts, "alt")
	}
	if m.Win {
		parts = append(parts, "win")
	}
	return strings.Join(parts, "+")
}

// ParseModifiers parses a modifier prefix like "ctrl+shift" or "ctrl+alt".
// The symbol itself is not part of the prefix; every letter and digit is
// bound under it.
func ParseModifiers(prefix string) (Modifiers, error) {
	var m Modifiers
	if strings.TrimSpace(prefix) == "" {
		return m, fmt.Errorf("empty modifier prefix")
	}

	for _, part := range strings.Split(strings.ToLower(prefix), "+") {
		switch strings.TrimSpace(part) {
		case "ctrl", "control":
			m.Ctrl = true
		case "shift":
			m.Shift = true
		case "alt":
			m.Alt = true
		case "win", "windows", "super", "cmd":
			m.Win = true
		default:
			return m, fmt.Errorf("unknown modifier: %s", part)
		}
	}

	if !m.Ctrl && !m.Alt && !m.Win {
		// shift+letter would swallow ordinary typing
		return m, fmt.Errorf("modifier prefix needs ctrl, alt or win: %s", prefix)
	}

	return m, nil
}
