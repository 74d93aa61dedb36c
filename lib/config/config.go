// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path from.
const EnvironmentVariable = "FBVNC_CONFIG"

// Config is the master configuration for fbvncserver.
type Config struct {
	// Framebuffer configures the display device.
	Framebuffer FramebufferConfig `yaml:"framebuffer"`

	// Input configures keyboard and touch injection.
	Input InputConfig `yaml:"input"`

	// Mirror configures the synchronization loop.
	Mirror MirrorConfig `yaml:"mirror"`

	// RFB configures the remote framebuffer server.
	RFB RFBConfig `yaml:"rfb"`

	// Control configures the local control socket.
	Control ControlConfig `yaml:"control"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log"`
}

// FramebufferConfig configures the display device.
type FramebufferConfig struct {
	// Device is the fbdev path. Android exposes it as /dev/graphics/fb0.
	// Default: /dev/fb0
	Device string `yaml:"device"`

	// Buffers is how many screen-sized pages are mapped. Double
	// buffered drivers flip yoffset between them.
	// Default: 2
	Buffers int `yaml:"buffers"`
}

// InputConfig configures keyboard and touch injection.
type InputConfig struct {
	// DevicePattern is the printf pattern enumerated during discovery.
	// Default: /dev/input/event%d
	DevicePattern string `yaml:"device_pattern"`

	// MaxDevices is how many indices discovery probes, starting at 0.
	// Default: 5
	MaxDevices int `yaml:"max_devices"`

	Keyboard DeviceConfig `yaml:"keyboard"`
	Touch    DeviceConfig `yaml:"touch"`
}

// DeviceConfig selects one input device.
type DeviceConfig struct {
	// Device is an explicit path. When set, discovery is skipped.
	Device string `yaml:"device"`

	// Patterns are device-name substrings in priority order. The
	// device whose name contains the earliest pattern wins.
	Patterns []string `yaml:"patterns"`

	// Default is used when discovery finds nothing.
	Default string `yaml:"default"`

	// Required makes an unopenable device a startup error instead of
	// a disabled channel.
	Required bool `yaml:"required"`
}

// MirrorConfig configures the synchronization loop.
type MirrorConfig struct {
	// Interval is the time between scans while a viewer is attached.
	// Default: 100ms
	Interval string `yaml:"interval"`

	// CheckerboardWorkaround rewrites the two alternating gray words
	// that some encoders render as a visible checkerboard.
	// Default: true
	CheckerboardWorkaround bool `yaml:"checkerboard_workaround"`
}

// RFBConfig configures the remote framebuffer server.
type RFBConfig struct {
	// Port is the TCP port viewers connect to.
	// Default: 5901
	Port int `yaml:"port"`

	// DesktopName is shown in the viewer's title bar.
	// Default: Android
	DesktopName string `yaml:"desktop_name"`

	// AlwaysShared lets a new viewer connect without disconnecting
	// existing ones.
	// Default: true
	AlwaysShared bool `yaml:"always_shared"`
}

// ControlConfig configures the local control socket.
type ControlConfig struct {
	// Socket is the unix socket path. Empty disables the socket.
	// Default: ${XDG_RUNTIME_DIR:-/tmp}/fbvnc.sock
	Socket string `yaml:"socket"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration. Values loaded from a file
// are merged over these.
func Default() *Config {
	return &Config{
		Framebuffer: FramebufferConfig{
			Device:  "/dev/fb0",
			Buffers: 2,
		},
		Input: InputConfig{
			DevicePattern: "/dev/input/event%d",
			MaxDevices:    5,
			Keyboard: DeviceConfig{
				Patterns: []string{"VNC", "key", "qwerty"},
				Default:  "/dev/input/event2",
			},
			Touch: DeviceConfig{
				Patterns: []string{"touch", "qwerty"},
				Default:  "/dev/input/event1",
			},
		},
		Mirror: MirrorConfig{
			Interval:               "100ms",
			CheckerboardWorkaround: true,
		},
		RFB: RFBConfig{
			Port:         5901,
			DesktopName:  "Android",
			AlwaysShared: true,
		},
		Control: ControlConfig{
			Socket: "${XDG_RUNTIME_DIR:-/tmp}/fbvnc.sock",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the FBVNC_CONFIG environment variable.
// When the variable is unset the defaults are returned (expanded), so
// the server runs without any config file as it always has.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile decodes a single configuration file over the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the stripped document decodes
		// with the same field tags.
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"XDG_RUNTIME_DIR": os.Getenv("XDG_RUNTIME_DIR"),
	}

	c.Framebuffer.Device = expandVars(c.Framebuffer.Device, vars)
	c.Input.Keyboard.Device = expandVars(c.Input.Keyboard.Device, vars)
	c.Input.Keyboard.Default = expandVars(c.Input.Keyboard.Default, vars)
	c.Input.Touch.Device = expandVars(c.Input.Touch.Device, vars)
	c.Input.Touch.Default = expandVars(c.Input.Touch.Default, vars)
	c.Control.Socket = expandVars(c.Control.Socket, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Framebuffer.Device == "" {
		errs = append(errs, fmt.Errorf("framebuffer.device is required"))
	}
	if c.Framebuffer.Buffers < 1 {
		errs = append(errs, fmt.Errorf("framebuffer.buffers must be at least 1, got %d", c.Framebuffer.Buffers))
	}

	if !strings.Contains(c.Input.DevicePattern, "%d") {
		errs = append(errs, fmt.Errorf("input.device_pattern must contain %%d, got %q", c.Input.DevicePattern))
	}
	if c.Input.MaxDevices < 0 {
		errs = append(errs, fmt.Errorf("input.max_devices must not be negative, got %d", c.Input.MaxDevices))
	}

	interval, err := time.ParseDuration(c.Mirror.Interval)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("mirror.interval: %w", err))
	case interval <= 0:
		errs = append(errs, fmt.Errorf("mirror.interval must be positive, got %s", c.Mirror.Interval))
	}

	if c.RFB.Port < 1 || c.RFB.Port > 65535 {
		errs = append(errs, fmt.Errorf("rfb.port must be in 1-65535, got %d", c.RFB.Port))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ScanInterval returns Mirror.Interval as a duration. Call after
// [Config.Validate]; an unparseable value returns the default.
func (c *Config) ScanInterval() time.Duration {
	interval, err := time.ParseDuration(c.Mirror.Interval)
	if err != nil || interval <= 0 {
		return 100 * time.Millisecond
	}
	return interval
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
