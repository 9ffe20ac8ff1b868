package config

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStreamingWorkspace = "9"
	DefaultVirtualResolution  = "1920x1080@60"
)

// Config is the immutable daemon configuration, loaded once at startup.
type Config struct {
	// StreamingWorkspace is the workspace moved onto the headless output.
	StreamingWorkspace string `yaml:"streaming_workspace"`
	// PhysicalMonitor is the output mirrored while streaming. Empty means
	// auto-detect on first enable.
	PhysicalMonitor string `yaml:"physical_monitor"`
	// VirtualResolution is the headless output mode, formatted WxH@Hz.
	VirtualResolution string `yaml:"virtual_resolution"`

	OnStreamingEnter string `yaml:"on_streaming_enter"`
	OnStreamingLeave string `yaml:"on_streaming_leave"`
	OnEnable         string `yaml:"on_enable"`
	OnDisable        string `yaml:"on_disable"`

	AutoEnable bool `yaml:"auto_enable"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		StreamingWorkspace: DefaultStreamingWorkspace,
		VirtualResolution:  DefaultVirtualResolution,
	}
}

var resolutionPattern = regexp.MustCompile(`^[0-9]+x[0-9]+@[0-9]+(\.[0-9]+)?$`)

// ValidResolution reports whether s has the WxH@Hz form Hyprland accepts for
// an explicit monitor mode.
func ValidResolution(s string) bool {
	return resolutionPattern.MatchString(s)
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
