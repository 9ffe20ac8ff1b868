package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Error reports a configuration file that exists but could not be read.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("read config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DefaultPath returns the configuration file location. Priority:
// 1) $XDG_CONFIG_HOME/hyprstream/config
// 2) $HOME/.config/hyprstream/config
// 3) /etc/hyprstream/config
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hyprstream", "config")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "hyprstream", "config")
	}
	return "/etc/hyprstream/config"
}

// Load reads the configuration at path (DefaultPath when empty). A missing
// file is not an error: the defaults are returned.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("config file not found, using defaults", "path", path)
			return DefaultConfig(), nil
		}
		return nil, &Error{Path: path, Err: err}
	}
	defer f.Close()

	logger.Info("loading config", "path", path)
	cfg, err := Parse(f, DefaultConfig(), logger)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse applies key=value lines from r on top of a copy of base. Malformed
// lines and unknown keys are logged and skipped; only read errors fail.
func Parse(r io.Reader, base *Config, logger *slog.Logger) (*Config, error) {
	cfg := *base

	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			logger.Warn("config: malformed line (missing '=')", "line", lineno)
			continue
		}
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)

		switch key {
		case "streaming_workspace":
			cfg.StreamingWorkspace = val
		case "physical_monitor":
			cfg.PhysicalMonitor = val
		case "virtual_resolution":
			if !ValidResolution(val) {
				logger.Warn("config: virtual_resolution is not WxH@Hz", "line", lineno, "value", val)
			}
			cfg.VirtualResolution = val
		case "on_streaming_enter":
			cfg.OnStreamingEnter = val
		case "on_streaming_leave":
			cfg.OnStreamingLeave = val
		case "on_enable":
			cfg.OnEnable = val
		case "on_disable":
			cfg.OnDisable = val
		case "auto_enable":
			cfg.AutoEnable = val == "true" || val == "1"
		default:
			logger.Warn("config: unknown key", "line", lineno, "key", key)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan config: %w", err)
	}

	return &cfg, nil
}
