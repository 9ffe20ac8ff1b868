package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoHyprland is returned when the environment does not describe a running
// Hyprland instance.
var ErrNoHyprland = errors.New("HYPRLAND_INSTANCE_SIGNATURE or XDG_RUNTIME_DIR not set")

// ControlSocketPath returns the daemon control socket path. It never fails:
// without XDG_RUNTIME_DIR the socket lives in /tmp, keyed by uid.
func ControlSocketPath() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "hyprstream.sock")
	}
	return fmt.Sprintf("/tmp/hyprstream-%d.sock", os.Getuid())
}

// HyprlandDir returns the directory holding the sockets of the Hyprland
// instance this process was started under.
func HyprlandDir() (string, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if sig == "" || runtimeDir == "" {
		return "", ErrNoHyprland
	}
	return filepath.Join(runtimeDir, "hypr", sig), nil
}

// CompositorSocketPath returns the Hyprland request socket.
func CompositorSocketPath() (string, error) {
	dir, err := HyprlandDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".socket.sock"), nil
}

// EventSocketPath returns the Hyprland event stream socket.
func EventSocketPath() (string, error) {
	dir, err := HyprlandDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".socket2.sock"), nil
}
