package daemon

import (
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
)

// Hook names passed to HookRunner.Fire.
const (
	HookStreamingEnter = "on_streaming_enter"
	HookStreamingLeave = "on_streaming_leave"
	HookEnable         = "on_enable"
	HookDisable        = "on_disable"
)

// HookRunner launches user side-effect commands. Fire must return without
// waiting for the command, and its outcome is never reported back.
type HookRunner interface {
	Fire(name, command string)
}

// ShellHooks runs hooks with `sh -c` in their own process group.
type ShellHooks struct {
	logger *slog.Logger
}

// NewShellHooks creates a HookRunner backed by /bin/sh.
func NewShellHooks(logger *slog.Logger) *ShellHooks {
	return &ShellHooks{logger: logger}
}

func (h *ShellHooks) Fire(name, command string) {
	if strings.TrimSpace(command) == "" {
		return
	}

	cmd := exec.Command("sh", "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		h.logger.Debug("hook did not start", "hook", name, "error", err)
		return
	}
	h.logger.Debug("hook launched", "hook", name, "pid", cmd.Process.Pid)

	// Reap the child.
	go cmd.Wait()
}
