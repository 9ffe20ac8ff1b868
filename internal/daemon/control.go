package daemon

import (
	"github.com/hyprstream/hyprstream/internal/ipc"
)

// Dispatch parses a raw control command, executes it and returns the reply
// line. quit is true when the daemon should shut down.
func (m *Machine) Dispatch(raw string) (reply string, quit bool) {
	cmd, err := ipc.ParseCommand(raw)
	if err != nil {
		m.logger.Warn("unknown control command", "command", raw)
		return ipc.UnknownCommandReply(raw), false
	}
	m.logger.Debug("control command", "command", cmd)
	return m.HandleCommand(cmd), cmd == ipc.CommandQuit
}

// HandleCommand executes a parsed control command.
func (m *Machine) HandleCommand(cmd ipc.Command) string {
	switch cmd {
	case ipc.CommandEnable:
		if err := m.Enable(); err != nil {
			m.logger.Error("enable failed", "error", err)
			return ipc.FailureReply(cmd)
		}
		return ipc.ReplyEnabled

	case ipc.CommandDisable:
		if err := m.Disable(); err != nil {
			m.logger.Error("disable failed", "error", err)
			return ipc.FailureReply(cmd)
		}
		return ipc.ReplyDisabled

	case ipc.CommandToggle:
		mode, err := m.Toggle()
		if err != nil {
			m.logger.Error("toggle failed", "error", err)
			return ipc.FailureReply(cmd)
		}
		if mode == ModeEnabled {
			return ipc.ReplyEnabled
		}
		return ipc.ReplyDisabled

	case ipc.CommandStatus:
		return m.Status().String()

	case ipc.CommandQuit:
		m.logger.Info("quit requested")
		return ipc.ReplyShuttingDown
	}
	return ipc.UnknownCommandReply(string(cmd))
}
