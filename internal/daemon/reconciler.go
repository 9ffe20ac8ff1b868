package daemon

import (
	"github.com/hyprstream/hyprstream/internal/hypr"
)

// Reconcile makes the mirroring flag agree with the focused workspace:
// mirroring is on exactly when the streaming workspace is focused. It issues
// at most one compositor command and fires at most one hook, and does
// nothing while disabled.
func (m *Machine) Reconcile() error {
	if m.state.Mode != ModeEnabled || m.state.Headless == "" {
		return nil
	}

	active, err := hypr.ActiveWorkspaceName(m.hypr)
	if err != nil {
		return err
	}
	m.state.ActiveWorkspace = active

	onStreaming := active == m.cfg.StreamingWorkspace
	switch {
	case onStreaming && !m.state.Mirroring:
		if err := hypr.EnableMirror(m.hypr, m.state.Headless, m.state.Physical); err != nil {
			return err
		}
		m.state.Mirroring = true
		m.logger.Info("mirroring on", "workspace", active, "headless", m.state.Headless)
		m.fire(HookStreamingEnter, m.cfg.OnStreamingEnter)

	case !onStreaming && m.state.Mirroring:
		if err := hypr.ParkOffscreen(m.hypr, m.state.Headless, m.cfg.VirtualResolution); err != nil {
			return err
		}
		m.state.Mirroring = false
		m.logger.Info("mirroring off", "workspace", active, "headless", m.state.Headless)
		m.fire(HookStreamingLeave, m.cfg.OnStreamingLeave)
	}
	return nil
}

// HandleEvent reacts to one compositor event.
func (m *Machine) HandleEvent(ev hypr.Event) {
	switch {
	case ev.TriggersReconcile():
		if err := m.Reconcile(); err != nil {
			m.logger.Warn("reconcile failed", "event", ev.Kind, "error", err)
		}
	case ev.IsMonitorRemoved():
		if m.state.Mode != ModeEnabled || ev.Payload != m.state.Headless {
			return
		}
		m.logger.Warn("headless output removed externally", "output", ev.Payload)
		m.state.Mode = ModeDisabled
		m.state.Headless = ""
		m.state.Mirroring = false
	}
}
