package daemon

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/hyprstream/hyprstream/internal/config"
	"github.com/hyprstream/hyprstream/internal/hypr"
	"github.com/hyprstream/hyprstream/internal/ipc"
)

// Machine owns the streaming state and drives the compositor through it.
// It is not safe for concurrent use; the event loop is its only caller.
type Machine struct {
	cfg    *config.Config
	hypr   hypr.Requester
	hooks  HookRunner
	logger *slog.Logger

	state State
}

func NewMachine(cfg *config.Config, requester hypr.Requester, hooks HookRunner, logger *slog.Logger) *Machine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Machine{
		cfg:    cfg,
		hypr:   requester,
		hooks:  hooks,
		logger: logger,
		state:  State{Physical: cfg.PhysicalMonitor},
	}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Status returns the state in control-protocol form.
func (m *Machine) Status() ipc.Status {
	return ipc.Status{
		Enabled:   m.state.Mode == ModeEnabled,
		Headless:  m.state.Headless,
		Physical:  m.state.Physical,
		Workspace: m.state.ActiveWorkspace,
		Mirroring: m.state.Mirroring,
	}
}

// AutoEnable enables streaming mode when the configuration asks for it.
// Failure is logged and leaves the daemon disabled.
func (m *Machine) AutoEnable() {
	if !m.cfg.AutoEnable {
		return
	}
	m.logger.Info("auto-enabling streaming mode")
	if err := m.Enable(); err != nil {
		m.logger.Error("auto-enable failed", "error", err)
	}
}

// Enable creates the headless output, binds the streaming workspace to it
// and parks it off-screen. Any failure before the mode is committed removes
// the output again and leaves the machine disabled.
func (m *Machine) Enable() error {
	if m.state.Mode == ModeEnabled {
		m.logger.Info("streaming mode already enabled")
		return nil
	}

	if m.state.Physical == "" {
		physical, err := hypr.DetectPhysical(m.hypr)
		if err != nil {
			return errors.Wrap(err, "resolve physical output")
		}
		m.state.Physical = physical
		m.logger.Info("detected physical output", "output", physical)
	}

	before, err := hypr.SnapshotWorkspaces(m.hypr)
	if err != nil {
		return errors.Wrap(err, "snapshot workspaces")
	}

	headless, err := hypr.CreateHeadless(m.hypr)
	if err != nil {
		return err
	}
	m.logger.Info("created headless output", "output", headless)

	if err := hypr.ParkOffscreen(m.hypr, headless, m.cfg.VirtualResolution); err != nil {
		m.rollback(before, headless)
		return err
	}

	streaming := m.cfg.StreamingWorkspace
	if err := hypr.BindWorkspace(m.hypr, streaming, headless); err != nil {
		m.rollback(before, headless)
		return err
	}
	if err := hypr.MoveWorkspace(m.hypr, streaming, headless); err != nil {
		m.rollback(before, headless)
		return err
	}

	m.restore(before, headless)

	m.state.Mode = ModeEnabled
	m.state.Headless = headless
	m.state.ActiveWorkspace = ""
	m.state.Mirroring = false

	if err := m.Reconcile(); err != nil {
		m.logger.Warn("initial reconcile failed", "error", err)
	}

	m.fire(HookEnable, m.cfg.OnEnable)
	m.logger.Info("streaming mode enabled",
		"headless", headless,
		"physical", m.state.Physical,
		"workspace", streaming,
	)
	return nil
}

// rollback undoes a partially applied Enable. Failures are logged only.
func (m *Machine) rollback(before hypr.Snapshot, headless string) {
	m.logger.Warn("enable failed, rolling back", "headless", headless)
	m.restore(before, headless)
	if err := hypr.RemoveHeadless(m.hypr, headless); err != nil {
		m.logger.Warn("failed to remove headless output during rollback", "output", headless, "error", err)
	}
}

func (m *Machine) restore(before hypr.Snapshot, headless string) {
	moves, err := hypr.RestoreStolen(m.hypr, before, headless, m.cfg.StreamingWorkspace)
	for _, mv := range moves {
		m.logger.Info("restored workspace", "workspace", mv.Workspace, "monitor", mv.Monitor)
	}
	if err != nil {
		m.logger.Warn("failed to restore workspaces", "error", err)
	}
}

// Disable parks the output, returns the streaming workspace to the physical
// output and removes the headless output. Compositor failures are logged;
// the machine always ends up disabled.
func (m *Machine) Disable() error {
	if m.state.Mode == ModeDisabled {
		m.logger.Info("streaming mode already disabled")
		return nil
	}

	headless := m.state.Headless
	if m.state.Mirroring {
		if err := hypr.ParkOffscreen(m.hypr, headless, m.cfg.VirtualResolution); err != nil {
			m.logger.Warn("failed to stop mirroring", "output", headless, "error", err)
		}
		m.state.Mirroring = false
	}

	streaming := m.cfg.StreamingWorkspace
	if err := hypr.MoveWorkspace(m.hypr, streaming, m.state.Physical); err != nil {
		m.logger.Warn("failed to move streaming workspace back",
			"workspace", streaming,
			"monitor", m.state.Physical,
			"error", err,
		)
	}
	if err := hypr.RemoveHeadless(m.hypr, headless); err != nil {
		m.logger.Warn("failed to remove headless output", "output", headless, "error", err)
	}

	m.state.Mode = ModeDisabled
	m.state.Headless = ""

	m.fire(HookDisable, m.cfg.OnDisable)
	m.logger.Info("streaming mode disabled")
	return nil
}

// Toggle flips the mode and reports the resulting one.
func (m *Machine) Toggle() (Mode, error) {
	if m.state.Mode == ModeEnabled {
		err := m.Disable()
		return m.state.Mode, err
	}
	err := m.Enable()
	return m.state.Mode, err
}

func (m *Machine) fire(name, command string) {
	if command == "" || m.hooks == nil {
		return
	}
	m.hooks.Fire(name, command)
}
