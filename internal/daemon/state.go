package daemon

// Mode is the streaming mode of the daemon.
type Mode int

const (
	ModeDisabled Mode = iota
	ModeEnabled
)

func (m Mode) String() string {
	if m == ModeEnabled {
		return "enabled"
	}
	return "disabled"
}

// State is the daemon's view of the compositor. Invariants:
//   - Headless != "" iff Mode == ModeEnabled
//   - Mirroring implies Mode == ModeEnabled
type State struct {
	Mode Mode
	// Headless is the output created for streaming.
	Headless string
	// Physical is the mirrored output; resolved on first enable and kept.
	Physical string
	// ActiveWorkspace is the focused workspace last seen by Reconcile.
	ActiveWorkspace string
	// Mirroring is true while Headless presents Physical's contents.
	Mirroring bool
}
