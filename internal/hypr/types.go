package hypr

// Monitor is the subset of `hyprctl -j monitors` this daemon reads.
type Monitor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Workspace is the subset of `hyprctl -j workspaces` this daemon reads.
type Workspace struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Monitor string `json:"monitor"`
}

// ActiveWorkspace is the reply of `hyprctl -j activeworkspace`.
type ActiveWorkspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Snapshot maps a workspace name to the monitor hosting it at the time of
// the read.
type Snapshot map[string]string

// Move is a single workspace-to-monitor relocation.
type Move struct {
	Workspace string
	Monitor   string
}
