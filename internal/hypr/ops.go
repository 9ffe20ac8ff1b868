package hypr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// HeadlessPrefix is the name prefix Hyprland gives headless outputs.
const HeadlessPrefix = "HEADLESS-"

// offscreenPosition places a parked output far left of any real desktop.
const offscreenPosition = "-9999x0"

// IsOK reports whether a reply to a mutating command means success: the
// trimmed body must equal "ok", ignoring case.
func IsOK(reply string) bool {
	return strings.EqualFold(strings.TrimSpace(reply), "ok")
}

// IsHeadless reports whether name is a headless (virtual) output.
func IsHeadless(name string) bool {
	return strings.HasPrefix(name, HeadlessPrefix)
}

func headlessIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, HeadlessPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Command sends a mutating command and converts a non-ok reply into a
// *ProtocolError.
func Command(r Requester, command string) error {
	reply, err := r.Request(command)
	if err != nil {
		return err
	}
	if !IsOK(reply) {
		return &ProtocolError{Command: command, Reply: reply}
	}
	return nil
}

// CreateHeadless creates a headless output and returns its name. Hyprland
// does not report the name it picked, so the output list is taken before and
// after creation and the new HEADLESS-<n> with the highest suffix wins. The
// listing after creation is retried once.
func CreateHeadless(r Requester) (string, error) {
	before, err := listOutputs(r)
	if err != nil {
		return "", errors.Wrap(err, "list monitors before create")
	}
	existing := make(map[string]bool, len(before))
	for _, m := range before {
		existing[m.Name] = true
	}

	if err := Command(r, "output create headless"); err != nil {
		return "", errors.Wrap(err, "create headless output")
	}

	monitors, err := listOutputs(r)
	if err != nil {
		monitors, err = listOutputs(r)
	}
	if err != nil {
		return "", errors.Wrap(err, "list monitors after create")
	}

	best, bestNum := "", -1
	for _, m := range monitors {
		if existing[m.Name] {
			continue
		}
		n, ok := headlessIndex(m.Name)
		if ok && n > bestNum {
			best, bestNum = m.Name, n
		}
	}
	if best == "" {
		return "", errors.New("could not find headless output after creation")
	}
	return best, nil
}

func listOutputs(r Requester) ([]Monitor, error) {
	var monitors []Monitor
	if err := r.RequestJSON("monitors all", &monitors); err != nil {
		return nil, err
	}
	return monitors, nil
}

// RemoveHeadless destroys the named headless output.
func RemoveHeadless(r Requester, name string) error {
	return errors.Wrapf(Command(r, "output remove "+name), "remove output %s", name)
}

// EnableMirror makes headless mirror physical at its preferred mode.
func EnableMirror(r Requester, headless, physical string) error {
	cmd := fmt.Sprintf("keyword monitor %s,preferred,auto,1,mirror,%s", headless, physical)
	return errors.Wrapf(Command(r, cmd), "mirror %s -> %s", physical, headless)
}

// ParkOffscreen stops mirroring by giving headless an explicit mode at a
// position outside the visible desktop. The output itself is kept.
func ParkOffscreen(r Requester, headless, resolution string) error {
	cmd := fmt.Sprintf("keyword monitor %s,%s,%s,1", headless, resolution, offscreenPosition)
	return errors.Wrapf(Command(r, cmd), "park %s off-screen", headless)
}

// BindWorkspace declares monitor as the persistent default for workspace.
func BindWorkspace(r Requester, workspace, monitor string) error {
	cmd := fmt.Sprintf("keyword workspace %s,monitor:%s,default:true", workspace, monitor)
	return errors.Wrapf(Command(r, cmd), "bind workspace %s -> %s", workspace, monitor)
}

// MoveWorkspace moves workspace to monitor immediately.
func MoveWorkspace(r Requester, workspace, monitor string) error {
	cmd := fmt.Sprintf("dispatch moveworkspacetomonitor %s %s", workspace, monitor)
	return errors.Wrapf(Command(r, cmd), "move workspace %s -> %s", workspace, monitor)
}

// DetectPhysical returns the first active monitor that is not headless.
func DetectPhysical(r Requester) (string, error) {
	var monitors []Monitor
	if err := r.RequestJSON("monitors", &monitors); err != nil {
		return "", errors.Wrap(err, "list monitors")
	}
	for _, m := range monitors {
		if !IsHeadless(m.Name) {
			return m.Name, nil
		}
	}
	return "", errors.New("no physical monitor found")
}

// ActiveWorkspaceName returns the name of the focused workspace.
func ActiveWorkspaceName(r Requester) (string, error) {
	var ws ActiveWorkspace
	if err := r.RequestJSON("activeworkspace", &ws); err != nil {
		return "", errors.Wrap(err, "query active workspace")
	}
	return ws.Name, nil
}

// SnapshotWorkspaces reads the current workspace-to-monitor assignment.
func SnapshotWorkspaces(r Requester) (Snapshot, error) {
	var workspaces []Workspace
	if err := r.RequestJSON("workspaces", &workspaces); err != nil {
		return nil, errors.Wrap(err, "list workspaces")
	}
	snap := make(Snapshot, len(workspaces))
	for _, w := range workspaces {
		snap[w.Name] = w.Monitor
	}
	return snap, nil
}

// PlanRestore lists the workspaces that creating headless pulled away from a
// real monitor. The streaming workspace is never included, nor is any
// workspace whose earlier host was itself headless or is unknown.
func PlanRestore(before, after Snapshot, headless, streaming string) []Move {
	var moves []Move
	for ws, mon := range after {
		if mon != headless || ws == streaming {
			continue
		}
		prev, ok := before[ws]
		if !ok || prev == headless || IsHeadless(prev) {
			continue
		}
		moves = append(moves, Move{Workspace: ws, Monitor: prev})
	}
	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Workspace < moves[j].Workspace
	})
	return moves
}

// RestoreStolen takes a fresh snapshot and moves every workspace in
// PlanRestore back to its earlier monitor. A failed move does not stop the
// others; the moves that succeeded are returned with the first error.
func RestoreStolen(r Requester, before Snapshot, headless, streaming string) ([]Move, error) {
	after, err := SnapshotWorkspaces(r)
	if err != nil {
		return nil, err
	}

	var (
		moved    []Move
		firstErr error
	)
	for _, m := range PlanRestore(before, after, headless, streaming) {
		if err := MoveWorkspace(r, m.Workspace, m.Monitor); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		moved = append(moved, m)
	}
	return moved, firstErr
}
