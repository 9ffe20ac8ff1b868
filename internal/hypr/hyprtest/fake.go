// Package hyprtest provides an in-memory Hyprland stand-in for tests.
package hyprtest

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/hyprstream/hyprstream/internal/hypr"
)

// Fake implements hypr.Requester against an in-memory monitor and workspace
// model. It records every request and understands the commands the daemon
// issues.
type Fake struct {
	// Monitors lists output names in creation order.
	Monitors []string
	// Workspaces maps workspace name to hosting monitor.
	Workspaces map[string]string
	// Active is the focused workspace name.
	Active string
	// NextHeadless is the suffix given to the next created headless output.
	NextHeadless int
	// StealOnCreate lists workspaces Hyprland reassigns to a freshly created
	// headless output.
	StealOnCreate []string

	// Calls records plain commands in order.
	Calls []string
	// Queries records JSON queries in order.
	Queries []string

	failures map[string]error
	rejects  map[string]string
	nth      map[string]*nthFailure
}

type nthFailure struct {
	n, seen int
	err     error
}

// New returns a fake with one physical monitor hosting the given workspaces.
func New(physical string, workspaces ...string) *Fake {
	f := &Fake{
		Monitors:     []string{physical},
		Workspaces:   make(map[string]string),
		NextHeadless: 1,
		failures:     make(map[string]error),
		rejects:      make(map[string]string),
		nth:          make(map[string]*nthFailure),
	}
	for _, ws := range workspaces {
		f.Workspaces[ws] = physical
	}
	if len(workspaces) > 0 {
		f.Active = workspaces[0]
	}
	return f
}

// FailOn makes any request starting with prefix return err.
func (f *Fake) FailOn(prefix string, err error) {
	f.failures[prefix] = err
}

// FailNth makes the n-th request (counting from 1) starting with prefix
// return err; the others succeed.
func (f *Fake) FailNth(prefix string, n int, err error) {
	f.nth[prefix] = &nthFailure{n: n, err: err}
}

// RejectOn makes any plain command starting with prefix answer reply
// instead of "ok".
func (f *Fake) RejectOn(prefix, reply string) {
	f.rejects[prefix] = reply
}

// ClearFailures removes every injected failure and rejection.
func (f *Fake) ClearFailures() {
	f.failures = make(map[string]error)
	f.rejects = make(map[string]string)
	f.nth = make(map[string]*nthFailure)
}

// ResetCalls forgets recorded requests.
func (f *Fake) ResetCalls() {
	f.Calls = nil
	f.Queries = nil
}

// CallsWithPrefix returns the recorded plain commands starting with prefix.
func (f *Fake) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) injected(command string) (reply string, ok bool, err error) {
	for prefix, nf := range f.nth {
		if strings.HasPrefix(command, prefix) {
			nf.seen++
			if nf.seen == nf.n {
				return "", true, nf.err
			}
		}
	}
	for prefix, err := range f.failures {
		if strings.HasPrefix(command, prefix) {
			return "", true, err
		}
	}
	for prefix, reply := range f.rejects {
		if strings.HasPrefix(command, prefix) {
			return reply, true, nil
		}
	}
	return "", false, nil
}

func (f *Fake) Request(command string) (string, error) {
	f.Calls = append(f.Calls, command)
	if reply, ok, err := f.injected(command); ok {
		return reply, err
	}

	fields := strings.Fields(command)
	switch {
	case command == "output create headless":
		name := fmt.Sprintf("%s%d", hypr.HeadlessPrefix, f.NextHeadless)
		f.NextHeadless++
		f.Monitors = append(f.Monitors, name)
		for _, ws := range f.StealOnCreate {
			f.Workspaces[ws] = name
		}
	case len(fields) == 3 && fields[0] == "output" && fields[1] == "remove":
		i := slices.Index(f.Monitors, fields[2])
		if i < 0 {
			return "output not found", nil
		}
		f.Monitors = slices.Delete(f.Monitors, i, i+1)
	case len(fields) == 4 && fields[0] == "dispatch" && fields[1] == "moveworkspacetomonitor":
		if !slices.Contains(f.Monitors, fields[3]) {
			return "monitor not found", nil
		}
		f.Workspaces[fields[2]] = fields[3]
	case strings.HasPrefix(command, "keyword "):
	default:
		return "unknown request", nil
	}
	return "ok", nil
}

func (f *Fake) RequestJSON(command string, v any) error {
	f.Queries = append(f.Queries, command)
	if reply, ok, err := f.injected(command); ok {
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(reply), v)
	}

	var payload any
	switch command {
	case "monitors", "monitors all":
		monitors := make([]hypr.Monitor, 0, len(f.Monitors))
		for i, name := range f.Monitors {
			monitors = append(monitors, hypr.Monitor{ID: i, Name: name})
		}
		payload = monitors
	case "workspaces":
		names := make([]string, 0, len(f.Workspaces))
		for name := range f.Workspaces {
			names = append(names, name)
		}
		sort.Strings(names)
		workspaces := make([]hypr.Workspace, 0, len(names))
		for _, name := range names {
			workspaces = append(workspaces, hypr.Workspace{Name: name, Monitor: f.Workspaces[name]})
		}
		payload = workspaces
	case "activeworkspace":
		payload = hypr.ActiveWorkspace{Name: f.Active}
	default:
		return fmt.Errorf("hyprtest: unsupported json query %q", command)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
