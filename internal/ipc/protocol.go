package ipc

import (
	"errors"
	"fmt"
	"strings"
)

// Command is one of the fixed control verbs understood by the daemon.
type Command string

const (
	CommandEnable  Command = "enable"
	CommandDisable Command = "disable"
	CommandToggle  Command = "toggle"
	CommandStatus  Command = "status"
	CommandQuit    Command = "quit"
)

// Commands lists every control verb.
var Commands = []Command{CommandEnable, CommandDisable, CommandToggle, CommandStatus, CommandQuit}

// ErrUnknownCommand is returned by ParseCommand for anything outside Commands.
var ErrUnknownCommand = errors.New("unknown command")

// Replies sent for successful commands.
const (
	ReplyEnabled      = "enabled"
	ReplyDisabled     = "disabled"
	ReplyShuttingDown = "shutting down"
)

const errorPrefix = "error: "

// ParseCommand trims surrounding whitespace and matches the verb exactly
// (case-sensitive).
func ParseCommand(raw string) (Command, error) {
	s := strings.TrimSpace(raw)
	for _, c := range Commands {
		if s == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// UnknownCommandReply is the reply to an unparseable command.
func UnknownCommandReply(raw string) string {
	return errorPrefix + "unknown command: " + raw
}

// FailureReply is the reply to a failed enable, disable or toggle. Error
// detail stays in the daemon log.
func FailureReply(op Command) string {
	return errorPrefix + string(op) + " failed"
}

// IsErrorReply reports whether a reply signals failure.
func IsErrorReply(reply string) bool {
	return strings.HasPrefix(reply, errorPrefix)
}

// Status is the daemon state reported by the status command.
type Status struct {
	Enabled   bool
	Headless  string
	Physical  string
	Workspace string
	Mirroring bool
}

// String renders the status line:
//
//	mode=<enabled|disabled> headless=<id|none> physical=<id|unknown> workspace=<id> mirroring=<on|off>
func (s Status) String() string {
	mode := "disabled"
	if s.Enabled {
		mode = "enabled"
	}
	headless := s.Headless
	if headless == "" {
		headless = "none"
	}
	physical := s.Physical
	if physical == "" {
		physical = "unknown"
	}
	mirroring := "off"
	if s.Mirroring {
		mirroring = "on"
	}
	return fmt.Sprintf("mode=%s headless=%s physical=%s workspace=%s mirroring=%s",
		mode, headless, physical, s.Workspace, mirroring)
}

// ParseStatus reads a line produced by Status.String.
func ParseStatus(line string) (Status, error) {
	var st Status
	seen := 0
	for _, field := range strings.Fields(strings.TrimSpace(line)) {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return Status{}, fmt.Errorf("malformed status field %q", field)
		}
		switch key {
		case "mode":
			st.Enabled = val == "enabled"
		case "headless":
			if val != "none" {
				st.Headless = val
			}
		case "physical":
			if val != "unknown" {
				st.Physical = val
			}
		case "workspace":
			st.Workspace = val
		case "mirroring":
			st.Mirroring = val == "on"
		default:
			return Status{}, fmt.Errorf("unknown status field %q", key)
		}
		seen++
	}
	if seen == 0 {
		return Status{}, fmt.Errorf("empty status line")
	}
	return st, nil
}
