package hypr

import (
	"fmt"
	"strings"
)

// ConnectionError reports a failure to dial, write to, or drain the
// compositor request socket.
type ConnectionError struct {
	Op   string // "dial", "write" or "read"
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("hyprland socket %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a mutating command the compositor answered with
// something other than "ok". The transport succeeded; the command did not.
type ProtocolError struct {
	Command string
	Reply   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("hyprland rejected %q: %s", e.Command, strings.TrimSpace(e.Reply))
}

// ParseError reports a structured reply that does not match the expected
// schema.
type ParseError struct {
	Command string
	Reply   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse hyprland reply for %q: %v", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
