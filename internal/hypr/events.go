package hypr

import (
	"bytes"
	"strings"
)

// EventSeparator splits an event line into its kind and payload.
const EventSeparator = ">>"

// Event is one record of the Hyprland event stream (.socket2.sock).
type Event struct {
	Kind    string
	Payload string
}

// ParseEvent splits a "kind>>payload" line. Lines without a separator are
// rejected.
func ParseEvent(line string) (Event, bool) {
	kind, payload, ok := strings.Cut(line, EventSeparator)
	if !ok || kind == "" {
		return Event{}, false
	}
	return Event{Kind: kind, Payload: payload}, true
}

// TriggersReconcile reports whether the event can change which workspace
// is focused.
func (e Event) TriggersReconcile() bool {
	switch e.Kind {
	case "workspace", "focusedmon", "activewindow", "movewindow":
		return true
	}
	return false
}

// IsMonitorRemoved reports whether the event announces a removed output.
// The payload is the output name.
func (e Event) IsMonitorRemoved() bool {
	return e.Kind == "monitorremoved"
}

// LineBuffer frames the event stream into newline-terminated records. A
// trailing partial record is kept until the rest of it arrives.
type LineBuffer struct {
	buf []byte
}

// NewLineBuffer returns a buffer with room for size bytes before growing.
func NewLineBuffer(size int) *LineBuffer {
	return &LineBuffer{buf: make([]byte, 0, size)}
}

// Append adds raw bytes read from the stream.
func (b *LineBuffer) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// Lines removes and returns every complete record in arrival order. Line
// terminators (LF or CRLF) are stripped and empty records skipped.
func (b *LineBuffer) Lines() []string {
	var lines []string
	start := 0
	for {
		i := bytes.IndexByte(b.buf[start:], '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(b.buf[start:start+i]), "\r")
		start += i + 1
		if line != "" {
			lines = append(lines, line)
		}
	}
	if start > 0 {
		n := copy(b.buf, b.buf[start:])
		b.buf = b.buf[:n]
	}
	return lines
}

// Pending returns the number of buffered bytes not yet forming a record.
func (b *LineBuffer) Pending() int {
	return len(b.buf)
}

// Reset discards any partial record.
func (b *LineBuffer) Reset() {
	b.buf = b.buf[:0]
}
