package ipc

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"
)

// maxCommandLen bounds the single read of a control command.
const maxCommandLen = 256

// Listen creates the control socket at path, replacing a stale socket file
// left by a previous daemon, and restricts it to the owner.
func Listen(path string) (*net.UnixListener, error) {
	// Stale socket from a previous run.
	os.Remove(path)

	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("failed to create control socket: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return listener, nil
}

// ReadCommand performs a single read of one command from conn and returns
// it trimmed. A connection closed without data yields io.EOF.
func ReadCommand(conn net.Conn, timeout time.Duration) (string, error) {
	if timeout > 0 {
		conn.SetReadDeadline(time.Now().Add(timeout))
	}

	buf := make([]byte, maxCommandLen)
	n, err := conn.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return "", err
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

// WriteReply writes reply as a single line.
func WriteReply(conn net.Conn, reply string, timeout time.Duration) error {
	if timeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	if _, err := io.WriteString(conn, reply+"\n"); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// Serve handles one request/response exchange on conn and closes it.
// handle receives the trimmed command text and returns the reply.
func Serve(conn net.Conn, timeout time.Duration, handle func(raw string) string) error {
	defer conn.Close()

	raw, err := ReadCommand(conn, timeout)
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("read control command: %w", err)
	}

	return WriteReply(conn, handle(raw), timeout)
}
