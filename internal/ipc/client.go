package ipc

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/hyprstream/hyprstream/internal/runtimepath"
)

// Client sends control commands to a running daemon.
type Client struct {
	socketPath   string
	dialTimeout  time.Duration
	replyTimeout time.Duration
}

// NewClient creates a client for the default control socket.
func NewClient() *Client {
	return NewClientWithPath(runtimepath.ControlSocketPath())
}

// NewClientWithPath creates a client for the control socket at path.
func NewClientWithPath(path string) *Client {
	return &Client{
		socketPath:  path,
		dialTimeout: 5 * time.Second,
		// enable runs several compositor round-trips before replying
		replyTimeout: 30 * time.Second,
	}
}

// Send delivers cmd, half-closes the write side and returns the daemon's
// reply without the trailing newline.
func (c *Client) Send(cmd Command) (string, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.dialTimeout)
	if err != nil {
		return "", fmt.Errorf("daemon not running (connect %s): %w", c.socketPath, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.replyTimeout))

	if _, err := io.WriteString(conn, string(cmd)); err != nil {
		return "", fmt.Errorf("write control command %s: %w", cmd, err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		if err := uc.CloseWrite(); err != nil {
			return "", fmt.Errorf("close control write side: %w", err)
		}
	}

	data, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read control reply: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
