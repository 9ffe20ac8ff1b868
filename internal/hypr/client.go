// Package hypr talks to the Hyprland compositor over its unix sockets.
//
// Requests use a connection per request: the command is written once,
// prefixed with "/" for a plain reply or "j/" for JSON, and the reply is read
// until the compositor closes the connection.
package hypr

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strings"
)

// Requester is the pair of primitives every compositor operation is built on.
// The daemon depends only on this interface.
type Requester interface {
	// Request sends a plain command and returns the raw reply.
	Request(command string) (string, error)
	// RequestJSON sends a structured query and decodes the reply into v.
	RequestJSON(command string, v any) error
}

// Client is the socket-backed Requester.
type Client struct {
	socketPath string
	logger     *slog.Logger
}

// NewClient returns a client for the request socket at socketPath.
func NewClient(socketPath string, logger *slog.Logger) *Client {
	return &Client{
		socketPath: socketPath,
		logger:     logger,
	}
}

func (c *Client) Request(command string) (string, error) {
	c.logger.Debug("hyprctl request", "command", command)
	reply, err := c.send("/" + command)
	if err != nil {
		return "", err
	}
	c.logger.Debug("hyprctl reply", "command", command, "reply", strings.TrimSpace(reply))
	return reply, nil
}

func (c *Client) RequestJSON(command string, v any) error {
	c.logger.Debug("hyprctl json request", "command", command)
	reply, err := c.send("j/" + command)
	if err != nil {
		return err
	}
	c.logger.Debug("hyprctl json reply", "command", command, "bytes", len(reply))
	if err := json.Unmarshal([]byte(reply), v); err != nil {
		return &ParseError{Command: command, Reply: reply, Err: err}
	}
	return nil
}

func (c *Client) send(payload string) (string, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return "", &ConnectionError{Op: "dial", Path: c.socketPath, Err: err}
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, payload); err != nil {
		return "", &ConnectionError{Op: "write", Path: c.socketPath, Err: err}
	}

	out, err := io.ReadAll(conn)
	if err != nil {
		return "", &ConnectionError{Op: "read", Path: c.socketPath, Err: err}
	}
	return string(out), nil
}
