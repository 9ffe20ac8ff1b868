package daemon

import (
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/hyprstream/hyprstream/internal/hypr"
	"github.com/hyprstream/hyprstream/internal/ipc"
)

const (
	DefaultReconnectDelay = 2 * time.Second
	DefaultMaxReconnect   = 30
	DefaultPollTimeout    = 1000 * time.Millisecond

	controlTimeout = 2 * time.Second
	readChunk      = 64 * 1024
)

// ErrReconnectExhausted is returned by Run when the event socket could not
// be reached within the configured number of attempts.
var ErrReconnectExhausted = errors.New("event socket reconnect attempts exhausted")

// LoopConfig configures the event loop.
type LoopConfig struct {
	// EventSocket is the compositor's event stream socket.
	EventSocket string
	// ControlSocket is where the daemon listens for control commands.
	ControlSocket string

	ReconnectDelay time.Duration
	MaxReconnect   int
	PollTimeout    time.Duration

	Logger *slog.Logger
}

// Loop multiplexes the compositor event stream and the control socket on a
// single goroutine so that every Machine transition is serialized.
type Loop struct {
	cfg     LoopConfig
	machine *Machine
	logger  *slog.Logger

	stop     atomic.Bool
	listener *net.UnixListener
	lines    *hypr.LineBuffer
	chunk    []byte
}

func NewLoop(cfg LoopConfig, machine *Machine) *Loop {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.MaxReconnect <= 0 {
		cfg.MaxReconnect = DefaultMaxReconnect
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		cfg:     cfg,
		machine: machine,
		logger:  logger,
		lines:   hypr.NewLineBuffer(4096),
		chunk:   make([]byte, readChunk),
	}
}

// Stop asks Run to return after the current iteration. Safe to call from
// any goroutine, including signal handlers.
func (l *Loop) Stop() {
	l.stop.Store(true)
}

// StopOnSignals calls Stop on SIGINT or SIGTERM. The returned function
// releases the signal registration.
func (l *Loop) StopOnSignals() func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			l.logger.Info("received signal, shutting down", "signal", sig.String())
			l.Stop()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// Run opens the control socket, applies auto-enable and serves events and
// control commands until stopped. On return streaming mode has been
// disabled and the control socket removed.
func (l *Loop) Run() error {
	listener, err := ipc.Listen(l.cfg.ControlSocket)
	if err != nil {
		return err
	}
	l.listener = listener
	defer l.shutdown()
	l.logger.Info("control socket listening", "path", l.cfg.ControlSocket)

	l.machine.AutoEnable()

	attempts := 0
	for !l.stop.Load() {
		conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: l.cfg.EventSocket, Net: "unix"})
		if err != nil {
			attempts++
			if attempts > l.cfg.MaxReconnect {
				l.logger.Error("giving up on event socket", "path", l.cfg.EventSocket, "attempts", l.cfg.MaxReconnect)
				return errors.Wrapf(ErrReconnectExhausted, "%s after %d attempts", l.cfg.EventSocket, l.cfg.MaxReconnect)
			}
			l.logger.Warn("event socket unavailable, retrying",
				"path", l.cfg.EventSocket,
				"attempt", attempts,
				"max", l.cfg.MaxReconnect,
				"delay", l.cfg.ReconnectDelay,
				"error", err,
			)
			if err := l.wait(l.cfg.ReconnectDelay); err != nil {
				return err
			}
			continue
		}

		attempts = 0
		l.logger.Info("connected to event socket", "path", l.cfg.EventSocket)
		err = l.serve(conn)
		conn.Close()
		if err != nil {
			return err
		}
		if l.stop.Load() {
			break
		}
		if err := l.wait(l.cfg.ReconnectDelay); err != nil {
			return err
		}
	}
	return nil
}

// serve polls one event connection together with the control socket. It
// returns nil when the connection is lost or a stop was requested.
func (l *Loop) serve(conn *net.UnixConn) error {
	l.lines.Reset()

	eventFD, err := fdOf(conn)
	if err != nil {
		return errors.Wrap(err, "event socket descriptor")
	}
	listenFD, err := fdOf(l.listener)
	if err != nil {
		return errors.Wrap(err, "control socket descriptor")
	}

	for !l.stop.Load() {
		fds := []unix.PollFd{
			{Fd: int32(eventFD), Events: unix.POLLIN},
			{Fd: int32(listenFD), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, pollMillis(l.cfg.PollTimeout))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return errors.Wrap(err, "poll")
		}
		if n == 0 {
			continue
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			if !l.readEvents(conn) {
				return nil
			}
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			l.logger.Warn("event socket closed by compositor")
			return nil
		}
		if fds[1].Revents&unix.POLLIN != 0 {
			l.acceptControl()
		}
	}
	return nil
}

// wait sleeps for d while still answering control commands, returning early
// when stopped.
func (l *Loop) wait(d time.Duration) error {
	listenFD, err := fdOf(l.listener)
	if err != nil {
		return errors.Wrap(err, "control socket descriptor")
	}

	deadline := time.Now().Add(d)
	for !l.stop.Load() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		fds := []unix.PollFd{{Fd: int32(listenFD), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, pollMillis(min(remaining, l.cfg.PollTimeout)))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return errors.Wrap(err, "poll")
		}
		if n > 0 && fds[0].Revents&unix.POLLIN != 0 {
			l.acceptControl()
		}
	}
	return nil
}

// readEvents reads what is available on the event connection and dispatches
// complete lines. It reports false when the connection is gone.
func (l *Loop) readEvents(conn *net.UnixConn) bool {
	conn.SetReadDeadline(time.Now().Add(l.cfg.PollTimeout))
	n, err := conn.Read(l.chunk)
	if n > 0 {
		l.lines.Append(l.chunk[:n])
		for _, line := range l.lines.Lines() {
			ev, ok := hypr.ParseEvent(line)
			if !ok {
				l.logger.Debug("ignoring malformed event", "line", line)
				continue
			}
			l.machine.HandleEvent(ev)
		}
	}
	if err == nil || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	if pending := l.lines.Pending(); pending > 0 {
		l.logger.Debug("discarding partial event line", "bytes", pending)
	}
	if err == io.EOF {
		l.logger.Warn("event socket connection lost", "reconnect_in", l.cfg.ReconnectDelay)
	} else {
		l.logger.Warn("event socket read failed", "error", err)
	}
	return false
}

// acceptControl serves a single pending control connection.
func (l *Loop) acceptControl() {
	l.listener.SetDeadline(time.Now().Add(l.cfg.PollTimeout))
	conn, err := l.listener.Accept()
	if err != nil {
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			l.logger.Warn("control accept failed", "error", err)
		}
		return
	}

	err = ipc.Serve(conn, controlTimeout, func(raw string) string {
		reply, quit := l.machine.Dispatch(raw)
		if quit {
			l.Stop()
		}
		return reply
	})
	if err != nil {
		l.logger.Warn("control request failed", "error", err)
	}
}

func (l *Loop) shutdown() {
	if l.machine.State().Mode == ModeEnabled {
		if err := l.machine.Disable(); err != nil {
			l.logger.Warn("disable on shutdown failed", "error", err)
		}
	}
	l.listener.Close()
	if err := os.Remove(l.cfg.ControlSocket); err != nil && !os.IsNotExist(err) {
		l.logger.Warn("failed to remove control socket", "path", l.cfg.ControlSocket, "error", err)
	}
	l.logger.Info("daemon stopped")
}

func fdOf(c syscall.Conn) (int, error) {
	raw, err := c.SyscallConn()
	if err != nil {
		return -1, err
	}
	fd := -1
	if err := raw.Control(func(f uintptr) { fd = int(f) }); err != nil {
		return -1, err
	}
	return fd, nil
}

// pollMillis rounds d up to whole milliseconds so short waits do not spin.
func pollMillis(d time.Duration) int {
	return int((d + time.Millisecond - 1) / time.Millisecond)
}
