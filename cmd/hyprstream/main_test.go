package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyprstream/hyprstream/internal/ipc"
)

type stubSender struct {
	reply string
	err   error
	sent  []ipc.Command
}

func (s *stubSender) Send(cmd ipc.Command) (string, error) {
	s.sent = append(s.sent, cmd)
	return s.reply, s.err
}

func withSender(t *testing.T, s sender, tty bool) {
	t.Helper()
	origSender, origTTY := newSender, isTerminal
	newSender = func() sender { return s }
	isTerminal = func(io.Writer) bool { return tty }
	t.Cleanup(func() {
		newSender = origSender
		isTerminal = origTTY
	})
}

func TestRun_UsageAndUnknown(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("no args exit = %d", code)
	}
	if !strings.Contains(stdout.String(), "Usage: hyprstream") {
		t.Fatalf("usage not printed: %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"frobnicate"}, &stdout, &stderr); code != 2 {
		t.Fatalf("unknown command exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "Unknown command: frobnicate") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if stdout.String() != "hyprstream dev\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestControl_PrintsReply(t *testing.T) {
	stub := &stubSender{reply: ipc.ReplyEnabled}
	withSender(t, stub, false)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"toggle"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr.String())
	}
	if stdout.String() != "enabled\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
	if len(stub.sent) != 1 || stub.sent[0] != ipc.CommandToggle {
		t.Fatalf("sent = %v", stub.sent)
	}
}

func TestControl_ErrorReplyExitsNonZero(t *testing.T) {
	withSender(t, &stubSender{reply: "error: enable failed"}, false)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"enable"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "error: enable failed") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestControl_DaemonUnreachable(t *testing.T) {
	withSender(t, &stubSender{err: errors.New("daemon not running")}, false)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"quit"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit = %d", code)
	}
}

func TestControl_RejectsArguments(t *testing.T) {
	withSender(t, &stubSender{}, false)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"status", "extra"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit = %d", code)
	}
}

func TestStatus_TableOnTerminal(t *testing.T) {
	line := "mode=enabled headless=HEADLESS-1 physical=eDP-1 workspace=9 mirroring=on"
	withSender(t, &stubSender{reply: line}, true)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"status"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := stdout.String()
	for _, want := range []string{"mode:", "enabled", "headless:", "HEADLESS-1", "mirroring:", "on"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	stdout.Reset()
	if code := run([]string{"status", "--raw"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if stdout.String() != line+"\n" {
		t.Fatalf("raw status = %q", stdout.String())
	}
}

func TestStatus_RawLineWhenPiped(t *testing.T) {
	line := "mode=disabled headless=none physical=unknown workspace= mirroring=off"
	withSender(t, &stubSender{reply: line}, false)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"status"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if stdout.String() != line+"\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestConfigPrint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := "streaming_workspace = 5\nvirtual_resolution = 2560x1440@60\nbogus = 1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"config", "print", "-c", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"streaming_workspace: \"5\"", "virtual_resolution: 2560x1440@60", "auto_enable: false"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr.String(), "bogus") {
		t.Errorf("expected unknown-key warning on stderr, got %q", stderr.String())
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"config", "path"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	want := filepath.Join(dir, "hyprstream", "config") + "\n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestDaemon_BadLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"daemon", "--log-level", "loud"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit = %d", code)
	}
}

func TestDaemon_NoHyprland(t *testing.T) {
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	if code := run([]string{"daemon"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit = %d, stderr = %q", code, stderr.String())
	}
}
