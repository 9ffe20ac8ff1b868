package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hyprstream/hyprstream/internal/ipc"
)

type fakeSender struct {
	replies map[ipc.Command]string
	err     error
	sent    []ipc.Command
}

func (f *fakeSender) Send(cmd ipc.Command) (string, error) {
	f.sent = append(f.sent, cmd)
	if f.err != nil {
		return "", f.err
	}
	return f.replies[cmd], nil
}

func TestModeTools(t *testing.T) {
	tests := []struct {
		cmd   ipc.Command
		reply string
		want  string
	}{
		{ipc.CommandEnable, ipc.ReplyEnabled, "enabled"},
		{ipc.CommandDisable, ipc.ReplyDisabled, "disabled"},
		{ipc.CommandToggle, ipc.ReplyEnabled, "enabled"},
	}
	for _, tt := range tests {
		t.Run(string(tt.cmd), func(t *testing.T) {
			sender := &fakeSender{replies: map[ipc.Command]string{tt.cmd: tt.reply}}
			s := NewServer(sender)

			_, out, err := s.modeHandler(tt.cmd)(context.Background(), nil, ModeInput{})
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if out.Mode != tt.want {
				t.Errorf("Mode = %q, want %q", out.Mode, tt.want)
			}
			if len(sender.sent) != 1 || sender.sent[0] != tt.cmd {
				t.Errorf("sent = %v", sender.sent)
			}
		})
	}
}

func TestModeTool_ErrorReplyBecomesError(t *testing.T) {
	sender := &fakeSender{replies: map[ipc.Command]string{ipc.CommandEnable: "error: enable failed"}}
	s := NewServer(sender)

	_, _, err := s.modeHandler(ipc.CommandEnable)(context.Background(), nil, ModeInput{})
	if err == nil || !strings.Contains(err.Error(), "enable failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestModeTool_DaemonUnreachable(t *testing.T) {
	sender := &fakeSender{err: errors.New("daemon not running")}
	s := NewServer(sender)

	if _, _, err := s.modeHandler(ipc.CommandToggle)(context.Background(), nil, ModeInput{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStatusTool(t *testing.T) {
	sender := &fakeSender{replies: map[ipc.Command]string{
		ipc.CommandStatus: "mode=enabled headless=HEADLESS-2 physical=eDP-1 workspace=9 mirroring=on",
	}}
	s := NewServer(sender)

	_, out, err := s.handleStatus(context.Background(), nil, StatusInput{})
	if err != nil {
		t.Fatalf("handleStatus error: %v", err)
	}
	want := StatusOutput{Mode: "enabled", Headless: "HEADLESS-2", Physical: "eDP-1", Workspace: "9", Mirroring: true}
	if out != want {
		t.Errorf("status = %+v, want %+v", out, want)
	}
}

func TestStatusTool_Disabled(t *testing.T) {
	sender := &fakeSender{replies: map[ipc.Command]string{
		ipc.CommandStatus: "mode=disabled headless=none physical=unknown workspace= mirroring=off",
	}}
	s := NewServer(sender)

	_, out, err := s.handleStatus(context.Background(), nil, StatusInput{})
	if err != nil {
		t.Fatalf("handleStatus error: %v", err)
	}
	if out != (StatusOutput{Mode: "disabled"}) {
		t.Errorf("status = %+v", out)
	}
}

func TestStatusTool_MalformedReply(t *testing.T) {
	sender := &fakeSender{replies: map[ipc.Command]string{ipc.CommandStatus: "garbage"}}
	s := NewServer(sender)

	if _, _, err := s.handleStatus(context.Background(), nil, StatusInput{}); err == nil {
		t.Fatalf("expected error for malformed reply")
	}
}

func TestServer_ListsTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeSender{})

	serverT, clientT := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverT, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{"streaming_enable", "streaming_disable", "streaming_toggle", "streaming_status"} {
		if !got[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
}
