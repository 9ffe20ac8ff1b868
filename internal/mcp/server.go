package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hyprstream/hyprstream/internal/ipc"
)

const (
	ServerName    = "hyprstream"
	ServerVersion = "0.1.0"
)

// Sender delivers one control command to the daemon and returns its reply.
// *ipc.Client satisfies it.
type Sender interface {
	Send(cmd ipc.Command) (string, error)
}

// Server exposes the daemon's control commands as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	sender    Sender
}

// NewServer creates an MCP server that forwards tool calls to the daemon.
func NewServer(sender Sender) *Server {
	s := &Server{sender: sender}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP on the stdio transport, blocking until the client goes away
// or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "streaming_enable",
		Description: "Enable streaming mode: create a headless output, move the streaming workspace onto it and mirror the physical output whenever that workspace is focused. No-op when already enabled.",
	}, s.modeHandler(ipc.CommandEnable))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "streaming_disable",
		Description: "Disable streaming mode: return the streaming workspace to the physical output and remove the headless output. No-op when already disabled.",
	}, s.modeHandler(ipc.CommandDisable))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "streaming_toggle",
		Description: "Toggle streaming mode and return the resulting mode.",
	}, s.modeHandler(ipc.CommandToggle))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "streaming_status",
		Description: "Report whether streaming mode is enabled, which outputs are involved, the focused workspace and whether mirroring is active.",
	}, s.handleStatus)
}

// send forwards cmd and turns error replies into Go errors.
func (s *Server) send(cmd ipc.Command) (string, error) {
	reply, err := s.sender.Send(cmd)
	if err != nil {
		return "", err
	}
	if ipc.IsErrorReply(reply) {
		return "", fmt.Errorf("daemon: %s", reply)
	}
	return reply, nil
}

func (s *Server) modeHandler(cmd ipc.Command) mcpsdk.ToolHandlerFor[ModeInput, ModeOutput] {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, _ ModeInput) (*mcpsdk.CallToolResult, ModeOutput, error) {
		reply, err := s.send(cmd)
		if err != nil {
			return nil, ModeOutput{}, err
		}
		return nil, ModeOutput{Mode: reply}, nil
	}
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	reply, err := s.send(ipc.CommandStatus)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	st, err := ipc.ParseStatus(reply)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("unexpected status reply %q: %w", reply, err)
	}

	out := StatusOutput{
		Mode:      "disabled",
		Headless:  st.Headless,
		Physical:  st.Physical,
		Workspace: st.Workspace,
		Mirroring: st.Mirroring,
	}
	if st.Enabled {
		out.Mode = "enabled"
	}
	return nil, out, nil
}
