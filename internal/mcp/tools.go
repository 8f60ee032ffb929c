package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_status",
		Description: "Report the running window manager's session id, display, uptime, number of managed windows, focused window, drag state and protocol fault count.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_list_clients",
		Description: "List every managed window as a child/frame id pair in management order, marking the focused one.",
	}, s.handleListClients)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_quit",
		Description: "Ask the window manager to shut down cleanly. Managed windows are released back to the root window.",
	}, s.handleQuit)
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.control.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("wm_status: %w", err)
	}
	out := StatusOutput{
		SessionID:     status.SessionID,
		Display:       status.Display,
		UptimeSeconds: status.UptimeSeconds,
		ClientCount:   status.ClientCount,
		Dragging:      status.Dragging,
		DragKind:      status.DragKind,
		Faults:        status.Faults,
	}
	if status.Focused != 0 {
		out.Focused = status.Focused.String()
	}
	return nil, out, nil
}

func (s *Server) handleListClients(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListClientsOutput, error) {
	data, err := s.control.ListClients()
	if err != nil {
		return nil, ListClientsOutput{}, fmt.Errorf("wm_list_clients: %w", err)
	}

	// Focus is best-effort; the listing is still useful without it.
	var focused string
	if status, err := s.control.GetStatus(); err == nil && status.Focused != 0 {
		focused = status.Focused.String()
	}

	clients := make([]ClientInfo, 0, len(data.Clients))
	for _, c := range data.Clients {
		child := c.Child.String()
		clients = append(clients, ClientInfo{
			Child:   child,
			Frame:   c.Frame.String(),
			Focused: child == focused,
		})
	}
	return nil, ListClientsOutput{Clients: clients, Count: len(clients)}, nil
}

func (s *Server) handleQuit(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, QuitOutput, error) {
	if err := s.control.Quit(); err != nil {
		return nil, QuitOutput{}, fmt.Errorf("wm_quit: %w", err)
	}
	s.logger.Info("quit requested over MCP")
	return nil, QuitOutput{Requested: true}, nil
}
