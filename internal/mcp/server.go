package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hippowm/hippowm/internal/ipc"
)

const (
	ServerName    = "hippowm"
	ServerVersion = "0.1.0"
)

// Control is the part of the IPC client the tools use.
type Control interface {
	GetStatus() (*ipc.StatusData, error)
	ListClients() (*ipc.ClientsData, error)
	Quit() error
}

// Server exposes a running window manager to MCP clients over stdio.
type Server struct {
	mcpServer *mcpsdk.Server
	control   Control
	logger    *slog.Logger
}

// NewServer creates a server that forwards tool calls to control.
func NewServer(control Control, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		control: control,
		logger:  logger,
	}

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

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}
