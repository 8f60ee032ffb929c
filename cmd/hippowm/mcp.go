package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hippowm/hippowm/internal/ipc"
	"github.com/hippowm/hippowm/internal/logging"
	"github.com/hippowm/hippowm/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
		Args:  usageArgs(cobra.NoArgs),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve window manager tools over MCP stdio",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs go to stderr.
			logger := logging.Component(logging.New(os.Stderr, slog.LevelInfo), "mcp")
			return mcp.NewServer(ipc.NewClient(), logger).Run(cmd.Context())
		},
	})
	return cmd
}
