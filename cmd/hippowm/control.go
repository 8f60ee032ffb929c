package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hippowm/hippowm/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status of the running window manager",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(status, plainOutput()))
			return nil
		},
	}
}

func newClientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List managed windows as child/frame pairs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient()
			data, err := client.ListClients()
			if err != nil {
				return err
			}
			status, err := client.GetStatus()
			if err != nil {
				return err
			}
			writeClients(cmd.OutOrStdout(), data, status, plainOutput())
			return nil
		},
	}
}

func newQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Ask the running window manager to exit",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ipc.NewClient().Quit(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "quit requested")
			return nil
		},
	}
}

func renderStatus(s *ipc.StatusData, plain bool) string {
	focused := "none"
	if s.Focused != 0 {
		focused = s.Focused.String()
	}
	drag := "idle"
	if s.Dragging {
		drag = s.DragKind
	}
	rows := [][2]string{
		{"session", s.SessionID},
		{"display", s.Display},
		{"uptime", (time.Duration(s.UptimeSeconds) * time.Second).String()},
		{"clients", fmt.Sprintf("%d", s.ClientCount)},
		{"focused", focused},
		{"drag", drag},
		{"faults", fmt.Sprintf("%d", s.Faults)},
	}

	if plain {
		var b strings.Builder
		for i, r := range rows {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%-10s%s", r[0], r[1])
		}
		return b.String()
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, activeStyle.Render("● running"))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	return headerStyle.Render("HIPPOWM") + "\n" + boxStyle.Render(strings.Join(lines, "\n"))
}

func writeClients(w io.Writer, data *ipc.ClientsData, status *ipc.StatusData, plain bool) {
	if len(data.Clients) == 0 {
		fmt.Fprintln(w, "no managed windows")
		return
	}
	if !plain {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Managed windows (%d)", len(data.Clients))))
	}
	for _, c := range data.Clients {
		marker := " "
		if c.Child == status.Focused {
			marker = "*"
			if !plain {
				marker = activeStyle.Render("●")
			}
		}
		fmt.Fprintf(w, "%s %-12s frame %s\n", marker, c.Child.String(), c.Frame.String())
	}
}
