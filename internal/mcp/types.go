package mcp

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// StatusOutput is the output for the wm_status tool.
type StatusOutput struct {
	SessionID     string `json:"session_id"`
	Display       string `json:"display"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ClientCount   int    `json:"client_count"`
	Focused       string `json:"focused,omitempty"`
	Dragging      bool   `json:"dragging"`
	DragKind      string `json:"drag_kind,omitempty"`
	Faults        uint64 `json:"faults"`
}

// ClientInfo describes one managed window.
type ClientInfo struct {
	Child   string `json:"child"`
	Frame   string `json:"frame"`
	Focused bool   `json:"focused"`
}

// ListClientsOutput is the output for the wm_list_clients tool.
type ListClientsOutput struct {
	Clients []ClientInfo `json:"clients"`
	Count   int          `json:"count"`
}

// QuitOutput is the output for the wm_quit tool.
type QuitOutput struct {
	Requested bool `json:"requested"`
}
