package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hippowm/hippowm/internal/wm"
)

// StatusProvider exposes the manager's published state. Snapshot must be
// safe to call from any goroutine.
type StatusProvider interface {
	Snapshot() wm.Snapshot
}

// Server answers control requests on a unix socket. It only reads
// published snapshots and never touches the event loop directly.
type Server struct {
	socketPath string
	status     StatusProvider
	quit       func()
	logger     *slog.Logger
	now        func() time.Time
}

// NewServer creates a server for socketPath. quit is called when a client
// sends QUIT.
func NewServer(socketPath string, status StatusProvider, quit func(), logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if quit == nil {
		quit = func() {}
	}
	return &Server{
		socketPath: socketPath,
		status:     status,
		quit:       quit,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Server) String() string {
	return "ipc.Server"
}

// Serve listens until ctx is cancelled. The socket file is removed on
// return.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	// Remove existing socket if present
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	defer os.Remove(s.socketPath)

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListClients:
		return s.handleListClients()
	case CommandQuit:
		return s.handleQuit()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	snap := s.status.Snapshot()
	status := StatusData{
		SessionID:     snap.SessionID,
		Display:       snap.Display,
		UptimeSeconds: int64(s.now().Sub(snap.Started).Seconds()),
		ClientCount:   len(snap.Clients),
		Focused:       snap.Focused,
		Dragging:      snap.Dragging,
		DragKind:      snap.DragKind,
		Faults:        snap.Faults,
	}
	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleListClients() *Response {
	snap := s.status.Snapshot()
	clients := snap.Clients
	if clients == nil {
		clients = []wm.Client{}
	}
	resp, err := NewOKResponse(ClientsData{Clients: clients})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleQuit() *Response {
	s.logger.Info("IPC: received QUIT command")
	s.quit()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}
