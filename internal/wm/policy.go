package wm

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// FaultHandler receives protocol errors. It runs on whatever goroutine is
// reading from the connection and must return normally.
type FaultHandler interface {
	HandleFault(f Fault)
}

// FaultHandlerFunc adapts a function to FaultHandler.
type FaultHandlerFunc func(f Fault)

func (fn FaultHandlerFunc) HandleFault(f Fault) { fn(f) }

// Policy owns the fault handler slot of a Display. It starts in detection
// mode for the ownership handshake and switches to steady-state logging
// exactly once.
type Policy struct {
	logger   *slog.Logger
	detected atomic.Bool
	faults   atomic.Uint64
}

func NewPolicy(logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{logger: logger}
}

// TakeOwnership performs the single-owner handshake: it selects
// RootEventMask on the root window, synchronizes, and fails with
// *AnotherManagerError if the server answered with an access fault.
// On success the steady-state handler is installed.
func (p *Policy) TakeOwnership(d Display) error {
	p.detected.Store(false)
	d.SetFaultHandler(detectHandler{p: p})

	if err := d.SelectInput(d.Root(), RootEventMask); err != nil {
		return fmt.Errorf("select root input: %w", err)
	}
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync after root input selection: %w", err)
	}

	if p.detected.Load() {
		return &AnotherManagerError{Display: d.Name()}
	}

	d.SetFaultHandler(steadyHandler{p: p})
	p.logger.Debug("display ownership acquired", "display", d.Name())
	return nil
}

// Faults is the number of protocol errors absorbed since startup.
func (p *Policy) Faults() uint64 {
	return p.faults.Load()
}

type detectHandler struct {
	p *Policy
}

func (h detectHandler) HandleFault(f Fault) {
	if f.Code == FaultAccess {
		h.p.detected.Store(true)
		return
	}
	h.p.faults.Add(1)
	h.p.logger.Warn("unexpected protocol error during ownership handshake",
		"code", f.Code,
		"error", f.Name,
		"request", f.Request,
		"resource", fmt.Sprintf("0x%x", f.Resource))
}

type steadyHandler struct {
	p *Policy
}

func (h steadyHandler) HandleFault(f Fault) {
	h.p.faults.Add(1)
	h.p.logger.Warn("protocol error",
		"code", f.Code,
		"error", f.Name,
		"request", f.Request,
		"resource", fmt.Sprintf("0x%x", f.Resource),
		"sequence", f.Sequence)
}
