package wm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDisplay means the display server could not be reached.
	ErrNoDisplay = errors.New("cannot open display")
	// ErrAnotherManager means the ownership handshake found an existing
	// window manager on the display.
	ErrAnotherManager = errors.New("another window manager is already running")
	// ErrInvalidWindow is wrapped by Display calls that reference a window
	// the server has already destroyed.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrDuplicateClient is returned when a child or frame is inserted twice.
	ErrDuplicateClient = errors.New("window is already managed")
	// ErrConnectionClosed ends the event loop.
	ErrConnectionClosed = errors.New("display connection closed")
)

// NoDisplayError carries the display name that could not be opened.
type NoDisplayError struct {
	Display string
	Err     error
}

func (e *NoDisplayError) Error() string {
	name := e.Display
	if name == "" {
		name = "(unset)"
	}
	if e.Err == nil {
		return fmt.Sprintf("cannot open display %s", name)
	}
	return fmt.Sprintf("cannot open display %s: %v", name, e.Err)
}

func (e *NoDisplayError) Unwrap() []error {
	return []error{ErrNoDisplay, e.Err}
}

// AnotherManagerError names the display that is already managed.
type AnotherManagerError struct {
	Display string
}

func (e *AnotherManagerError) Error() string {
	return fmt.Sprintf("another window manager is already running on display %s", e.Display)
}

func (e *AnotherManagerError) Unwrap() error {
	return ErrAnotherManager
}

// StartupHookError reports an auto-start command that failed to launch.
type StartupHookError struct {
	Command string
	Err     error
}

func (e *StartupHookError) Error() string {
	return fmt.Sprintf("startup hook %q failed: %v", e.Command, e.Err)
}

func (e *StartupHookError) Unwrap() error {
	return e.Err
}

// Protocol error codes from the core X11 protocol.
const (
	FaultRequest        uint8 = 1
	FaultValue          uint8 = 2
	FaultWindow         uint8 = 3
	FaultPixmap         uint8 = 4
	FaultAtom           uint8 = 5
	FaultCursor         uint8 = 6
	FaultFont           uint8 = 7
	FaultMatch          uint8 = 8
	FaultDrawable       uint8 = 9
	FaultAccess         uint8 = 10
	FaultAlloc          uint8 = 11
	FaultColormap       uint8 = 12
	FaultGContext       uint8 = 13
	FaultIDChoice       uint8 = 14
	FaultName           uint8 = 15
	FaultLength         uint8 = 16
	FaultImplementation uint8 = 17
)

// Fault is an asynchronous protocol error reported by the server for an
// earlier request.
type Fault struct {
	Code        uint8
	Name        string
	Request     string
	MajorOpcode uint8
	MinorOpcode uint16
	Resource    uint32
	Sequence    uint16
}

func (f Fault) Error() string {
	return fmt.Sprintf("X error %d (%s) on request %s, resource 0x%x, sequence %d",
		f.Code, f.Name, f.Request, f.Resource, f.Sequence)
}

// InvalidWindow reports whether the fault means the referenced window
// no longer exists.
func (f Fault) InvalidWindow() bool {
	return f.Code == FaultWindow || f.Code == FaultDrawable
}
