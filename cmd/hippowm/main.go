package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hippowm/hippowm/internal/wm"
)

const (
	exitOK             = 0
	exitError          = 1
	exitUsage          = 2
	exitNoDisplay      = 3
	exitAnotherManager = 4
	exitStartupHook    = 5
)

func main() {
	err := newRootCmd().Execute()
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status and prints the
// one-line diagnostic for it.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(os.Stderr, "hippowm: %v\n", err)

	var usage *usageError
	switch {
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, wm.ErrNoDisplay):
		return exitNoDisplay
	case errors.Is(err, wm.ErrAnotherManager):
		return exitAnotherManager
	case isStartupHook(err):
		return exitStartupHook
	default:
		return exitError
	}
}

func isStartupHook(err error) bool {
	var hook *wm.StartupHookError
	return errors.As(err, &hook)
}

// usageError marks bad command-line input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
