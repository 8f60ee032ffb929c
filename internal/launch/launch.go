// Package launch starts external programs on behalf of the window manager:
// key-bound commands and the auto-start hook.
package launch

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/hippowm/hippowm/internal/wm"
)

type Launcher struct {
	// Shell runs key-bound commands. Defaults to "sh".
	Shell string
	// HookShell runs the joined auto-start commands. Defaults to "bash".
	HookShell string

	logger *slog.Logger
}

func New(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{Shell: "sh", HookShell: "bash", logger: logger}
}

// Spawn runs command through the shell without waiting for it. The child
// gets its own session so it survives the manager.
func (l *Launcher) Spawn(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("empty command")
	}
	if err := l.start(l.Shell, command); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", command, err)
	}
	return nil
}

// JoinHooks chains auto-start commands so each runs only if the previous
// one succeeded.
func JoinHooks(commands []string) string {
	parts := make([]string, 0, len(commands))
	for _, c := range commands {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " && ")
}

// AutoStart launches the auto-start chain once. A failure to launch is
// returned as *wm.StartupHookError.
func (l *Launcher) AutoStart(commands []string) error {
	joined := JoinHooks(commands)
	if joined == "" {
		return nil
	}
	if err := l.start(l.HookShell, joined); err != nil {
		return &wm.StartupHookError{Command: joined, Err: err}
	}
	l.logger.Info("auto-start launched", "command", joined)
	return nil
}

func (l *Launcher) start(shell, command string) error {
	cmd := exec.Command(shell, "-c", command)
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap in the background; launched programs are long-lived.
	go func() {
		err := cmd.Wait()
		l.logger.Debug("launched process exited", "command", command, "pid", cmd.Process.Pid, "error", err)
	}()
	return nil
}
