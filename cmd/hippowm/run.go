package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hippowm/hippowm/internal/actions"
	"github.com/hippowm/hippowm/internal/config"
	"github.com/hippowm/hippowm/internal/ipc"
	"github.com/hippowm/hippowm/internal/keys"
	"github.com/hippowm/hippowm/internal/launch"
	"github.com/hippowm/hippowm/internal/layout"
	"github.com/hippowm/hippowm/internal/logging"
	"github.com/hippowm/hippowm/internal/runtimepath"
	"github.com/hippowm/hippowm/internal/supervise"
	"github.com/hippowm/hippowm/internal/wm"
	"github.com/hippowm/hippowm/internal/x11"
)

const wmName = "hippowm"

func runManager(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := loadConfig(opts)
	if err != nil {
		return err
	}
	cfg := res.Config

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &usageError{err: err}
	}
	logger := logging.Init(level)
	for _, f := range res.Files {
		logger.Debug("loaded config", "file", f)
	}
	loadEnvFile(logger)

	conn, err := x11.Open(cfg.Display, logging.Component(logger, "x11"))
	if err != nil {
		return err
	}
	defer conn.Close()

	policy := wm.NewPolicy(logging.Component(logger, "policy"))
	if err := policy.TakeOwnership(conn); err != nil {
		return err
	}
	logger.Info("managing display", "display", conn.Name())

	if err := conn.Advertise(wmName, cfg.Workspaces); err != nil {
		logger.Warn("failed to publish EWMH hints", "error", err)
	}

	screen, err := conn.ScreenArea()
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, screen, logging.Component(logger, "layout"))
	if err != nil {
		return err
	}

	grabber := keys.NewGrabber(conn.XUtil, xproto.Window(conn.Root()), logging.Component(logger, "keys"))
	bindings := grabber.Grab(keySpecs(cfg), dragSpecs(cfg))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mgr := wm.NewManager(conn, engine, bindings, bindings, wm.Options{
		BorderWidth:        cfg.BorderWidth,
		BorderColor:        uint32(cfg.Border),
		FocusedBorderColor: uint32(cfg.FocusedBorder),
		MinWidth:           cfg.MinWidth,
		MinHeight:          cfg.MinHeight,
		SessionID:          uuid.NewString(),
		Faults:             policy.Faults,
	}, logging.Component(logger, "wm"))

	launcher := launch.New(logging.Component(logger, "launch"))
	runner := actions.NewRunner(mgr, engine, launcher, cancel, logging.Component(logger, "actions"))
	mgr.OnAction(runner.Run)

	if err := launcher.AutoStart(cfg.AutoStart); err != nil {
		if cfg.AutoStartStrict {
			return err
		}
		logger.Warn("auto-start failed", "error", err)
	}

	socket, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	super := supervise.New(wmName, logging.Component(logger, "supervisor"))
	supervise.Add(super, ipc.NewServer(socket, mgr, cancel, logging.Component(logger, "ipc")))
	superDone := super.ServeBackground(ctx)

	// Closing the connection is what wakes the event loop.
	context.AfterFunc(ctx, func() {
		logger.Info("shutting down")
		mgr.Stop()
		conn.Close()
	})

	err = mgr.Run()
	cancel()
	if serr := <-superDone; serr != nil && !errors.Is(serr, context.Canceled) {
		logger.Warn("supervisor stopped with error", "error", serr)
	}
	return err
}

func newEngine(cfg *config.Config, screen wm.Rect, logger *slog.Logger) (*layout.Engine, error) {
	modes := make([]layout.Mode, 0, len(cfg.Layouts))
	for _, name := range cfg.Layouts {
		m, err := layout.ParseMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return layout.NewEngine(screen, layout.Options{
		Modes:     modes,
		MaxMain:   cfg.MaxMain,
		Ratio:     cfg.Ratio,
		RatioStep: cfg.RatioSteps,
		Gaps: layout.Gaps{
			Outer: cfg.OuterGap,
			Inner: cfg.InnerGaps,
			Top:   cfg.TopGaps,
		},
	}, logger), nil
}

func keySpecs(cfg *config.Config) []keys.KeySpec {
	specs := make([]keys.KeySpec, 0, len(cfg.Commands)+len(cfg.Actions))
	for _, c := range cfg.Commands {
		specs = append(specs, keys.KeySpec{Bind: c.Bind, Action: wm.Action{Command: c.Command}})
	}
	for _, a := range cfg.Actions {
		specs = append(specs, keys.KeySpec{Bind: a.Bind, Action: wm.Action{Name: a.Action}})
	}
	return specs
}

func dragSpecs(cfg *config.Config) []keys.DragSpec {
	return []keys.DragSpec{
		{Bind: cfg.MoveButton, Kind: wm.DragMove},
		{Bind: cfg.ResizeButton, Kind: wm.DragResize},
	}
}

// loadEnvFile merges the optional env file into the environment so that
// launched programs inherit it. Existing variables win.
func loadEnvFile(logger *slog.Logger) {
	path, err := config.DefaultEnvPath()
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		logger.Warn("failed to load env file", "path", path, "error", fmt.Errorf("godotenv: %w", err))
		return
	}
	logger.Debug("loaded env file", "path", path)
}
