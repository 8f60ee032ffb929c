package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hippowm/hippowm/internal/config"
)

// Version is set during build
var Version = "0.1.0-dev"

type rootOptions struct {
	configPath string
	display    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hippowm",
		Short: "hippowm - a small reparenting X11 window manager",
		Long: `hippowm takes over window management on an X display, wraps every
top-level window in a bordered frame, tiles frames with a main-and-stack
layout and lets you move or resize them with the pointer.

Run without a subcommand to start the manager.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManager(cmd.Context(), opts)
		},
	}
	cmd.Version = Version
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/hippowm/config.yaml)")
	flags.StringVarP(&opts.display, "display", "d", "", "X display to manage (default $DISPLAY)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newStatusCmd(),
		newClientsCmd(),
		newQuitCmd(),
		newConfigCmd(opts),
		newMCPCmd(),
	)
	return cmd
}

// loadConfig loads the configured file and applies command-line overrides.
func loadConfig(opts *rootOptions) (*config.LoadResult, error) {
	var (
		res *config.LoadResult
		err error
	)
	if opts.configPath != "" {
		res, err = config.LoadFromPath(opts.configPath)
	} else {
		res, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if opts.display != "" {
		res.Config.Display = opts.display
	}
	if opts.logLevel != "" {
		res.Config.LogLevel = opts.logLevel
	}
	return res, nil
}

func configPath(opts *rootOptions) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.DefaultConfigPath()
}

// usageArgs reports argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
