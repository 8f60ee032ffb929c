package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hippowm/hippowm/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
		Args:  usageArgs(cobra.NoArgs),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report errors",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if len(res.Files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no config file found; defaults are valid")
				return nil
			}
			for _, f := range res.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", f)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as YAML",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := res.Config.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(opts)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
