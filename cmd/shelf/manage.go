package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/adapter"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		GroupID: "management",
	}

	var dir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = adapter.DefaultConfigDir()
			}
			path, err := adapter.SaveConfig(a.cfg, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&dir, "dir", "", "directory for config.yaml (default is $HOME/.config/shelf)")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "storage.backend: %s\n", a.cfg.Storage.Backend)
			fmt.Fprintf(w, "storage.path:    %s\n", a.cfg.Storage.Path)
			fmt.Fprintf(w, "logging.file:    %s\n", a.cfg.Logging.File)
			fmt.Fprintf(w, "logging.level:   %s\n", a.cfg.Logging.Level)
			fmt.Fprintf(w, "output.format:   %s\n", a.cfg.Output.Format)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the version",
		GroupID: "management",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "shelf %s\n", Version)
			return nil
		},
	}
}
