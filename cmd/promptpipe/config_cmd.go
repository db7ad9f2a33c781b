package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"promptpipe/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newConfigCommand(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, s)
			if err != nil {
				return err
			}
			gray := color.New(color.FgHiBlack).SprintFunc()

			tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE\tENV")
			for _, setting := range config.Describe(a.cfg, a.meta) {
				value := setting.Value
				if value == "" {
					value = gray("(unset)")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", setting.Key, value, setting.Source, setting.Env)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if path := a.meta.Path(); path != "" {
				fmt.Fprintf(s.out, "\nconfig file: %s\n", path)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use, or where one would be read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, s)
			if err != nil {
				return err
			}
			if path := a.meta.Path(); path != "" {
				fmt.Fprintln(s.out, path)
				return nil
			}
			path, err := defaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s (not found)\n", path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				var err error
				if path, err = defaultConfigPath(); err != nil {
					return err
				}
			}
			// The target may not exist yet, so load without it.
			if err := cmd.Flags().Set("config", ""); err != nil {
				return err
			}
			a, err := loadApp(cmd, s)
			if err != nil {
				return err
			}
			if err := config.Save(path, a.cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, config.DefaultFileName), nil
}
