package main

import (
	"fmt"
	"strings"

	faults "promptpipe/internal/errors"
	"promptpipe/internal/provider"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCommand(s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "check [command]",
		Short: "Verify that the provider command can be found",
		Long:  "Resolve the provider's program on PATH without running it. With no argument the configured provider is checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, s)
			if err != nil {
				return err
			}
			raw := a.cfg.Provider
			if len(args) > 0 {
				raw = strings.Join(args, " ")
			}
			if strings.TrimSpace(raw) == "" {
				return reportFault(s, faults.Configuration("configure", fmt.Errorf("provider not set"),
					"pass a command to check, or set PROMPTPIPE_PROVIDER"))
			}

			command, err := provider.ParseCommand(raw, a.cfg.Shell)
			if err != nil {
				return reportFault(s, faults.Configuration("parse", err, "check the quoting of the provider command"))
			}
			path, err := provider.Locate(command)
			if err != nil {
				return reportFault(s, err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(s.out, "%s %s -> %s (%s mode)\n", green("ok"), command.Program(), path, command.Mode)
			return nil
		},
	}
}
