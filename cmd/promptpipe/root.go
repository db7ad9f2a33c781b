package main

import (
	"fmt"

	"promptpipe/internal/config"
	"promptpipe/internal/diagnostics"
	faults "promptpipe/internal/errors"
	"promptpipe/internal/logging"
	"promptpipe/internal/output"
	"promptpipe/internal/provider"
	id "promptpipe/internal/utils/id"

	"github.com/spf13/cobra"
)

func newRootCommand(s streams) *cobra.Command {
	root := &cobra.Command{
		Use:   "promptpipe [flags] [prompt...]",
		Short: "Send a prompt to an AI command-line provider",
		Long: `promptpipe pipes a prompt into a provider CLI such as gemini or opencode,
enforces a timeout, and explains failures.

The provider comes from --provider, PROMPTPIPE_PROVIDER (or PROVIDER), or the
provider key of ~/.promptpipe.yaml. The prompt comes from the arguments,
--prompt-file, or stdin.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, args, s)
		},
	}

	flags := root.PersistentFlags()
	config.RegisterFlags(flags)
	flags.String("config", "", "config file (default $HOME/.promptpipe.yaml, then ./promptpipe.yaml)")
	flags.BoolP("quiet", "q", false, "suppress the banner")
	flags.StringP("prompt-file", "f", "", "read the prompt from a file (\"-\" for stdin)")

	root.AddCommand(newRunCommand(s))
	root.AddCommand(newCheckCommand(s))
	root.AddCommand(newConfigCommand(s))
	root.AddCommand(newVersionCommand(s))
	return root
}

func newRunCommand(s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "run [flags] [prompt...]",
		Short: "Run the provider with a prompt (the default command)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, args, s)
		},
	}
}

func runPrompt(cmd *cobra.Command, args []string, s streams) error {
	a, err := loadApp(cmd, s)
	if err != nil {
		return err
	}
	cfg := a.cfg

	if cfg.Provider == "" {
		return reportFault(s, faults.Configuration("configure", fmt.Errorf("provider not set"),
			"set PROMPTPIPE_PROVIDER, pass --provider, or add \"provider:\" to ~/.promptpipe.yaml"))
	}
	command, err := provider.ParseCommand(cfg.Provider, cfg.Shell)
	if err != nil {
		return reportFault(s, faults.Configuration("parse", err, "check the quoting of the provider command, or enable --shell for pipes and redirection"))
	}

	promptFile, _ := cmd.Flags().GetString("prompt-file")
	prompt, err := readPrompt(args, promptFile, s.in)
	if err != nil {
		return &ExitCodeError{Code: exitUsage, Err: err}
	}

	if err := a.startTelemetry(); err != nil {
		return err
	}
	defer a.flushTelemetry()

	ctx := id.WithRunID(cmd.Context(), id.NewRunID())
	output.ConfigureColorProfile(s.err)

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet && output.IsTerminal(s.err) {
		banner := output.Banner{
			Provider:       command.Program(),
			Mode:           string(command.Mode),
			TimeoutSeconds: cfg.TimeoutSeconds,
			Stream:         cfg.Stream,
		}
		fmt.Fprint(s.err, output.ConstrainOutputWidth(banner.String(), s.err))
	}

	runner := provider.NewRunner(provider.Options{
		TimeoutSeconds:   cfg.TimeoutSeconds,
		StreamToTerminal: cfg.Stream,
		Terminal:         s.err,
		WorkingDir:       cfg.WorkingDir,
		Logger:           logging.NewComponentLogger("ProviderRunner"),
		Metrics:          a.metrics,
		Tracer:           a.tracer,
	})
	result, err := runner.Run(ctx, command, prompt)
	if err != nil {
		if result.Interrupted {
			fmt.Fprintln(s.err, "Interrupted; provider terminated.")
			return &ExitCodeError{Code: provider.ExitStatusInterrupted, Err: err, Reported: true}
		}
		return reportFault(s, err)
	}

	if !result.Success() {
		hint := diagnostics.Classify(result.Output)
		if result.TimedOut {
			a.logger.Warn("provider timed out after %ds", cfg.TimeoutSeconds)
		}
		fmt.Fprint(s.err, output.RenderFailure(output.Failure{
			Command:        command.String(),
			ExitStatus:     result.ExitStatus,
			TimedOut:       result.TimedOut,
			TimeoutSeconds: cfg.TimeoutSeconds,
			Output:         result.Output,
			ShowOutput:     !cfg.Stream,
			Hint:           hint,
		}, output.OutputWidth(s.err)))
		return &ExitCodeError{
			Code:     providerExitCode(result.ExitStatus),
			Err:      fmt.Errorf("provider %s: %s", command.Program(), result.Status()),
			Reported: true,
		}
	}

	// A streamed run has already shown the transcript on the same terminal.
	if cfg.Stream && output.IsTerminal(s.out) && output.IsTerminal(s.err) {
		return nil
	}
	renderer := output.NewTranscriptRenderer(cfg.Render, s.out)
	if err := renderer.Write(s.out, result.Output); err != nil {
		return faults.Resource("write transcript", err)
	}
	return nil
}

func reportFault(s streams, err error) error {
	title := "Error"
	switch faults.KindOf(err) {
	case faults.KindConfiguration:
		title = "Provider is not usable"
	case faults.KindResource:
		title = "Could not manage the prompt file"
	}
	fmt.Fprint(s.err, output.RenderFault(title, faults.Guidance(err), output.OutputWidth(s.err)))
	return &ExitCodeError{Code: exitCodeFor(err), Err: err, Reported: true}
}
