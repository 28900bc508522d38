package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/loamdb/loam"
)

// PingOptions holds flags for the ping command.
type PingOptions struct {
	*RootOptions
	Binding string
	Timeout time.Duration
}

// PingReport is the ping command's payload.
type PingReport struct {
	Binding  string `json:"binding"`
	Adapter  string `json:"adapter"`
	Database string `json:"database"`
	Latency  string `json:"latency"`
}

// NewPingCommand creates the ping command.
func NewPingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ping <config-file>",
		Short: "Start a binding, round-trip its backend, and report",
		Long: `Start a binding from a config file, round-trip its backend, and stop.

Example:
  loam ping loam.yaml --binding primary
  loam ping loam.yaml --binding replica --timeout 3s --output json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Binding, "binding", "", "binding name to ping (required)")
	_ = cmd.MarkFlagRequired("binding")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "give up after this long")

	return cmd
}

func runPing(opts *PingOptions, path string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	cfg, err := loadConfig(formatter, path)
	if err != nil {
		return err
	}

	b, ok := cfg.Binding(opts.Binding)
	if !ok {
		declared := make([]string, 0, len(cfg.Bindings))
		for _, d := range cfg.Bindings {
			declared = append(declared, d.Name)
		}
		msg := fmt.Sprintf("%s declares no binding %q", path, opts.Binding)
		_ = formatter.Error(ErrCodeUnknownBinding, msg, declared)
		return NewExitError(ExitCommandError, msg)
	}

	logger := slog.New(slog.DiscardHandler)
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithTimeout(parentCtx, opts.Timeout)
	defer cancel()

	formatter.VerboseLog("starting binding %q (adapter %s)", b.Name, b.Adapter)
	r, err := loam.Start(ctx, b, loam.WithLogger(logger))
	if err != nil {
		_ = formatter.Error(ErrCodeStartFailed, fmt.Sprintf("binding %q failed to start", b.Name), err.Error())
		return WrapExitError(ExitFailure, "start failed", err)
	}
	defer func() {
		if stopErr := r.Stop(ctx); stopErr != nil {
			formatter.VerboseLog("stop failed: %v", stopErr)
		}
	}()

	began := time.Now()
	if err := r.Ping(ctx); err != nil {
		_ = formatter.Error(ErrCodePingFailed, fmt.Sprintf("binding %q is unreachable", b.Name), err.Error())
		return WrapExitError(ExitFailure, "ping failed", err)
	}
	latency := time.Since(began)

	connOpts, _ := loam.ParseURL(b.URL)
	report := PingReport{
		Binding:  b.Name,
		Adapter:  b.Adapter,
		Database: connOpts.Database,
		Latency:  latency.String(),
	}

	if formatter.Output == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s reachable in %s (%s database %q)\n",
		report.Binding, report.Latency, report.Adapter, report.Database)
	return nil
}
