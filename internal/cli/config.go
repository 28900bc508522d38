package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loamdb/loam"
)

// BindingSummary reports one validated binding. The connection URL is
// deliberately absent: it may embed credentials.
type BindingSummary struct {
	Name     string `json:"name"`
	Adapter  string `json:"adapter"`
	Database string `json:"database"`
}

// ConfigReport is the config validate command's payload.
type ConfigReport struct {
	Path     string           `json:"path"`
	Bindings []BindingSummary `json:"bindings"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect binding config files",
	}
	cmd.AddCommand(NewConfigValidateCommand(rootOpts))
	return cmd
}

// NewConfigValidateCommand creates the config validate command.
func NewConfigValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Check a binding config file without starting anything",
		Long: `Check a binding config file without starting anything.

Parses the file strictly (unknown keys are errors) and validates every
binding: names, URLs, and adapter registrations. All problems are
reported at once.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(rootOpts, args[0], cmd)
		},
	}
}

func runConfigValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	cfg, err := loadConfig(formatter, path)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		problems := strings.Split(err.Error(), "\n")
		_ = formatter.Error(ErrCodeConfigInvalid, fmt.Sprintf("%s: configuration invalid", path), problems)
		if formatter.Output != "json" {
			for _, p := range problems {
				fmt.Fprintf(formatter.Writer, "  %s\n", p)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d problem(s) in %s", len(problems), path))
	}

	report := ConfigReport{Path: path, Bindings: make([]BindingSummary, 0, len(cfg.Bindings))}
	for _, b := range cfg.Bindings {
		// Validate already parsed every URL, so this cannot fail here.
		connOpts, _ := loam.ParseURL(b.URL)
		report.Bindings = append(report.Bindings, BindingSummary{
			Name:     b.Name,
			Adapter:  b.Adapter,
			Database: connOpts.Database,
		})
	}

	if formatter.Output == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s: %d binding(s)\n", path, len(report.Bindings))
	for _, b := range report.Bindings {
		fmt.Fprintf(formatter.Writer, "  %s: %s database %q\n", b.Name, b.Adapter, b.Database)
	}
	return nil
}

// loadConfig reads and parses a config file, mapping failures onto exit
// codes: a missing or unreadable file is a command error, anything else
// from the parser is too.
func loadConfig(formatter *OutputFormatter, path string) (*loam.Config, error) {
	cfg, err := loam.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}

	code := ErrCodeConfigParse
	if errors.Is(err, fs.ErrNotExist) {
		code = ErrCodeConfigRead
	}
	_ = formatter.Error(code, err.Error(), nil)
	return nil, WrapExitError(ExitCommandError, "failed to load config", err)
}
