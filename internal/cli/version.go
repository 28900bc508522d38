package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loamdb/loam"
	"github.com/loamdb/loam/adapter"
)

// VersionInfo is the version command's payload.
type VersionInfo struct {
	Version  string   `json:"version"`
	Adapters []string `json:"adapters,omitempty"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the loam version and linked adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := formatterFor(rootOpts, cmd)
			info := VersionInfo{Version: loam.Version, Adapters: adapter.Names()}

			if formatter.Output == "json" {
				return formatter.Success(info)
			}

			fmt.Fprintf(formatter.Writer, "loam %s\n", info.Version)
			if len(info.Adapters) > 0 {
				fmt.Fprintf(formatter.Writer, "adapters: %s\n", strings.Join(info.Adapters, ", "))
			}
			return nil
		},
	}
}
