package commands

import (
	"fmt"

	"github.com/metaview-labs/metaview/internal/shopify"
	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display Metaview version, build information and the default Admin API version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Metaview v%s\n", info.Version)
			if info.Commit != "" && info.Commit != "unknown" {
				_, _ = fmt.Fprintf(out, "Commit %s, built %s\n", info.Commit, info.Date)
			}
			_, _ = fmt.Fprintf(out, "Shopify Admin API %s (default)\n", shopify.DefaultAPIVersion)
		},
	}
}
