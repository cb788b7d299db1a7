// Package cli defines the semdesk command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "semdesk",
	Short: "Local semantic search over your own text",
	Long: `Semdesk ingests text snippets, embeds them with a local or remote
embedding model and serves semantic search over HTTP on loopback.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
