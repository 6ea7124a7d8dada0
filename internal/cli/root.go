// Package cli holds the volunteerhub command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running the root command serves.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "volunteerhub",
		Short:         "Server-rendered web client for the volunteer hub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, newRoutesCmd())
	return root
}
