package cmd

import (
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current user and subscription info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return ManagerFromContext(cmd.Context()).Whoami(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
