package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of GitGuard",
	Long: `Log out of the GitGuard service.

The stored token is revoked on the server when possible and always
removed locally. The configured API endpoint is kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return ManagerFromContext(cmd.Context()).Logout(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
