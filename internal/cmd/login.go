package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitguard/gitguard-cli/internal/api"
	"github.com/gitguard/gitguard-cli/internal/auth"
	"github.com/gitguard/gitguard-cli/internal/prompt"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with GitGuard",
	Long: `Authenticate with the GitGuard service.

By default a browser-based flow is used: a verification URL is opened and
the CLI waits for you to complete the login in the browser. With --email,
an email/password login is performed instead.`,
	Example: `  # Browser-based login
  gitguard login

  # Email/password login
  gitguard login --email you@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email address for password login")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	mgr := ManagerFromContext(ctx)
	reporter := ReporterFromContext(ctx)
	settings := SettingsFromContext(ctx)
	store := StoreFromContext(ctx)

	// An endpoint override is persisted so later commands hit the same
	// service the login happened against.
	if settings.APIURLFromEnv {
		if err := store.SetEndpoint(settings.APIURL); err != nil {
			return err
		}
		reporter.Info("Using API URL: %s", settings.APIURL)
	}

	if loginEmail != "" {
		return runPasswordLogin(cmd, mgr)
	}

	if err := mgr.Login(ctx); err != nil {
		switch {
		case errors.Is(err, auth.ErrTimeout):
			reporter.Error("Authentication timed out. Please try again.")
		case errors.Is(err, api.ErrRequestExpired):
			reporter.Error("Authentication request expired. Please try again.")
		case errors.Is(err, api.ErrNetwork):
			reporter.Error("Login failed. Please try again.")
		default:
			reporter.Error("Login failed: %v", err)
		}
		return fmt.Errorf("login failed")
	}

	return nil
}

func runPasswordLogin(cmd *cobra.Command, mgr *auth.Manager) error {
	ctx := cmd.Context()
	reporter := ReporterFromContext(ctx)

	password := loginPassword
	if password == "" {
		var err error
		password, err = prompt.New().Secret("Password")
		if err != nil {
			return err
		}
	}

	if err := mgr.LoginPassword(ctx, loginEmail, password); err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			reporter.Error("Invalid email or password.")
			return fmt.Errorf("login failed")
		}
		return err
	}

	return nil
}
