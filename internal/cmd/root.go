// Package cmd implements the GitGuard CLI commands using Cobra.
// It provides login, logout, whoami, and scan against the hosted
// GitGuard scanning service.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitguard/gitguard-cli/internal/api"
	"github.com/gitguard/gitguard-cli/internal/auth"
	"github.com/gitguard/gitguard-cli/internal/config"
	"github.com/gitguard/gitguard-cli/internal/prompt"
	"github.com/gitguard/gitguard-cli/internal/report"
	"github.com/gitguard/gitguard-cli/internal/session"
	"github.com/gitguard/gitguard-cli/internal/slogger"
)

var (
	verbosity   int
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "gitguard",
	Short: "Security scanning for developers",
	Long: `GitGuard CLI submits your source files to the hosted GitGuard service
for vulnerability, dependency, and secret scanning, and renders the findings.

Authenticate once with "gitguard login"; the session is stored locally
and reused by every other command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger := slogger.New(slogger.Config{Verbosity: verbosity})
		ctx := slogger.WithLogger(cmd.Context(), logger)

		settings, err := config.Load()
		if err != nil {
			return err
		}

		store, err := session.NewStore(ctx, settings.ConfigDir, settings.APIURL)
		if err != nil {
			return err
		}

		// Endpoint and token both come from the store per request, so a
		// login that persists an endpoint override routes its own device
		// auth and profile calls to the new service.
		client := api.NewClient(api.ClientConfig{
			Endpoint: func() string { return store.Read().APIURL },
			Token:    func() string { return store.Read().APIToken },
			Timeout:  settings.HTTPTimeout,
		})

		reporter := newReporter()

		mgr := auth.NewManager(auth.ManagerConfig{
			Gateway:  client,
			Store:    store,
			Prompter: prompt.New(),
			Reporter: reporter,
		})

		ctx = WithSettings(ctx, settings)
		ctx = WithStore(ctx, store)
		ctx = WithClient(ctx, client)
		ctx = WithReporter(ctx, reporter)
		ctx = WithManager(ctx, mgr)
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}

func newReporter() *report.Reporter {
	if noColorFlag || os.Getenv("NO_COLOR") != "" {
		return report.New(report.WithColor(false))
	}
	return report.New()
}

// requireAuth refuses to proceed when no session token is stored.
func requireAuth(mgr *auth.Manager, reporter *report.Reporter) error {
	if mgr.Authenticated() {
		return nil
	}
	reporter.Error("Not authenticated")
	reporter.Info("Run \"gitguard login\" to authenticate")
	return fmt.Errorf("not authenticated")
}
