package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitguard/gitguard-cli/internal/api"
	"github.com/gitguard/gitguard-cli/internal/collect"
	"github.com/gitguard/gitguard-cli/internal/repo"
)

var (
	scanDir          string
	scanAI           bool
	scanDependencies bool
	scanSecrets      bool
	scanJSON         bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan code for security vulnerabilities",
	Long: `Collect source files from a directory and submit them to GitGuard
for analysis.

The command exits non-zero when critical or high severity findings are
reported.`,
	Example: `  # Scan the current directory
  gitguard scan

  # Scan with AI analysis and JSON output
  gitguard scan --ai --json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanDir, "dir", "d", "", "Directory to scan (default: current directory)")
	scanCmd.Flags().BoolVar(&scanAI, "ai", false, "Include AI-powered analysis (Pro/Premier only)")
	scanCmd.Flags().BoolVar(&scanDependencies, "dependencies", false, "Include dependency scanning (Premier only)")
	scanCmd.Flags().BoolVar(&scanSecrets, "secrets", false, "Include secret scanning (Premier only)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output results as JSON")
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	mgr := ManagerFromContext(ctx)
	reporter := ReporterFromContext(ctx)
	client := ClientFromContext(ctx)

	if err := requireAuth(mgr, reporter); err != nil {
		return err
	}

	dir := scanDir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
	}

	reporter.Info("Collecting files...")

	files, err := collect.New().Files(dir)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	if len(files) == 0 {
		reporter.Warning("No code files found to scan")
		return nil
	}

	reporter.Info("Found %d file(s), sending to GitGuard...", len(files))

	result, err := client.Scan(ctx, &api.ScanRequest{
		Files:      files,
		Repository: repo.DetectName(dir),
		Options: &api.ScanOptions{
			IncludeAI:           scanAI,
			IncludeDependencies: scanDependencies,
			IncludeSecrets:      scanSecrets,
		},
	})
	if err != nil {
		return reportScanError(cmd, err)
	}

	if scanJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		reporter.Println("%s", data)
	} else {
		reporter.ScanResult(result)
	}

	if result.Summary.Critical > 0 || result.Summary.High > 0 {
		return fmt.Errorf("scan found %d critical and %d high severity issue(s)",
			result.Summary.Critical, result.Summary.High)
	}
	return nil
}

// reportScanError translates API failures at the command boundary.
func reportScanError(cmd *cobra.Command, err error) error {
	reporter := ReporterFromContext(cmd.Context())
	store := StoreFromContext(cmd.Context())

	var rateErr *api.RateLimitError
	switch {
	case errors.Is(err, api.ErrAuthExpired):
		reporter.Error("Authentication expired. Please login again.")
		if clearErr := store.ClearAuth(); clearErr != nil {
			return clearErr
		}
		return fmt.Errorf("scan failed")
	case errors.As(err, &rateErr):
		reporter.Error("Rate limit exceeded")
		if rateErr.Message != "" {
			reporter.Info("%s", rateErr.Message)
		}
		return fmt.Errorf("scan failed")
	default:
		reporter.Error("Scan failed. Please try again.")
		return err
	}
}
