// Command gitguard is the CLI client for the GitGuard scanning service.
package main

import (
	"os"

	"github.com/gitguard/gitguard-cli/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
