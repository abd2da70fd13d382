package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "redbus",
	Short:         "redbus scrapes bus schedule listings and serves the stored results.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI with the given base context.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
