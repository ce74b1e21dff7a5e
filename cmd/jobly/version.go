package main

import (
	"fmt"
	"runtime"

	"github.com/jobly-api/jobly/pkg/engine"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show jobly version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jobly v%s\n", engine.Version)

		if verbose {
			fmt.Printf("  Go:       %s\n", runtime.Version())
			fmt.Printf("  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
