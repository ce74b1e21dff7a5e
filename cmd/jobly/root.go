package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jobly-api/jobly/pkg/engine"
)

var (
	// Global flags
	verbose    bool
	debugLevel string
	trace      bool
	configFile string

	// Colors
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

var rootCmd = &cobra.Command{
	Use:   "jobly",
	Short: "jobly - job postings API and record store",
	Long: `jobly stores job postings in PostgreSQL and serves them over HTTP.

Get started:
  jobly init
  jobly jobs create --title "Engineer" --company acme
  jobly jobs list --min-salary 50000
  jobly serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&debugLevel, "debug", "", "print generated SQL (sql|trace|explain)")
	rootCmd.PersistentFlags().Lookup("debug").NoOptDefVal = "sql"
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "trace SQL with timing and row counts (same as --debug=trace)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default .jobly.yml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError writes err with its error code and a hint when one applies
func reportError(w io.Writer, err error) {
	fmt.Fprint(w, engine.FormatError(err))
}

// Helper functions for consistent output
func printSuccess(format string, args ...interface{}) {
	successColor.Printf("✓ "+format+"\n", args...)
}

func printWarning(format string, args ...interface{}) {
	warningColor.Printf("⚠ "+format+"\n", args...)
}

func printInfo(format string, args ...interface{}) {
	infoColor.Printf("ℹ "+format+"\n", args...)
}
