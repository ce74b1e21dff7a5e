package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobly-api/jobly/internal/journal"
)

var journalFormat string

var journalCmd = &cobra.Command{
	Use:   "journal <subcommand>",
	Short: "Query the mutation journal",
	Long: `View the journal of job creates, updates and deletes.

The journal is an append-only log stored in .jobly/journal/ with daily rotation.

Subcommands:
  journal last       Show last N operations
  journal errors     Show today's failed operations
  journal stats      Show today's counts by action`,
	Args: cobra.MinimumNArgs(1),
}

var journalLastCmd = &cobra.Command{
	Use:   "last [n]",
	Short: "Show last N journal entries",
	Long: `Display the most recent journal entries.

Examples:
  jobly journal last        # Last 10 entries
  jobly journal last 20     # Last 20 entries
  jobly journal last 5 --format=json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := 10
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid number: %s", args[0])
			}
			limit = n
		}

		logger, err := openJournal()
		if err != nil {
			return err
		}

		entries, err := logger.Last(limit)
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}
		if len(entries) == 0 {
			printInfo("No journal entries found")
			return nil
		}
		return printEntries(entries)
	},
}

var journalErrorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show error journal entries",
	Long: `Display all failed operations from today's journal.

Examples:
  jobly journal errors
  jobly journal errors --format=json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := openJournal()
		if err != nil {
			return err
		}

		entries, err := logger.Errors()
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}
		if len(entries) == 0 {
			printSuccess("No errors found")
			return nil
		}
		return printEntries(entries)
	},
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's journal counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := openJournal()
		if err != nil {
			return err
		}

		index, err := logger.Index()
		if err != nil {
			return fmt.Errorf("failed to read journal index: %w", err)
		}

		if journalFormat == "json" {
			data, err := json.MarshalIndent(index, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Date:    %s\n", index.Date)
		fmt.Printf("Entries: %d\n", index.Entries)
		fmt.Printf("Errors:  %d\n", index.Errors)

		actions := make([]string, 0, len(index.ByAction))
		for action := range index.ByAction {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		for _, action := range actions {
			fmt.Printf("  %-10s %d\n", action, index.ByAction[action])
		}
		return nil
	},
}

func init() {
	journalCmd.AddCommand(journalLastCmd)
	journalCmd.AddCommand(journalErrorsCmd)
	journalCmd.AddCommand(journalStatsCmd)

	journalCmd.PersistentFlags().StringVar(&journalFormat, "format", "table", "output format (table|json)")

	rootCmd.AddCommand(journalCmd)
}

func openJournal() (*journal.Logger, error) {
	cfg, factory, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := factory.CreateJournalLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize journal: %w", err)
	}
	return logger, nil
}

func printEntries(entries []*journal.Entry) error {
	if journalFormat == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Println("Timestamp                Action      Status      Details")
	fmt.Println("─────────────────────────────────────────────────────────────────")

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Printf("%-25s %-11s %-11s %s\n", timestamp, entry.Action, entry.Status, entryDetails(entry))
	}

	fmt.Println()
	return nil
}

// entryDetails renders id, fields and error as key=value pairs
func entryDetails(entry *journal.Entry) string {
	var parts []string
	if id, ok := entry.Details["id"]; ok {
		parts = append(parts, fmt.Sprintf("id=%v", id))
	}
	if fields, ok := entry.Details["fields"].([]interface{}); ok {
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, fmt.Sprint(f))
		}
		parts = append(parts, "fields="+strings.Join(names, ","))
	}
	if entry.Error != "" {
		parts = append(parts, "error="+truncate(entry.Error, 50))
	}
	return strings.Join(parts, " ")
}
