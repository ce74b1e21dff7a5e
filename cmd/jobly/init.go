package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobly-api/jobly/internal/admin"
	"github.com/jobly-api/jobly/internal/config"
)

var initTOML bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a jobly project",
	Long: `Create the configuration and local admin directory.

This will create:
  .jobly.yml        Main configuration file (.jobly.toml with --toml)
  .jobly/           Admin directory (journal)

If no directory is provided, initializes the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		if len(args) > 0 {
			workDir = args[0]
			if err := os.MkdirAll(workDir, 0755); err != nil {
				return fmt.Errorf("failed to create project directory: %w", err)
			}
		}

		for _, name := range config.FileNames {
			if _, err := os.Stat(filepath.Join(workDir, name)); err == nil {
				return fmt.Errorf("jobly already initialized in %s\nDelete %s to reinitialize", workDir, name)
			}
		}
		printInfo("Initializing jobly in: %s", workDir)

		factory := admin.NewManagerFactory(workDir)
		if err := factory.Initialize(); err != nil {
			return fmt.Errorf("failed to create admin structure: %w", err)
		}
		printSuccess("Created .jobly/ directory")

		name, err := writeConfig(factory, time.Now())
		if err != nil {
			return err
		}
		printSuccess("Created %s", name)

		fmt.Println()
		printSuccess("Project initialized successfully!")
		fmt.Println()
		fmt.Println("Structure created:")
		fmt.Printf("  %-17s Configuration (edit this)\n", name)
		fmt.Println("  .jobly/           Admin directory (auto-managed)")
		fmt.Println("    └── journal/    Mutation journal")
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. Set DATABASE_URL or edit the connection string")
		fmt.Println("  2. jobly jobs list")
		fmt.Println("  3. jobly serve")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initTOML, "toml", false, "write .jobly.toml instead of .jobly.yml")
	rootCmd.AddCommand(initCmd)
}

// writeConfig writes the commented YAML template, or a TOML encoding of the
// defaults with --toml
func writeConfig(factory *admin.ManagerFactory, now time.Time) (string, error) {
	if initTOML {
		loader := factory.CreateConfigLoader().WithFile(".jobly.toml")
		cfg := config.Defaults()
		cfg.CreatedAt = now
		if err := loader.Save(cfg); err != nil {
			return "", fmt.Errorf("failed to create .jobly.toml: %w", err)
		}
		return ".jobly.toml", nil
	}

	path := factory.CreateConfigLoader().WithFile(".jobly.yml").Path()
	if err := os.WriteFile(path, []byte(config.Template(now)), 0644); err != nil {
		return "", fmt.Errorf("failed to create .jobly.yml: %w", err)
	}
	return ".jobly.yml", nil
}
