package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobly-api/jobly/internal/jobs"
	"github.com/jobly-api/jobly/pkg/engine"
	"github.com/jobly-api/jobly/pkg/engine/mutation"
)

var (
	jobsFormat string
	dryRun     bool

	// list filters
	listMinSalary int
	listHasEquity bool
	listTitle     string

	// create fields
	createTitle   string
	createSalary  int
	createEquity  string
	createCompany string

	// update assignments, in flag order
	updateSets []string
)

var jobsCmd = &cobra.Command{
	Use:   "jobs <subcommand>",
	Short: "Read and write job postings",
	Long: `Manage the jobs table.

Subcommands:
  jobs list      List jobs, optionally filtered
  jobs get       Show one job
  jobs create    Create a job
  jobs update    Partially update a job
  jobs delete    Delete a job

Mutating subcommands accept --dry-run to print the SQL without running it.`,
	Args: cobra.MinimumNArgs(1),
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	Long: `List jobs ordered by title.

Examples:
  jobly jobs list
  jobly jobs list --min-salary 50000 --has-equity
  jobly jobs list --title engineer --format=json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f jobs.Filter
		if cmd.Flags().Changed("min-salary") {
			f.MinSalary = &listMinSalary
		}
		if cmd.Flags().Changed("has-equity") {
			f.HasEquity = &listHasEquity
		}
		if cmd.Flags().Changed("title") {
			f.Title = &listTitle
		}

		if dryRun {
			stmt, err := offlineRepository().ListStatement(f)
			if err != nil {
				return err
			}
			printStatement(stmt)
			return nil
		}

		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		list, err := repo.FindAll(cmd.Context(), f)
		if err != nil {
			return err
		}
		if len(list) == 0 && jobsFormat != "json" {
			printInfo("No jobs found")
			return nil
		}
		return printJobs(list)
	},
}

var jobsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		job, err := repo.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJobs([]jobs.Job{*job})
	},
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job",
	Long: `Create a job. Salary and equity are optional.

Examples:
  jobly jobs create --title "Engineer" --company acme
  jobly jobs create --title "Engineer" --company acme --salary 120000 --equity 0.01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := jobs.NewJob{Title: createTitle, CompanyHandle: createCompany}
		if cmd.Flags().Changed("salary") {
			in.Salary = &createSalary
		}
		if cmd.Flags().Changed("equity") {
			in.Equity = &createEquity
		}

		if dryRun {
			stmt, err := offlineRepository().CreateStatement(in)
			if err != nil {
				return err
			}
			printStatement(stmt)
			return nil
		}

		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		job, err := repo.Create(cmd.Context(), in)
		if err != nil {
			return err
		}
		printSuccess("Created job %d", job.ID)
		return printJobs([]jobs.Job{*job})
	},
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Partially update a job",
	Long: `Update only the given fields of a job. Fields are applied in the
order the --set flags appear. Values are read as JSON scalars when they
parse as one (numbers, true/false, null, "quoted"), otherwise as text.

Examples:
  jobly jobs update 7 --set title="Senior Engineer"
  jobly jobs update 7 --set salary=150000 --set equity=null
  jobly jobs update 7 --set title=Lead --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		fields, err := parseAssignments(updateSets)
		if err != nil {
			return err
		}

		if dryRun {
			stmt, err := offlineRepository().UpdateStatement(id, fields)
			if err != nil {
				return err
			}
			printStatement(stmt)
			return nil
		}

		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		job, err := repo.Update(cmd.Context(), id, fields)
		if err != nil {
			return err
		}
		printSuccess("Updated job %d", job.ID)
		return printJobs([]jobs.Job{*job})
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if dryRun {
			stmt, err := offlineRepository().RemoveStatement(id)
			if err != nil {
				return err
			}
			printStatement(stmt)
			return nil
		}

		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := repo.Remove(cmd.Context(), id); err != nil {
			return err
		}
		printSuccess("Deleted job %d", id)
		return nil
	},
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsGetCmd)
	jobsCmd.AddCommand(jobsCreateCmd)
	jobsCmd.AddCommand(jobsUpdateCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)

	jobsCmd.PersistentFlags().StringVar(&jobsFormat, "format", "table", "output format (table|json)")
	jobsCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print the SQL without executing it")

	jobsListCmd.Flags().IntVar(&listMinSalary, "min-salary", 0, "only jobs paying at least this much")
	jobsListCmd.Flags().BoolVar(&listHasEquity, "has-equity", false, "only jobs offering equity")
	jobsListCmd.Flags().StringVar(&listTitle, "title", "", "case-insensitive title substring")

	jobsCreateCmd.Flags().StringVar(&createTitle, "title", "", "job title")
	jobsCreateCmd.Flags().IntVar(&createSalary, "salary", 0, "salary")
	jobsCreateCmd.Flags().StringVar(&createEquity, "equity", "", "equity fraction between 0 and 1")
	jobsCreateCmd.Flags().StringVar(&createCompany, "company", "", "company handle")
	_ = jobsCreateCmd.MarkFlagRequired("title")
	_ = jobsCreateCmd.MarkFlagRequired("company")

	jobsUpdateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "field=value assignment (repeatable)")
	_ = jobsUpdateCmd.MarkFlagRequired("set")

	rootCmd.AddCommand(jobsCmd)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid job id: %s", raw)
	}
	return id, nil
}

// parseAssignments turns field=value pairs into ordered update fields.
// A repeated field keeps its first position and takes the last value.
func parseAssignments(sets []string) (*mutation.Fields, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, set := range sets {
		field, value, ok := strings.Cut(set, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected field=value", set)
		}

		key, _ := json.Marshal(field)
		if i > 0 {
			b.WriteByte(',')
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(scalarJSON(value))
	}
	b.WriteByte('}')

	fields := mutation.NewFields()
	if err := json.Unmarshal([]byte(b.String()), fields); err != nil {
		return nil, fmt.Errorf("invalid assignment: %w", err)
	}
	return fields, nil
}

// scalarJSON returns value as-is when it is a JSON scalar, quoted otherwise
func scalarJSON(value string) []byte {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" && trimmed[0] != '{' && trimmed[0] != '[' && json.Valid([]byte(trimmed)) {
		return []byte(trimmed)
	}
	quoted, _ := json.Marshal(value)
	return quoted
}

func printStatement(stmt *engine.Statement) {
	fmt.Println(stmt.SQL)
	if len(stmt.Args) > 0 {
		fmt.Print("-- args:")
		for i, arg := range stmt.Args {
			fmt.Printf(" $%d=%v", i+1, formatArg(arg))
		}
		fmt.Println()
	}
}

func formatArg(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "NULL"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func printJobs(list []jobs.Job) error {
	if jobsFormat == "json" {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Println("ID      Title                          Salary      Equity   Company")
	fmt.Println("─────────────────────────────────────────────────────────────────────────")
	for _, j := range list {
		salary := "-"
		if j.Salary != nil {
			salary = strconv.Itoa(*j.Salary)
		}
		equity := "-"
		if j.Equity != nil {
			equity = *j.Equity
		}
		company := j.CompanyHandle
		if j.CompanyName != nil {
			company = fmt.Sprintf("%s (%s)", *j.CompanyName, j.CompanyHandle)
		}
		fmt.Printf("%-7d %-30s %-11s %-8s %s\n", j.ID, truncate(j.Title, 30), salary, equity, company)
	}
	fmt.Println()
	return nil
}

// truncate truncates a string to max length
// truncate shortens s to maxLen runes, so multibyte titles never split
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
