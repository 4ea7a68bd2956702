package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/notifylint/internal/ir"
	"github.com/roach88/notifylint/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - show one run with its findings
	Finding  string // optional - show every run that reported a finding
}

// RunDetail is the JSON payload of history --run.
type RunDetail struct {
	Run         ir.RunRecord          `json:"run"`
	Diagnostics []ir.DiagnosticRecord `json:"diagnostics"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query stored analysis runs",
		Long: `Query the run history written by check --db.

Without filters, lists every run in sequence order. --run shows one run with
its findings; --finding shows every occurrence of a finding id across runs.

Examples:
  notifylint history --db ./notifylint.db
  notifylint history --db ./notifylint.db --run 0192f7a1-...
  notifylint history --db ./notifylint.db --finding 3f9c... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show one run and its findings")
	cmd.Flags().StringVar(&opts.Finding, "finding", "", "show the history of one finding id")
	cmd.MarkFlagsMutuallyExclusive("run", "finding")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create a missing file; history only reads.
	if _, err := os.Stat(opts.Database); errors.Is(err, fs.ErrNotExist) {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err))
	}
	defer st.Close()

	switch {
	case opts.RunID != "":
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, sql.ErrNoRows) {
			return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		if err != nil {
			return commandError(formatter, ErrCodeStore, fmt.Sprintf("failed to read run: %v", err))
		}
		diags, err := st.ReadRunDiagnostics(ctx, opts.RunID)
		if err != nil {
			return commandError(formatter, ErrCodeStore, fmt.Sprintf("failed to read findings: %v", err))
		}
		if opts.Format == "json" {
			return formatter.Success(RunDetail{Run: run, Diagnostics: diags})
		}
		printRun(formatter, run)
		for _, d := range diags {
			formatter.Diagnostic(d)
		}
		return nil

	case opts.Finding != "":
		diags, err := st.ReadFindingHistory(ctx, opts.Finding)
		if err != nil {
			return commandError(formatter, ErrCodeStore, fmt.Sprintf("failed to read finding history: %v", err))
		}
		if opts.Format == "json" {
			return formatter.Success(diags)
		}
		if len(diags) == 0 {
			fmt.Fprintf(formatter.Writer, "Finding %s was never reported.\n", opts.Finding)
			return nil
		}
		for _, d := range diags {
			fmt.Fprintf(formatter.Writer, "run %s (seq %d): ", d.RunID, d.Seq)
			formatter.Diagnostic(d)
		}
		return nil

	default:
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return commandError(formatter, ErrCodeStore, fmt.Sprintf("failed to list runs: %v", err))
		}
		if opts.Format == "json" {
			return formatter.Success(runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(formatter.Writer, "No runs recorded.")
			return nil
		}
		for _, run := range runs {
			printRun(formatter, run)
		}
		return nil
	}
}

func printRun(formatter *OutputFormatter, run ir.RunRecord) {
	fmt.Fprintf(formatter.Writer, "%s  seq=%d  %s  classes=%d  findings=%d  interface=%s\n",
		run.ID, run.Seq, run.Status, run.Classes, run.Findings, orNone(run.Interface))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
