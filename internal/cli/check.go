package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/notifylint/internal/diag"
	"github.com/roach88/notifylint/internal/engine"
	"github.com/roach88/notifylint/internal/ir"
	"github.com/roach88/notifylint/internal/rules"
	"github.com/roach88/notifylint/internal/store"
)

// FailOnNone disables the findings exit status.
const FailOnNone = "none"

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Interface string // notification interface FQN
	Database  string // optional run history
	Jobs      int    // classes evaluated at once; <1 means GOMAXPROCS
	FailOn    string // "none" or a severity name
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Run         ir.RunRecord          `json:"run"`
	Diagnostics []ir.DiagnosticRecord `json:"diagnostics"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <decls-dir>",
		Short: "Analyse declarations for convention violations",
		Long: `Compile the CUE declarations in a directory and report every change-notification
convention violation.

With --db the run and its findings are appended to a SQLite history that
the history command can query.

Exit codes:
  0 - No findings at or above --fail-on
  1 - Findings at or above --fail-on, or invalid declarations
  2 - Command error (invalid paths, database errors, etc.)

Examples:
  notifylint check ./decls
  notifylint check ./decls --db ./notifylint.db
  notifylint check ./decls --interface App.INotify --fail-on none
  notifylint check ./decls --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Interface, "interface", rules.NotificationInterface, "notification interface (fully-qualified name)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "append the run to this SQLite database")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 0, "classes analysed concurrently (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", diag.SeverityWarning.String(), "exit 1 on findings at or above this severity (none|info|warning|error)")

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	threshold, failOn, err := parseFailOn(opts.FailOn)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}

	loadResult, loadErrors := LoadDeclarations(dir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if !errors.As(loadErrors[0], &loadErr) {
			loadErr = &LoadError{Code: ErrCodeGeneric, Message: loadErrors[0].Error()}
		}
		_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
		if loadResult == nil {
			return NewExitError(ExitCommandError, loadErr.Error())
		}
		return NewExitError(ExitFailure, loadErr.Error())
	}
	program := loadResult.Program
	formatter.VerboseLog("Loaded %d CUE file(s), %d class(es), %d interface(s)",
		loadResult.FileCount, len(program.Classes), len(program.Interfaces))

	iface := program.Interface(opts.Interface)
	if iface == nil {
		formatter.VerboseLog("Interface %s is not declared; only the marker attribute provides capability", opts.Interface)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	engOpts := []engine.Option{engine.WithJobs(opts.Jobs)}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return commandError(formatter, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err))
		}
		defer st.Close()

		// Continue the database's sequence so runs stay totally ordered.
		last, err := st.LastSeq(ctx)
		if err != nil {
			return commandError(formatter, ErrCodeStore, fmt.Sprintf("failed to read last sequence: %v", err))
		}
		engOpts = append(engOpts, engine.WithRecorder(st), engine.WithClock(engine.NewClockAt(last)))
	}

	run, err := engine.New(engOpts...).Run(ctx, program, iface)
	if err != nil {
		code := ErrCodeAnalysis
		if engine.IsStoreError(err) {
			code = ErrCodeStore
		}
		return commandError(formatter, code, err.Error())
	}

	if opts.Format == "json" {
		response := CLIResponse{
			Status: "ok",
			Data:   CheckResult{Run: run.Record, Diagnostics: nonNil(run.Diagnostics)},
			RunID:  run.Record.ID,
		}
		if err := encodeJSON(formatter, response); err != nil {
			return err
		}
	} else {
		printCheckText(formatter, run)
	}

	if !failOn {
		return nil
	}
	if n := run.CountAtLeast(threshold); n > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d finding(s) at or above %s", n, threshold))
	}
	return nil
}

func printCheckText(formatter *OutputFormatter, run *engine.Run) {
	for _, d := range run.Diagnostics {
		formatter.Diagnostic(d)
	}
	if len(run.Diagnostics) == 0 {
		formatter.Check("No findings in %d class(es)", run.Record.Classes)
	} else {
		fmt.Fprintln(formatter.Writer)
		formatter.Cross("%d finding(s) in %d class(es)", len(run.Diagnostics), classesWithFindings(run))
	}
	formatter.VerboseLog("Run %s (seq %d, program %s)", run.Record.ID, run.Record.Seq, run.Record.ProgramHash)
}

func classesWithFindings(run *engine.Run) int {
	n := 0
	for _, r := range run.Results {
		if len(r.Findings) > 0 {
			n++
		}
	}
	return n
}

// parseFailOn returns the severity threshold, or ok=false for "none".
func parseFailOn(value string) (threshold diag.Severity, ok bool, err error) {
	if strings.EqualFold(value, FailOnNone) {
		return 0, false, nil
	}
	sev, err := diag.ParseSeverity(value)
	if err != nil {
		return 0, false, fmt.Errorf("invalid --fail-on: %w", err)
	}
	return sev, true, nil
}

// commandError reports a command-level failure (exit code 2).
func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
