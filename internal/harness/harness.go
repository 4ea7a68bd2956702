package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/notifylint/internal/compiler"
	"github.com/roach88/notifylint/internal/engine"
	"github.com/roach88/notifylint/internal/ir"
	"github.com/roach88/notifylint/internal/rules"
	"github.com/roach88/notifylint/internal/store"
	"github.com/roach88/notifylint/internal/testutil"
)

// Harness executes scenarios. The zero value is not usable; call New.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger for scenario progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a Harness. Logging is discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a deterministic
// clock and a fixed run token, so two runs of the same scenario store
// identical findings.
//
// Execution flow:
// 1. Compile the scenario's CUE files into one program
// 2. Analyse the program with the engine, persisting to the store
// 3. Read the findings back from the store
// 4. Check expect and assertions against the stored findings
//
// The returned error reports failures of the harness itself (unreadable
// files, store errors). Failed expectations are reported in the Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()

	decls, err := loadDeclarations(scenario.Specs)
	if err != nil {
		return nil, err
	}

	program, err := compiler.Compile(decls)
	if scenario.CompileError != "" {
		switch {
		case err == nil:
			result.AddError(fmt.Sprintf("expected compile error containing %q, compilation succeeded", scenario.CompileError))
		case !strings.Contains(err.Error(), scenario.CompileError):
			result.AddError(fmt.Sprintf("expected compile error containing %q, got: %v", scenario.CompileError, err))
		}
		h.logger.Info("scenario compiled", "scenario", scenario.Name, "expect_error", true, "pass", result.Pass)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compile specs: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ifaceName := scenario.Interface
	if ifaceName == "" {
		ifaceName = rules.NotificationInterface
	}
	iface := program.Interface(ifaceName)

	eng := engine.New(
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithRunTokens(testutil.NewFixedRunGenerator(scenario.RunToken)),
		engine.WithRecorder(st),
	)

	run, err := eng.Run(ctx, program, iface)
	if err != nil {
		return nil, fmt.Errorf("failed to run analysis: %w", err)
	}

	stored, err := st.ReadRunDiagnostics(ctx, run.Record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read findings: %w", err)
	}
	result.RunID = run.Record.ID
	result.Diagnostics = stored

	h.logger.Info("scenario analysed",
		"scenario", scenario.Name,
		"run", run.Record.ID,
		"classes", run.Record.Classes,
		"findings", len(stored),
		"interface_declared", iface != nil,
	)

	if len(scenario.Expect) > 0 {
		if err := EvaluateExpect(stored, scenario.Expect); err != nil {
			result.AddError(err.Error())
		}
	}
	for _, msg := range EvaluateAssertions(stored, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// loadDeclarations compiles each file and unifies the results. Anchors
// carry the file's base name. CUE syntax and unification errors stay in
// the returned value for the compiler to report.
func loadDeclarations(paths []string) (cue.Value, error) {
	cctx := cuecontext.New()
	v := cctx.CompileString("{}")
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("failed to read spec file: %w", err)
		}
		v = v.Unify(cctx.CompileBytes(data, cue.Filename(filepath.Base(path))))
	}
	return v, nil
}

// Snapshot returns the canonical JSON snapshot of a result, the content of
// a scenario's golden file.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	return ir.MarshalCanonical(snapshotMap(scenarioName, result))
}
