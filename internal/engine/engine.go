package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/notifylint/internal/diag"
	"github.com/roach88/notifylint/internal/ir"
	"github.com/roach88/notifylint/internal/rules"
)

// Recorder persists a run together with its diagnostics. The write must be
// atomic: a failed write leaves no trace of the run. Implemented by
// *store.Store.
type Recorder interface {
	WriteRunWithDiagnostics(ctx context.Context, run ir.RunRecord, diags []ir.DiagnosticRecord) error
}

// Engine evaluates the convention rules over programs.
//
// Thread-safety model:
//   - Run(): safe to call from one goroutine at a time; it fans out
//     internally and returns only after every worker has stopped
//   - The configured clock and token generator must be safe for
//     concurrent use if several engines share them
type Engine struct {
	catalog  *diag.Catalog
	clock    SeqClock
	tokens   RunTokenGenerator
	recorder Recorder
	jobs     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog replaces the default diagnostic catalog.
func WithCatalog(c *diag.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithClock sets the logical clock used to stamp runs and diagnostics.
func WithClock(c SeqClock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRunTokens sets the run token generator.
func WithRunTokens(g RunTokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = g
	}
}

// WithRecorder persists every completed or cancelled run.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithJobs bounds the number of classes evaluated at once.
// Values below 1 mean GOMAXPROCS.
func WithJobs(n int) Option {
	return func(e *Engine) {
		e.jobs = n
	}
}

// New creates an Engine. Without options it uses the default catalog, a
// fresh logical clock, UUIDv7 run tokens, GOMAXPROCS workers and no
// persistence.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog: diag.DefaultCatalog(),
		clock:   NewClock(),
		tokens:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.jobs < 1 {
		e.jobs = runtime.GOMAXPROCS(0)
	}
	return e
}

// ClassResult holds the findings of one class.
type ClassResult struct {
	Class    *ir.ClassModel
	Findings []ir.Finding
}

// Run is the outcome of analysing one program.
type Run struct {
	Record      ir.RunRecord
	Results     []ClassResult         // class declaration order
	Diagnostics []ir.DiagnosticRecord // ordered by Seq
}

// CountAtLeast returns how many diagnostics have severity sev or higher.
// Diagnostics with an unparseable severity are counted.
func (r *Run) CountAtLeast(sev diag.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		s, err := diag.ParseSeverity(d.Severity)
		if err != nil || s >= sev {
			n++
		}
	}
	return n
}

// Run evaluates every class of program against the notification interface
// iface, which may be nil.
func (e *Engine) Run(ctx context.Context, program *ir.Program, iface *ir.Interface) (*Run, error) {
	runID := e.tokens.Generate()
	record := ir.RunRecord{
		ID:            runID,
		Seq:           e.clock.Next(),
		Classes:       len(program.Classes),
		Status:        ir.RunCompleted,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if iface != nil {
		record.Interface = iface.FullName()
	}

	hash, err := ir.ProgramHash(program)
	if err != nil {
		return nil, &RunError{Code: ErrCodeRender, Message: "hash program", RunID: runID, Err: err}
	}
	record.ProgramHash = hash

	slog.Info("run starting",
		"run", runID,
		"classes", len(program.Classes),
		"jobs", e.jobs,
		"interface", record.Interface,
	)

	findings, err := e.evaluate(ctx, program.Classes, iface)
	if err != nil {
		slog.Warn("run cancelled", "run", runID, "error", err)
		record.Status = ir.RunCancelled
		// The caller's context is already done; the record still needs
		// to reach the store.
		if werr := e.persist(context.WithoutCancel(ctx), record, nil); werr != nil {
			return nil, werr
		}
		return nil, &RunError{Code: ErrCodeCancelled, Message: "run cancelled", RunID: runID, Err: err}
	}

	run := &Run{
		Results: make([]ClassResult, len(program.Classes)),
	}
	for i, class := range program.Classes {
		run.Results[i] = ClassResult{Class: class, Findings: findings[i]}
		for _, f := range findings[i] {
			d, err := e.diagnostic(runID, class, f)
			if err != nil {
				return nil, err
			}
			run.Diagnostics = append(run.Diagnostics, d)
		}
	}
	record.Findings = len(run.Diagnostics)
	run.Record = record

	if err := e.persist(ctx, record, run.Diagnostics); err != nil {
		return nil, err
	}

	slog.Info("run completed",
		"run", runID,
		"findings", record.Findings,
		"program_hash", record.ProgramHash,
	)
	return run, nil
}

// evaluate runs the rules over classes on a bounded worker group. Results
// are written by index, so no locking is needed.
func (e *Engine) evaluate(ctx context.Context, classes []*ir.ClassModel, iface *ir.Interface) ([][]ir.Finding, error) {
	results := make([][]ir.Finding, len(classes))
	if len(classes) == 0 {
		return results, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.jobs, len(classes)))

	for i, class := range classes {
		i, class := i, class
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = rules.Evaluate(class, iface)
			slog.Debug("class evaluated",
				"class", class.Name,
				"findings", len(results[i]),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup only reports errors returned by workers; a cancellation
	// that lands after the last worker finished still counts.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// diagnostic renders f and stamps it with the next sequence number.
func (e *Engine) diagnostic(runID string, class *ir.ClassModel, f ir.Finding) (ir.DiagnosticRecord, error) {
	rendered, err := e.catalog.Render(f)
	if err != nil {
		return ir.DiagnosticRecord{}, &RunError{Code: ErrCodeRender, Message: "render finding", RunID: runID, Class: class.Name, Err: err}
	}
	id, err := ir.FindingID(class.Name, f)
	if err != nil {
		return ir.DiagnosticRecord{}, &RunError{Code: ErrCodeRender, Message: "hash finding", RunID: runID, Class: class.Name, Err: err}
	}

	d := ir.DiagnosticRecord{
		ID:           id,
		RunID:        runID,
		Seq:          e.clock.Next(),
		Class:        class.Name,
		Kind:         f.Kind,
		DiagnosticID: rendered.ID,
		Severity:     rendered.Severity.String(),
		Subject:      f.Subject,
		Message:      rendered.Message,
		Anchor:       f.Anchor,
	}
	slog.Debug("finding reported",
		"run", runID,
		"seq", d.Seq,
		"class", d.Class,
		"kind", d.Kind,
		"subject", d.Subject,
	)
	return d, nil
}

// persist writes the run and its diagnostics in one step, if a recorder is set.
func (e *Engine) persist(ctx context.Context, record ir.RunRecord, diags []ir.DiagnosticRecord) error {
	if e.recorder == nil {
		return nil
	}
	if err := e.recorder.WriteRunWithDiagnostics(ctx, record, diags); err != nil {
		return &RunError{
			Code:    ErrCodeStore,
			Message: fmt.Sprintf("write run with %d diagnostic(s)", len(diags)),
			RunID:   record.ID,
			Err:     err,
		}
	}
	return nil
}
