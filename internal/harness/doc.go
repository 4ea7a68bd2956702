// Package harness runs conformance scenarios against the analyzer.
//
// A scenario is a YAML file naming one or more CUE declaration files and
// the findings the analysis must produce:
//
//	name: partial_class_merge
//	description: A property and its callback declared in different fragments.
//	specs:
//	  - ../fixtures/partial.cue
//	expect:
//	  - {class: PartialClass, kind: NoSetter, subject: SomeProp}
//	assertions:
//	  - type: finding_absent
//	    kind: DoesNotInherit
//
// Each scenario runs in isolation: the declarations are compiled into a
// fresh program, analysed by the real engine with a deterministic clock
// and a fixed run token, persisted to an in-memory store and read back.
// Expectations and assertions are evaluated on the findings as stored, so
// the full compile, evaluate, render and persist path is covered.
//
// # Expectations
//
// expect is an exact, ordered list: the run must produce these findings
// and no others, in sequence order. Assertions are looser checks over the
// same findings:
//
//   - finding_contains: at least one finding matches the filter
//   - finding_absent: no finding matches the filter
//   - finding_count: exactly count findings match the filter
//   - no_findings: the run produced nothing
//
// A filter is any combination of class, kind and subject; empty fields
// match everything.
//
// compile_error turns the scenario into a negative test: compilation must
// fail with an error whose text contains the given substring.
//
// # Golden files
//
// RunWithGolden snapshots the stored findings as canonical JSON and
// compares them with testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
