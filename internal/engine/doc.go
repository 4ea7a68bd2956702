// Package engine runs the convention rules over a compiled program.
//
// The engine is the host traversal around the rules package: it hands each
// class to rules.Evaluate, renders the findings through a diag.Catalog and
// optionally persists the run to a store.
//
// ARCHITECTURE:
//
// Classes are evaluated concurrently on a bounded errgroup. Evaluation is
// pure, so workers share nothing except their own slot in the result slice.
// Once all workers finish, the engine walks the results in class
// declaration order and stamps each diagnostic with a sequence number from
// the logical clock. Output order therefore never depends on scheduling.
//
// CRITICAL PATTERNS:
//
// Logical Clock
// Runs and diagnostics are stamped with Clock.Next(), never wall time.
//
// Deterministic Output
// Diagnostics are ordered by class declaration order, then by the order
// the rules produced them. The same program always yields the same stream.
//
// Cancellation
// Cancelling the context stops new classes from being scheduled. A
// cancelled run reports no diagnostics and returns a RunError.
package engine
