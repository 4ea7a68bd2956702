// Package store provides SQLite-backed history of notifylint runs.
//
// The store is an append-only log with:
//   - Runs: one record per analysis of a program
//   - Diagnostics: the rendered findings of each run
//
// # Critical Patterns
//
// Content-Addressed Findings
//   - Diagnostic ids come from ir.FindingID
//   - PRIMARY KEY(run_id, id) makes rewriting a run's findings a no-op
//
// Logical Time
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//
// Deterministic Query Results
//   - All queries include: ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
