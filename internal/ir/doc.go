// Package ir provides the declaration model analysed by notifylint.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - The model is immutable once a Program is compiled
//   - Interface identity is pointer identity, never name equality
//   - Base chains are finite; the compiler rejects inheritance cycles
//   - Anchors are opaque to the rule engine
//   - All JSON tags use snake_case
package ir
