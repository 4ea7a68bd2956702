// Package diag turns findings into user-facing diagnostics.
//
// The rules package only knows finding kinds. A Catalog maps each kind to a
// Descriptor carrying the stable id, title, message format and severity, so
// the wording can be replaced without touching the rules.
package diag
