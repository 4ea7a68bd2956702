package rules

import "github.com/roach88/notifylint/internal/ir"

// Sink receives findings as they are produced. Sinks own formatting,
// severity and suppression; the rules never look at what a sink does.
type Sink interface {
	Emit(f ir.Finding)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(f ir.Finding)

// Emit calls fn(f).
func (fn SinkFunc) Emit(f ir.Finding) {
	fn(f)
}
