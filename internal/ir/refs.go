package ir

import "fmt"

// Anchor is an opaque source location attached to declarations and findings.
// The rule engine copies anchors into findings but never interprets them.
type Anchor struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// IsZero reports whether the anchor carries no location.
func (a Anchor) IsZero() bool {
	return a == Anchor{}
}

// String formats the anchor as file:line:col, falling back to the symbol.
func (a Anchor) String() string {
	switch {
	case a.File != "" && a.Line > 0:
		return fmt.Sprintf("%s:%d:%d", a.File, a.Line, a.Column)
	case a.File != "":
		return a.File
	default:
		return a.Symbol
	}
}

// Interface is a declared interface. Each fully-qualified name maps to one
// *Interface per Program, so two declarations are the same interface only if
// they are the same pointer.
type Interface struct {
	Name      string       `json:"name"`
	Namespace string       `json:"namespace,omitempty"`
	Extends   []*Interface `json:"-"`
	Anchor    Anchor       `json:"anchor"`
}

// FullName returns Namespace.Name, or Name when the namespace is empty.
func (i *Interface) FullName() string {
	if i.Namespace == "" {
		return i.Name
	}
	return i.Namespace + "." + i.Name
}
