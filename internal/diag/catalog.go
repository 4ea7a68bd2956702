package diag

import (
	"errors"
	"fmt"

	"github.com/roach88/notifylint/internal/ir"
)

// Category is the category shared by every default descriptor.
const Category = "PropertyChanged.Fody.Analyzer"

// TagUnnecessary marks diagnostics whose subject has no effect and could be
// faded out by an editor.
const TagUnnecessary = "Unnecessary"

// Descriptor is the presentation of one finding kind.
//
// MessageFormat takes a single %s verb, replaced by the finding subject.
type Descriptor struct {
	ID            string   `json:"id"`
	Kind          ir.Kind  `json:"kind"`
	Title         string   `json:"title"`
	MessageFormat string   `json:"message_format"`
	Severity      Severity `json:"severity"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags,omitempty"`
}

// Catalog maps every finding kind to a descriptor.
type Catalog struct {
	descriptors []Descriptor
	byKind      map[ir.Kind]int
}

// NewCatalog builds a catalog. Every known kind must be covered exactly
// once and ids must be unique.
func NewCatalog(descriptors []Descriptor) (*Catalog, error) {
	c := &Catalog{
		descriptors: make([]Descriptor, 0, len(descriptors)),
		byKind:      make(map[ir.Kind]int, len(descriptors)),
	}
	ids := make(map[string]bool, len(descriptors))

	for _, d := range descriptors {
		if !d.Kind.Valid() {
			return nil, fmt.Errorf("descriptor %s: unknown kind %q", d.ID, d.Kind)
		}
		if d.ID == "" {
			return nil, fmt.Errorf("descriptor for %s: id is required", d.Kind)
		}
		if ids[d.ID] {
			return nil, fmt.Errorf("descriptor %s: duplicate id", d.ID)
		}
		if _, dup := c.byKind[d.Kind]; dup {
			return nil, fmt.Errorf("descriptor %s: kind %s already described", d.ID, d.Kind)
		}
		if err := checkMessageFormat(d.MessageFormat); err != nil {
			return nil, fmt.Errorf("descriptor %s: %w", d.ID, err)
		}
		ids[d.ID] = true
		c.byKind[d.Kind] = len(c.descriptors)
		c.descriptors = append(c.descriptors, d)
	}

	for _, k := range ir.Kinds() {
		if _, ok := c.byKind[k]; !ok {
			return nil, fmt.Errorf("no descriptor for kind %s", k)
		}
	}
	return c, nil
}

// checkMessageFormat accepts formats whose only verb is a single plain %s.
// A literal percent sign is written %%.
func checkMessageFormat(format string) error {
	subjects := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		switch {
		case i == len(format):
			return errors.New("message format ends with a lone %")
		case format[i] == '%':
		case format[i] == 's':
			subjects++
		default:
			return fmt.Errorf("message format has unsupported verb %%%c, only %%s is allowed", format[i])
		}
	}
	if subjects != 1 {
		return fmt.Errorf("message format needs exactly one %%s, found %d", subjects)
	}
	return nil
}

// Lookup returns the descriptor for kind.
func (c *Catalog) Lookup(kind ir.Kind) (Descriptor, bool) {
	i, ok := c.byKind[kind]
	if !ok {
		return Descriptor{}, false
	}
	return c.descriptors[i], true
}

// Descriptors returns the descriptors in catalog order.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Render presents a finding.
func (c *Catalog) Render(f ir.Finding) (Diagnostic, error) {
	d, ok := c.Lookup(f.Kind)
	if !ok {
		return Diagnostic{}, fmt.Errorf("no descriptor for kind %q", f.Kind)
	}
	return Diagnostic{
		ID:       d.ID,
		Kind:     f.Kind,
		Severity: d.Severity,
		Subject:  f.Subject,
		Message:  fmt.Sprintf(d.MessageFormat, f.Subject),
		Anchor:   f.Anchor,
	}, nil
}

// Diagnostic is a rendered finding.
type Diagnostic struct {
	ID       string    `json:"id"`
	Kind     ir.Kind   `json:"kind"`
	Severity Severity  `json:"severity"`
	Subject  string    `json:"subject"`
	Message  string    `json:"message"`
	Anchor   ir.Anchor `json:"anchor"`
}

// String formats the diagnostic the way compilers print warnings.
//
//	decl.cue:12:3: warning PA0003: Property Name has no setter. ...
func (d Diagnostic) String() string {
	loc := d.Anchor.String()
	if loc == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.ID, d.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", loc, d.Severity, d.ID, d.Message)
}
