package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFinding = "notifylint/finding/v1"
	DomainProgram = "notifylint/program/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FindingID computes a content-addressed ID for a finding reported on class.
// The ID is stable across runs for the same input, which lets the store
// treat repeated writes as no-ops.
func FindingID(class string, f Finding) (string, error) {
	obj := map[string]any{
		"class":   class,
		"kind":    string(f.Kind),
		"subject": f.Subject,
		"anchor":  anchorObject(f.Anchor),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("FindingID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFinding, canonical), nil
}

// MustFindingID is like FindingID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFindingID(class string, f Finding) string {
	id, err := FindingID(class, f)
	if err != nil {
		panic(err)
	}
	return id
}

// ProgramHash fingerprints the declarations of a program. Two programs with
// the same classes, members, attributes and inheritance hash identically,
// regardless of where they were loaded from.
func ProgramHash(p *Program) (string, error) {
	classes := make([]any, len(p.Classes))
	for i, c := range p.Classes {
		classes[i] = classObject(c)
	}
	ifaces := make([]any, len(p.Interfaces))
	for i, iface := range p.Interfaces {
		ext := make([]any, len(iface.Extends))
		for j, e := range iface.Extends {
			ext[j] = e.FullName()
		}
		ifaces[i] = map[string]any{"name": iface.FullName(), "extends": ext}
	}

	canonical, err := MarshalCanonical(map[string]any{
		"ir_version": IRVersion,
		"classes":    classes,
		"interfaces": ifaces,
	})
	if err != nil {
		return "", fmt.Errorf("ProgramHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}

func classObject(c *ClassModel) map[string]any {
	members := make([]any, len(c.Members))
	for i, m := range c.Members {
		switch m := m.(type) {
		case *PropertyModel:
			members[i] = map[string]any{
				"property":   m.Name,
				"setter":     m.HasSetter,
				"attributes": attributeNames(m.Attributes),
			}
		case *MethodModel:
			members[i] = map[string]any{
				"method":   m.Name,
				"static":   m.IsStatic,
				"override": m.IsOverride,
			}
		}
	}
	ifaces := make([]string, len(c.Interfaces))
	for i, iface := range c.Interfaces {
		ifaces[i] = iface.FullName()
	}
	obj := map[string]any{
		"name":       c.FullName(),
		"attributes": attributeNames(c.Attributes),
		"interfaces": ifaces,
		"members":    members,
	}
	if c.Base != nil {
		obj["base"] = c.Base.FullName()
	}
	return obj
}

func attributeNames(attrs []Attribute) []string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}

func anchorObject(a Anchor) map[string]any {
	return map[string]any{
		"file":   a.File,
		"line":   a.Line,
		"column": a.Column,
		"symbol": a.Symbol,
	}
}

// MustProgramHash is like ProgramHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProgramHash(p *Program) string {
	h, err := ProgramHash(p)
	if err != nil {
		panic(err)
	}
	return h
}
