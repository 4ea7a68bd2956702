package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/notifylint/internal/ir"
)

// positioned is a string value together with where it was written.
type positioned struct {
	Value string
	Pos   token.Pos
}

// lookupString returns the string at path, or "" when the field is absent.
func lookupString(v cue.Value, path, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: "must be a string", Pos: f.Pos()}
	}
	return s, nil
}

// lookupBool returns the bool at path, or false when the field is absent.
func lookupBool(v cue.Value, path, field string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, &CompileError{Field: field, Message: "must be a bool", Pos: f.Pos()}
	}
	return b, nil
}

// lookupStringList returns the list of strings at path in order, keeping
// duplicates. An absent field yields an empty list.
func lookupStringList(v cue.Value, path, field string) ([]positioned, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "must be a list of strings", Pos: f.Pos()}
	}

	var out []positioned
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, positioned{Value: s, Pos: iter.Value().Pos()})
	}
	return out, nil
}

// anchorAt converts a CUE position into an opaque model anchor.
func anchorAt(pos token.Pos, symbol string) ir.Anchor {
	a := ir.Anchor{Symbol: symbol}
	if pos.IsValid() {
		a.File = pos.Filename()
		a.Line = pos.Line()
		a.Column = pos.Column()
	}
	return a
}

// splitQualified splits "A.B.C" into namespace "A.B" and name "C".
func splitQualified(fullName string) (namespace, name string) {
	for i := len(fullName) - 1; i >= 0; i-- {
		if fullName[i] == '.' {
			return fullName[:i], fullName[i+1:]
		}
	}
	return "", fullName
}
