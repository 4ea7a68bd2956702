package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/notifylint/internal/ir"
)

// classDecl is a parsed class before base and interface references are
// linked.
type classDecl struct {
	class      *ir.ClassModel
	base       positioned
	implements []positioned
	overrides  []positioned // override methods, checked against base at link time
}

// parseClass compiles one "class" entry. The value is either a single
// declaration struct or a list of partial fragments, merged in order.
//
//	class: Foo: {members: [...]}
//	class: Foo: [{members: [...]}, {implements: [...]}]
func parseClass(name string, v cue.Value) (*classDecl, error) {
	decl := &classDecl{
		class: &ir.ClassModel{
			Name:   name,
			Anchor: anchorAt(v.Pos(), name),
		},
	}

	if v.IncompleteKind() == cue.ListKind {
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			field := fmt.Sprintf("class.%s[%d]", name, i)
			if err := decl.mergeFragment(iter.Value(), field); err != nil {
				return nil, err
			}
		}
		if decl.class.Fragments == 0 {
			return nil, &CompileError{
				Field:   "class." + name,
				Message: "partial class must have at least one fragment",
				Pos:     v.Pos(),
			}
		}
		return decl, nil
	}

	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   "class." + name,
			Message: "must be a struct or a list of partial fragments",
			Pos:     v.Pos(),
		}
	}
	if err := decl.mergeFragment(v, "class."+name); err != nil {
		return nil, err
	}
	return decl, nil
}

// mergeFragment folds one declaration fragment into the class.
func (d *classDecl) mergeFragment(v cue.Value, field string) error {
	c := d.class
	c.Fragments++

	ns, err := lookupString(v, "namespace", field+".namespace")
	if err != nil {
		return err
	}
	if ns != "" {
		if c.Namespace != "" && c.Namespace != ns {
			return &CompileError{
				Field:   field + ".namespace",
				Message: fmt.Sprintf("conflicting namespace %q, previous fragment declared %q", ns, c.Namespace),
				Pos:     v.LookupPath(cue.ParsePath("namespace")).Pos(),
			}
		}
		c.Namespace = ns
	}

	base, err := lookupString(v, "base", field+".base")
	if err != nil {
		return err
	}
	if base != "" {
		pos := v.LookupPath(cue.ParsePath("base")).Pos()
		if d.base.Value != "" && d.base.Value != base {
			return &CompileError{
				Field:   field + ".base",
				Message: fmt.Sprintf("conflicting base type %q, previous fragment declared %q", base, d.base.Value),
				Pos:     pos,
			}
		}
		d.base = positioned{Value: base, Pos: pos}
	}

	impl, err := lookupStringList(v, "implements", field+".implements")
	if err != nil {
		return err
	}
	d.implements = append(d.implements, impl...)

	attrs, err := lookupStringList(v, "attributes", field+".attributes")
	if err != nil {
		return err
	}
	for _, a := range attrs {
		c.Attributes = append(c.Attributes, ir.Attribute{
			Name:   AttributeClassName(a.Value),
			Anchor: anchorAt(a.Pos, c.Name),
		})
	}

	membersVal := v.LookupPath(cue.ParsePath("members"))
	if !membersVal.Exists() {
		return nil
	}
	iter, err := membersVal.List()
	if err != nil {
		return &CompileError{Field: field + ".members", Message: "must be a list", Pos: membersVal.Pos()}
	}
	for i := 0; iter.Next(); i++ {
		m, err := d.parseMember(iter.Value(), fmt.Sprintf("%s.members[%d]", field, i))
		if err != nil {
			return err
		}
		c.Members = append(c.Members, m)
	}
	return nil
}

// parseMember reads {property: ...} or {method: ...}.
func (d *classDecl) parseMember(v cue.Value, field string) (ir.Member, error) {
	propName, err := lookupString(v, "property", field+".property")
	if err != nil {
		return nil, err
	}
	methodName, err := lookupString(v, "method", field+".method")
	if err != nil {
		return nil, err
	}

	switch {
	case propName != "" && methodName != "":
		return nil, &CompileError{Field: field, Message: "member cannot be both property and method", Pos: v.Pos()}

	case propName != "":
		setter, err := lookupBool(v, "setter", field+".setter")
		if err != nil {
			return nil, err
		}
		attrs, err := lookupStringList(v, "attributes", field+".attributes")
		if err != nil {
			return nil, err
		}
		symbol := d.class.Name + "." + propName
		p := &ir.PropertyModel{
			Name:      propName,
			HasSetter: setter,
			Anchor:    anchorAt(v.Pos(), symbol),
		}
		for _, a := range attrs {
			p.Attributes = append(p.Attributes, ir.Attribute{
				Name:   AttributeClassName(a.Value),
				Anchor: anchorAt(a.Pos, symbol),
			})
		}
		return p, nil

	case methodName != "":
		static, err := lookupBool(v, "static", field+".static")
		if err != nil {
			return nil, err
		}
		override, err := lookupBool(v, "override", field+".override")
		if err != nil {
			return nil, err
		}
		if static && override {
			return nil, &CompileError{Field: field, Message: "static method cannot override", Pos: v.Pos()}
		}
		m := &ir.MethodModel{
			Name:       methodName,
			IsStatic:   static,
			IsOverride: override,
			Anchor:     anchorAt(v.Pos(), d.class.Name+"."+methodName),
		}
		if override {
			d.overrides = append(d.overrides, positioned{Value: methodName, Pos: v.Pos()})
		}
		return m, nil

	default:
		return nil, &CompileError{Field: field, Message: "member must declare property or method", Pos: v.Pos()}
	}
}

// AttributeClassName returns the attribute class name for an attribute as
// written in source: the namespace qualifier is dropped and the conventional
// "Attribute" suffix is added when omitted.
//
//	PropertyChanged.DoNotNotify          -> DoNotNotifyAttribute
//	PropertyChanged.DoNotNotifyAttribute -> DoNotNotifyAttribute
func AttributeClassName(written string) string {
	_, name := splitQualified(written)
	if !strings.HasSuffix(name, "Attribute") {
		name += "Attribute"
	}
	return name
}
