package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/notifylint/internal/ir"
)

// Compile parses a CUE value holding top-level "interface" and "class"
// declarations into a linked Program. It stops at the first error.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(src)
//	prog, err := Compile(v)
func Compile(v cue.Value) (*ir.Program, error) {
	c := &collector{failFast: true}
	prog := compile(v, c)
	if len(c.errs) > 0 {
		return nil, c.errs[0]
	}
	return prog, nil
}

// CompileAll is like Compile but keeps going after an error and returns
// every problem it found. The Program is nil whenever errs is non-empty.
func CompileAll(v cue.Value) (*ir.Program, []error) {
	c := &collector{}
	prog := compile(v, c)
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return prog, nil
}

// collector accumulates compile errors.
type collector struct {
	errs     []error
	failFast bool
}

// add records err and reports whether compilation should continue.
func (c *collector) add(err error) bool {
	c.errs = append(c.errs, err)
	return !c.failFast
}

func (c *collector) stop() bool {
	return c.failFast && len(c.errs) > 0
}

func compile(v cue.Value, c *collector) *ir.Program {
	if err := v.Err(); err != nil {
		c.add(formatCUEError(err))
		return nil
	}

	ifaces := newInterfaceTable()
	ifaces.parseInterfaces(v, c.add)
	if c.stop() {
		return nil
	}

	decls := parseClasses(v, c.add)
	if c.stop() {
		return nil
	}

	// Class implements clauses may name interfaces that are never declared,
	// so resolve them before linking extends.
	for _, d := range decls {
		for _, ref := range d.implements {
			d.class.Interfaces = append(d.class.Interfaces, ifaces.resolve(ref.Value))
		}
	}
	ifaces.link(c.add)
	if c.stop() {
		return nil
	}
	linkClasses(decls, c.add)
	if len(c.errs) > 0 {
		return nil
	}

	classes := make([]*ir.ClassModel, 0, len(decls))
	for _, d := range decls {
		d.class.Interfaces = closure(d.class.Interfaces)
		classes = append(classes, d.class)
	}
	return ir.NewProgram(classes, ifaces.order)
}

// parseClasses reads the top-level "class" struct in declaration order.
func parseClasses(root cue.Value, collect func(error) bool) []*classDecl {
	classVal := root.LookupPath(cue.ParsePath("class"))
	if !classVal.Exists() {
		return nil
	}
	iter, err := classVal.Fields()
	if err != nil {
		collect(formatCUEError(err))
		return nil
	}

	var decls []*classDecl
	for iter.Next() {
		d, err := parseClass(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			if !collect(err) {
				return nil
			}
			continue
		}
		decls = append(decls, d)
	}
	return decls
}

// linkClasses sets Base pointers and rejects unknown bases, class
// inheritance cycles and overrides with nothing to override.
func linkClasses(decls []*classDecl, collect func(error) bool) bool {
	byName := make(map[string]*classDecl, len(decls))
	for _, d := range decls {
		byName[d.class.Name] = d
	}

	ok := true
	graph := newDependencyGraph()
	for _, d := range decls {
		name := d.class.Name
		graph.addNode(name)

		if d.base.Value != "" {
			base, found := byName[d.base.Value]
			if !found {
				ok = false
				if !collect(&CompileError{
					Field:   "class." + name + ".base",
					Message: fmt.Sprintf("unknown base class %q", d.base.Value),
					Pos:     d.base.Pos,
				}) {
					return false
				}
			} else {
				d.class.Base = base.class
				graph.addEdge(name, base.class.Name)
			}
		}

		if d.base.Value == "" {
			for _, m := range d.overrides {
				ok = false
				if !collect(&CompileError{
					Field:   "class." + name + ".members",
					Message: fmt.Sprintf("method %s overrides but class has no base", m.Value),
					Pos:     m.Pos,
				}) {
					return false
				}
			}
		}
	}

	cycles := findCycles("class", graph)
	for _, c := range cycles {
		ok = false
		if !collect(&CompileError{Field: "class", Message: c.String()}) {
			return false
		}
	}
	// Ancestor walks below need finite base chains.
	if len(cycles) > 0 {
		return ok
	}

	for _, d := range decls {
		if d.class.Base == nil {
			continue
		}
		for _, m := range d.overrides {
			if inheritsMethod(d.class.Base, m.Value) {
				continue
			}
			ok = false
			if !collect(&CompileError{
				Field:   "class." + d.class.Name + ".members",
				Message: fmt.Sprintf("method %s overrides but no ancestor of %s declares it", m.Value, d.class.Name),
				Pos:     m.Pos,
			}) {
				return false
			}
		}
	}
	return ok
}

// inheritsMethod reports whether class or one of its ancestors declares an
// instance method named name.
func inheritsMethod(class *ir.ClassModel, name string) bool {
	for c := class; c != nil; c = c.Base {
		for _, member := range c.Members {
			if m, ok := member.(*ir.MethodModel); ok && m.Name == name && !m.IsStatic {
				return true
			}
		}
	}
	return false
}
