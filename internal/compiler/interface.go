package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/notifylint/internal/ir"
)

// interfaceTable resolves fully-qualified interface names to one shared
// *ir.Interface each. Names that are referenced but never declared are
// created on first use as external interfaces, the way a front end resolves
// types from referenced assemblies.
type interfaceTable struct {
	order   []*ir.Interface
	byName  map[string]*ir.Interface
	extends map[*ir.Interface][]positioned
}

func newInterfaceTable() *interfaceTable {
	return &interfaceTable{
		byName:  make(map[string]*ir.Interface),
		extends: make(map[*ir.Interface][]positioned),
	}
}

// resolve returns the interface for fullName, creating it if needed.
func (t *interfaceTable) resolve(fullName string) *ir.Interface {
	if iface, ok := t.byName[fullName]; ok {
		return iface
	}
	ns, name := splitQualified(fullName)
	iface := &ir.Interface{Name: name, Namespace: ns, Anchor: ir.Anchor{Symbol: fullName}}
	t.byName[fullName] = iface
	t.order = append(t.order, iface)
	return iface
}

// parseInterfaces reads the top-level "interface" struct:
//
//	interface: "System.ComponentModel.INotifyPropertyChanged": {}
//	interface: "App.IViewModel": extends: ["System.ComponentModel.INotifyPropertyChanged"]
func (t *interfaceTable) parseInterfaces(root cue.Value, collect func(error) bool) {
	ifaceVal := root.LookupPath(cue.ParsePath("interface"))
	if !ifaceVal.Exists() {
		return
	}

	iter, err := ifaceVal.Fields()
	if err != nil {
		collect(formatCUEError(err))
		return
	}

	for iter.Next() {
		fullName := iter.Selector().Unquoted()
		v := iter.Value()

		iface := t.resolve(fullName)
		iface.Anchor = anchorAt(v.Pos(), fullName)

		ext, err := lookupStringList(v, "extends", "interface."+fullName+".extends")
		if err != nil {
			if !collect(err) {
				return
			}
			continue
		}
		t.extends[iface] = ext
	}
}

// link resolves extends clauses and rejects interface inheritance cycles.
func (t *interfaceTable) link(collect func(error) bool) bool {
	graph := newDependencyGraph()
	// Snapshot: resolve may append external interfaces while we iterate.
	declared := append([]*ir.Interface(nil), t.order...)
	for _, iface := range declared {
		graph.addNode(iface.FullName())
		for _, ext := range t.extends[iface] {
			parent := t.resolve(ext.Value)
			iface.Extends = append(iface.Extends, parent)
			graph.addEdge(iface.FullName(), parent.FullName())
		}
	}

	ok := true
	for _, c := range findCycles("interface", graph) {
		ok = false
		if !collect(&CompileError{Field: "interface", Message: c.String()}) {
			return false
		}
	}
	return ok
}

// closure returns direct plus transitively extended interfaces, each once,
// in first-seen order.
func closure(direct []*ir.Interface) []*ir.Interface {
	var (
		out  []*ir.Interface
		seen = make(map[*ir.Interface]bool)
		walk func(*ir.Interface)
	)
	walk = func(i *ir.Interface) {
		if seen[i] {
			return
		}
		seen[i] = true
		out = append(out, i)
		for _, e := range i.Extends {
			walk(e)
		}
	}
	for _, i := range direct {
		walk(i)
	}
	return out
}
