package rules

import "github.com/roach88/notifylint/internal/ir"

var notifyIface = &ir.Interface{Name: "INotifyPropertyChanged", Namespace: "System.ComponentModel"}

func prop(name string, setter bool, attrs ...string) *ir.PropertyModel {
	return &ir.PropertyModel{
		Name:       name,
		HasSetter:  setter,
		Attributes: attributes(name, attrs...),
		Anchor:     ir.Anchor{Symbol: name},
	}
}

func method(name string) *ir.MethodModel {
	return &ir.MethodModel{Name: name, Anchor: ir.Anchor{Symbol: name}}
}

func staticMethod(name string) *ir.MethodModel {
	m := method(name)
	m.IsStatic = true
	return m
}

func overrideMethod(name string) *ir.MethodModel {
	m := method(name)
	m.IsOverride = true
	return m
}

func attributes(owner string, names ...string) []ir.Attribute {
	var attrs []ir.Attribute
	for i, n := range names {
		attrs = append(attrs, ir.Attribute{Name: n, Anchor: ir.Anchor{Symbol: owner, Line: i + 1}})
	}
	return attrs
}

// notifying builds a class implementing the notification interface.
func notifying(name string, members ...ir.Member) *ir.ClassModel {
	return &ir.ClassModel{
		Name:       name,
		Members:    members,
		Interfaces: []*ir.Interface{notifyIface},
	}
}

// plain builds a class without interfaces or attributes.
func plain(name string, members ...ir.Member) *ir.ClassModel {
	return &ir.ClassModel{Name: name, Members: members}
}

func kinds(findings []ir.Finding) []ir.Kind {
	out := make([]ir.Kind, len(findings))
	for i, f := range findings {
		out[i] = f.Kind
	}
	return out
}
