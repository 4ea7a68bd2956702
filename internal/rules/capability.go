package rules

import "github.com/roach88/notifylint/internal/ir"

// Well-known type names.
const (
	// NotificationInterface is the interface whose implementation gives a
	// class change-notification capability.
	NotificationInterface = "System.ComponentModel.INotifyPropertyChanged"

	// AddInterfaceAttribute marks a class whose notification plumbing is
	// generated by a downstream weaving step.
	AddInterfaceAttribute = "AddINotifyPropertyChangedInterfaceAttribute"

	// DoNotNotifyAttribute suppresses change notification for one property.
	DoNotNotifyAttribute = "DoNotNotifyAttribute"
)

// ImplementsNotificationCapability reports whether class, or any of its
// ancestors, implements iface or carries the AddInterfaceAttribute marker.
//
// Interface matching is by identity: an interface with the same name but a
// different declaration does not count. A nil iface never matches, so only
// the marker attribute can establish the capability.
//
// The walk does not stop at an ancestor lacking the capability; it continues
// to the root. Base chains must be finite.
func ImplementsNotificationCapability(class *ir.ClassModel, iface *ir.Interface) bool {
	for c := class; c != nil; c = c.Base {
		if hasInterface(c, iface) || hasAttribute(c.Attributes, AddInterfaceAttribute) {
			return true
		}
	}
	return false
}

func hasInterface(class *ir.ClassModel, iface *ir.Interface) bool {
	if iface == nil {
		return false
	}
	for _, i := range class.Interfaces {
		if i == iface {
			return true
		}
	}
	return false
}

// firstAttribute returns the first attribute named name, tolerating duplicates.
func firstAttribute(attrs []ir.Attribute, name string) (ir.Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return ir.Attribute{}, false
}

// singleAttribute returns the attribute named name only when it is applied
// exactly once. Zero or several applications both yield ok=false.
func singleAttribute(attrs []ir.Attribute, name string) (attr ir.Attribute, ok bool) {
	count := 0
	for _, a := range attrs {
		if a.Name == name {
			attr = a
			count++
		}
	}
	if count != 1 {
		return ir.Attribute{}, false
	}
	return attr, true
}

func hasAttribute(attrs []ir.Attribute, name string) bool {
	_, ok := firstAttribute(attrs, name)
	return ok
}
