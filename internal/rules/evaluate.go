package rules

import "github.com/roach88/notifylint/internal/ir"

// Evaluate runs every convention check on class and returns its findings.
//
// Findings are ordered: the class-level check first, then member checks in
// member declaration order. Evaluate is a pure function of its inputs; two
// calls on the same class return identical sequences.
//
// iface is the notification interface identity. It may be nil when the
// program does not declare the interface.
func Evaluate(class *ir.ClassModel, iface *ir.Interface) []ir.Finding {
	var findings []ir.Finding
	Report(class, iface, SinkFunc(func(f ir.Finding) {
		findings = append(findings, f)
	}))
	return findings
}

// Report runs the checks like Evaluate but delivers each finding to sink as
// soon as it is produced.
func Report(class *ir.ClassModel, iface *ir.Interface, sink Sink) {
	checkClassAttribute(class, sink)

	// Capability is a property of the class, not of the member; compute it
	// lazily once for all callbacks.
	var (
		inherits  bool
		evaluated bool
	)

	for _, member := range class.Members {
		switch m := member.(type) {
		case *ir.PropertyModel:
			checkPropertyAttribute(m, sink)

		case *ir.MethodModel:
			expected, ok := CallbackPropertyName(m.Name)
			if !ok {
				continue
			}
			// An override's property most likely lives on the ancestor that
			// declared the method; it is checked there.
			if m.IsOverride {
				continue
			}
			if !evaluated {
				inherits = ImplementsNotificationCapability(class, iface)
				evaluated = true
			}
			checkCallback(class, m, expected, inherits, sink)
		}
	}
}

// checkClassAttribute reports a capability marker on a class that has no
// settable property. A class without properties qualifies.
func checkClassAttribute(class *ir.ClassModel, sink Sink) {
	attr, ok := firstAttribute(class.Attributes, AddInterfaceAttribute)
	if !ok {
		return
	}

	for _, p := range class.Properties() {
		if p.HasSetter {
			return
		}
	}

	sink.Emit(ir.Finding{
		Kind:    ir.KindUnnecessaryAddInterfaceAttribute,
		Subject: class.Name,
		Anchor:  attr.Anchor,
	})
}

// checkPropertyAttribute reports a suppression attribute on a property that
// has no setter. Duplicate applications skip the check.
func checkPropertyAttribute(prop *ir.PropertyModel, sink Sink) {
	attr, ok := singleAttribute(prop.Attributes, DoNotNotifyAttribute)
	if !ok || prop.HasSetter {
		return
	}

	sink.Emit(ir.Finding{
		Kind:    ir.KindUnnecessaryDoNotNotifyAttribute,
		Subject: prop.Name,
		Anchor:  attr.Anchor,
	})
}

// checkCallback runs the independent callback checks. Several can fire for
// the same method.
func checkCallback(class *ir.ClassModel, method *ir.MethodModel, expected string, inherits bool, sink Sink) {
	if !inherits {
		sink.Emit(ir.Finding{
			Kind:    ir.KindDoesNotInherit,
			Subject: class.Name,
			Anchor:  method.Anchor,
		})
	}

	if method.IsStatic {
		sink.Emit(ir.Finding{
			Kind:    ir.KindUnsupportedMethodSignature,
			Subject: method.Name,
			Anchor:  method.Anchor,
		})
	}

	prop, ok := findMember(class, expected).(*ir.PropertyModel)
	if !ok {
		sink.Emit(ir.Finding{
			Kind:    ir.KindNoMatchingProperty,
			Subject: expected,
			Anchor:  method.Anchor,
		})
		return
	}

	if !prop.HasSetter {
		sink.Emit(ir.Finding{
			Kind:    ir.KindNoSetter,
			Subject: expected,
			Anchor:  method.Anchor,
		})
	}

	if hasAttribute(prop.Attributes, DoNotNotifyAttribute) {
		sink.Emit(ir.Finding{
			Kind:    ir.KindSuppressedNotification,
			Subject: prop.Name,
			Anchor:  method.Anchor,
		})
	}
}

// findMember returns the first member of class (ancestors excluded) whose
// name equals name under ordinal comparison, or nil.
func findMember(class *ir.ClassModel, name string) ir.Member {
	for _, m := range class.Members {
		if m.MemberName() == name {
			return m
		}
	}
	return nil
}
