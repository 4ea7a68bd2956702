package ir

// Kind classifies a Finding. The set is closed.
type Kind string

const (
	// KindDoesNotInherit: the callback's class has no notification capability.
	KindDoesNotInherit Kind = "DoesNotInherit"

	// KindNoMatchingProperty: no property named after the callback exists.
	KindNoMatchingProperty Kind = "NoMatchingProperty"

	// KindNoSetter: the matching property cannot be set.
	KindNoSetter Kind = "NoSetter"

	// KindSuppressedNotification: the matching property suppresses notification.
	KindSuppressedNotification Kind = "SuppressedNotification"

	// KindUnsupportedMethodSignature: the callback is static.
	KindUnsupportedMethodSignature Kind = "UnsupportedMethodSignature"

	// KindUnnecessaryDoNotNotifyAttribute: suppression on a property without setter.
	KindUnnecessaryDoNotNotifyAttribute Kind = "UnnecessaryDoNotNotifyAttribute"

	// KindUnnecessaryAddInterfaceAttribute: marker on a class without settable properties.
	KindUnnecessaryAddInterfaceAttribute Kind = "UnnecessaryAddInterfaceAttribute"
)

// Kinds returns every finding kind in catalog order.
func Kinds() []Kind {
	return []Kind{
		KindDoesNotInherit,
		KindNoMatchingProperty,
		KindNoSetter,
		KindSuppressedNotification,
		KindUnsupportedMethodSignature,
		KindUnnecessaryDoNotNotifyAttribute,
		KindUnnecessaryAddInterfaceAttribute,
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}
