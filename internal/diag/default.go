package diag

import (
	"sync"

	"github.com/roach88/notifylint/internal/ir"
)

// Callback diagnostics use ids PA0001-PA0999, attribute diagnostics
// PA1000-PA1999.
var defaultDescriptors = []Descriptor{
	{
		ID:            "PA0001",
		Kind:          ir.KindDoesNotInherit,
		Title:         "Method will not be called on change because the class does not inherit from INotifyPropertyChanged or does not have it weaved",
		MessageFormat: "Class %s does not inherit from INotifyPropertyChanged. This method will not be called by PropertyChanged.Fody.",
	},
	{
		ID:            "PA0002",
		Kind:          ir.KindNoMatchingProperty,
		Title:         "No property found for this changed method",
		MessageFormat: "Property %s not found for this changed handler. This method will not be called by PropertyChanged.Fody.",
	},
	{
		ID:            "PA0003",
		Kind:          ir.KindNoSetter,
		Title:         "Method will not be called on change because property has no setter",
		MessageFormat: "Property %s has no setter. This method will not be called by PropertyChanged.Fody.",
	},
	{
		ID:            "PA0004",
		Kind:          ir.KindSuppressedNotification,
		Title:         "Method will not be called on change because Property is suppressing its change notification via attribute",
		MessageFormat: "Property '%s' is suppressing change notifications with an attribute. This method will not be called by PropertyChanged.Fody.",
	},
	{
		ID:            "PA0005",
		Kind:          ir.KindUnsupportedMethodSignature,
		Title:         "Method will not be called on change because it has an unsupported signature",
		MessageFormat: "Method %s has an unsupported signature. This method will not be called by PropertyChanged.Fody.",
	},
	{
		ID:            "PA1000",
		Kind:          ir.KindUnnecessaryDoNotNotifyAttribute,
		Title:         "Attribute is unnecessary because property has no setter",
		MessageFormat: "'DoNotNotifyAttribute' is unnecessary because property %s has no setter.",
	},
	{
		ID:            "PA1001",
		Kind:          ir.KindUnnecessaryAddInterfaceAttribute,
		Title:         "Attribute is unnecessary because class has no property",
		MessageFormat: "'AddINotifyPropertyChangedInterfaceAttribute' is unnecessary because class %s has no properties or no properties with setters.",
	},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in English catalog. Every descriptor is
// a warning in Category tagged TagUnnecessary.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		descs := make([]Descriptor, len(defaultDescriptors))
		for i, d := range defaultDescriptors {
			d.Severity = SeverityWarning
			d.Category = Category
			d.Tags = []string{TagUnnecessary}
			descs[i] = d
		}
		c, err := NewCatalog(descs)
		if err != nil {
			panic("diag: default catalog: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
