// Package rules implements the change-notification convention checks.
//
// Evaluate inspects one class together with its inheritance chain and
// returns the findings for it:
//
//   - Class level: an AddINotifyPropertyChangedInterfaceAttribute marker on a
//     class without any settable property is reported as unnecessary.
//   - Property level: a DoNotNotifyAttribute on a property without setter is
//     reported as unnecessary.
//   - Method level: every On<Property>Changed callback is matched to its
//     property and checked for capability, signature, setter and suppression.
//
// # Ambiguity Policy
//
// Input may be transiently inconsistent while the user is editing: the same
// member or attribute may be declared twice. Evaluate never fails on such
// input. Two policies apply, and the asymmetry is intentional:
//
//   - Class marker attribute and callback-to-member matching take the first
//     match in declaration order. Equally named candidates are assumed to be
//     equally right or equally wrong until the edit is finished.
//   - DoNotNotifyAttribute on a property must be unique. When it is applied
//     more than once the unnecessary-attribute check is skipped for that
//     property instead of picking one.
//
// The package is pure: no logging, no I/O, no shared state. Evaluate may be
// called concurrently for different classes.
package rules
