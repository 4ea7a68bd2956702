package rules

import "strings"

const (
	callbackPrefix = "On"
	callbackSuffix = "Changed"

	// minCallbackLength is "On" + one character + "Changed".
	minCallbackLength = len(callbackPrefix) + 1 + len(callbackSuffix)
)

// CallbackPropertyName decomposes a change-callback method name.
// For "OnIsUsefulChanged" it returns ("IsUseful", true). Names that do not
// start with "On", end with "Changed" and carry at least one character in
// between are not callbacks.
func CallbackPropertyName(method string) (string, bool) {
	if len(method) < minCallbackLength {
		return "", false
	}
	if !strings.HasPrefix(method, callbackPrefix) || !strings.HasSuffix(method, callbackSuffix) {
		return "", false
	}
	return method[len(callbackPrefix) : len(method)-len(callbackSuffix)], true
}
