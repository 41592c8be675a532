package domain

import "unicode"

// ValidName reports whether a nickname or channel name is acceptable:
// non-empty and made of letters and digits only. The same predicate
// gates both namespaces.
func ValidName[T ~string](name T) bool {
	if len(name) == 0 {
		return false
	}
	for _, r := range string(name) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
