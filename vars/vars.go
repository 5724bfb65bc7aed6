// Package vars has small helpers for picking setting values.
package vars

import "strings"

// FirstNonZero returns the first value that is not the zero value, in order of
// precedence.
func FirstNonZero[T comparable](values ...T) T {
	var zero T
	for _, value := range values {
		if value != zero {
			return value
		}
	}
	return zero
}

// StrToBool parses command line and environment booleans. Unknown strings are false.
func StrToBool(str string) bool {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "true", "t", "yes", "y", "on", "1":
		return true
	}
	return false
}
