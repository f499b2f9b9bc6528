package probe

import (
	"fmt"
	"strings"
)

// FallbackUnknownCode is the exit code used when no health map could be loaded.
const FallbackUnknownCode = 3

// HealthMap binds each status to a process exit code.
type HealthMap map[Status]int

// Validate reports the first status without an exit code.
func (h HealthMap) Validate() error {
	for _, s := range Statuses {
		if _, ok := h[s]; !ok {
			return fmt.Errorf("no exit code for %q", s)
		}
	}
	return nil
}

// ExitCode returns the exit code for s. Statuses missing from the map fall
// back to the unknown code, and to FallbackUnknownCode after that.
func (h HealthMap) ExitCode(s Status) int {
	if code, ok := h[s]; ok {
		return code
	}
	if code, ok := h[StatusUnknown]; ok {
		return code
	}
	return FallbackUnknownCode
}

// Label is the capitalized status name printed before a failure message.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Valid reports whether s belongs to the health taxonomy.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}
