package inventory

import (
	"golang.org/x/text/cases"
	"inventra-backend/domain"
	"strings"
)

// NameKey is the canonical form of an item or ingredient name used for matching.
// Names compare case-insensitively and ignore surrounding whitespace.
func NameKey(name string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(name))
}

// MatchKey identifies a (name, unit) pair. Units must match exactly; there is no conversion.
func MatchKey(name string, unit domain.Unit) string {
	return NameKey(name) + "|" + string(unit)
}
