// Package cli provides CLI infrastructure for lodge.
package cli

import (
	"fmt"
	"strings"
)

// FacilityFields are the facility attributes accepted by 'facility modify'.
var FacilityFields = []string{"location", "capacity", "email"}

// CustomerFields are the customer attributes accepted by 'customer modify'.
var CustomerFields = []string{"name", "phone"}

// MatchField resolves a field name from a unique prefix, case-insensitively.
// An exact match wins over longer fields sharing the prefix.
func MatchField(prefix string, fields []string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", &ValidationError{Field: "field", Message: "must be one of " + strings.Join(fields, ", ")}
	}

	var matches []string
	for _, f := range fields {
		name := strings.ToLower(f)
		if name == prefix {
			return f, nil
		}
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return "", &ValidationError{
			Field:   "field",
			Message: fmt.Sprintf("unknown field %q (expected one of %s)", prefix, strings.Join(fields, ", ")),
		}
	case 1:
		return matches[0], nil
	default:
		return "", &ValidationError{
			Field:   "field",
			Message: fmt.Sprintf("ambiguous field %q matches: %s", prefix, strings.Join(matches, ", ")),
		}
	}
}
