package cli

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Word characters include letters and digits from any script.
	emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidateEmail checks that s looks like an email address.
func ValidateEmail(field, s string) error {
	if !emailPattern.MatchString(s) {
		return &ValidationError{Field: field, Message: "must look like name@example.com"}
	}
	return nil
}

// ValidatePhone checks that s is exactly ten digits.
func ValidatePhone(s string) error {
	if !phonePattern.MatchString(s) {
		return &ValidationError{Field: "phone", Message: "must be exactly 10 digits"}
	}
	return nil
}

// ValidateNonEmpty rejects blank values.
func ValidateNonEmpty(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// ParseCapacity parses a non-negative unit count.
func ParseCapacity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{Field: "capacity", Message: "must be a whole number"}
	}
	if n < 0 {
		return 0, &ValidationError{Field: "capacity", Message: "must not be negative"}
	}
	return n, nil
}
