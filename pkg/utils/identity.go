package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Regex to match a normalized Malaysian mobile number (+60 followed by 9-10 digits)
	phoneRegex = regexp.MustCompile(`^\+60\d{9,10}$`)
	// Regex to match a Malaysian NRIC (12 digits, no separators)
	nricRegex = regexp.MustCompile(`^\d{12}$`)
	// Regex to remove non-digit characters
	digitsOnlyRegex = regexp.MustCompile(`[^0-9]`)
)

// NormalizePhoneNumber normalizes a phone number by removing separators and
// converting local Malaysian forms to the +60 international format.
// Accepted inputs: "0122223333", "60122223333", "+60 12-222 3333".
func NormalizePhoneNumber(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", errors.New("phone number cannot be empty")
	}

	// Remove all non-digit characters (plus sign, hyphens, spaces, parentheses)
	digits := digitsOnlyRegex.ReplaceAllString(phone, "")

	switch {
	case strings.HasPrefix(digits, "60"):
		// Already international, just re-attach the plus
	case strings.HasPrefix(digits, "0"):
		// Local format 01XXXXXXXX -> 601XXXXXXXX
		digits = "60" + digits[1:]
	default:
		return "", errors.New("invalid Malaysian phone number format")
	}

	normalized := "+" + digits
	if !phoneRegex.MatchString(normalized) {
		return "", errors.New("invalid Malaysian phone number format")
	}

	return normalized, nil
}

// ValidateNRIC reports whether the given string is a well-formed Malaysian
// NRIC: exactly 12 digits after trimming surrounding whitespace.
func ValidateNRIC(nric string) bool {
	return nricRegex.MatchString(strings.TrimSpace(nric))
}

// NormalizeReceiptNumber trims surrounding whitespace. Receipt comparison is
// trim-then-exact-match and case-sensitive, so nothing else is touched.
func NormalizeReceiptNumber(receipt string) string {
	return strings.TrimSpace(receipt)
}
