package validator

import (
	"regexp"

	playground "github.com/go-playground/validator/v10"
)

// Validation is deliberately decoupled from sanitization: a sanitized value
// may still be semantically invalid (for instance an empty string), and these
// predicates never modify their input.

var (
	validate = playground.New()

	// Digits, +, parens, dashes, dots and spaces, 7-20 significant characters.
	phonePattern = regexp.MustCompile(`^[+]?[\d\s().-]{7,20}$`)
)

// IsValidEmail reports whether the string is a plausible email address.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return validate.Var(email, "email") == nil
}

// IsValidURL reports whether the string parses as an absolute http(s) URL.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	return validate.Var(raw, "http_url") == nil
}

// IsValidPhoneNumber reports whether the string looks like a phone number
// after sanitization-permitted characters only.
func IsValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}
