package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Phone validation pattern - 10 to 15 digits, optional leading +
	PhonePattern = `^\+?\d{10,15}$`

	// Class level pattern - e.g. "9", "9-A", "12-C"
	ClassPattern = `^\d{1,2}(-[A-Z])?$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone *regexp.Regexp
	Class *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
	Class: regexp.MustCompile(ClassPattern),
}

// IsValidPhone reports whether the value looks like a usable phone number
func IsValidPhone(phone string) bool {
	return CompiledPatterns.Phone.MatchString(phone)
}

// IsValidClass reports whether the value looks like a class level label
func IsValidClass(class string) bool {
	return CompiledPatterns.Class.MatchString(class)
}

// IsValidPassword checks the minimum password requirements
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}

// IsValidName checks name length bounds
func IsValidName(name string) bool {
	return len(name) >= NameMinLength && len(name) <= NameMaxLength
}
