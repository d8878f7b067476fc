package leads

import (
	"fmt"
	"html"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameLength  = 200
	maxEmailLength = 254 // RFC 5321
	maxPhoneLength = 32
	maxLabelLength = 50
)

// Practical address check applied after net/mail accepts the input.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ()./-]{3,}$`)

// ValidationError is a client error with a message safe to return verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// SanitizeName trims the name, drops control characters and escapes HTML.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = removeControlChars(name)
	return html.EscapeString(name)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) (string, error) {
	name = SanitizeName(name)
	if name == "" {
		return "", invalidf("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", invalidf("name", "name must be at most %d characters long", maxNameLength)
	}
	return name, nil
}

func validateEmail(email string) (string, error) {
	email = NormalizeEmail(email)
	if len(email) > maxEmailLength {
		return "", invalidf("email", "email address is too long (max %d characters)", maxEmailLength)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !emailRegex.MatchString(addr.Address) {
		return "", invalidf("email", "invalid email address format")
	}
	return addr.Address, nil
}

func validatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) > maxPhoneLength {
		return "", invalidf("phone", "phone must be at most %d characters long", maxPhoneLength)
	}
	if !phoneRegex.MatchString(phone) {
		return "", invalidf("phone", "invalid phone number format")
	}
	return phone, nil
}

// validateLabel checks stage and status values.
func validateLabel(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidf(field, "%s must not be empty", field)
	}
	if len(value) > maxLabelLength {
		return "", invalidf(field, "%s must be at most %d characters long", field, maxLabelLength)
	}
	for _, r := range value {
		if !(unicode.IsLower(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return "", invalidf(field, "%s may contain only lowercase letters, digits, '_' and '-'", field)
		}
	}
	return value, nil
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
