// internal/application/collaborators/phone.go
package collaborators

import (
	"fmt"
	"strings"
	"unicode"
)

// PhoneFormatter turns free-form phone input into the international form
// the messaging-contact field expects.
type PhoneFormatter interface {
	Format(raw string) (string, error)
}

// E164Formatter strips punctuation and prefixes DefaultCountryCode when the
// number carries no international prefix. Empty input stays empty.
type E164Formatter struct {
	DefaultCountryCode string
}

func NewE164Formatter(defaultCountryCode string) *E164Formatter {
	return &E164Formatter{DefaultCountryCode: strings.TrimPrefix(defaultCountryCode, "+")}
}

func (f *E164Formatter) Format(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	international := strings.HasPrefix(raw, "+")
	var digits strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", fmt.Errorf("unexpected character %q in phone number", r)
		}
	}

	number := digits.String()
	if !international && strings.HasPrefix(number, "00") {
		number = strings.TrimPrefix(number, "00")
		international = true
	}
	if !international {
		number = f.DefaultCountryCode + strings.TrimLeft(number, "0")
	}
	if number == "" {
		return "", fmt.Errorf("phone number has no digits")
	}
	return "+" + number, nil
}
