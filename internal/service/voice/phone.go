package voice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPhone is returned when a destination cannot be normalized to an
// E.164-like number.
var ErrInvalidPhone = errors.New("invalid destination phone")

// defaultCountryCode is prepended to plain 10-digit local numbers.
const defaultCountryCode = "91"

// NormalizePhone reduces free-form input to +<digits>. A leading '+' keeps
// the country code as given; a bare 10-digit number is treated as domestic;
// a 12-digit number already carrying the default country code just gains
// the '+'. Anything else is prefixed with '+' verbatim.
func NormalizePhone(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrInvalidPhone
	}

	if strings.HasPrefix(value, "+") {
		digits := keepDigits(value[1:])
		if digits == "" {
			return "", ErrInvalidPhone
		}
		return "+" + digits, nil
	}

	digits := keepDigits(value)
	switch {
	case digits == "":
		return "", ErrInvalidPhone
	case len(digits) == 10:
		return "+" + defaultCountryCode + digits, nil
	case len(digits) == 12 && strings.HasPrefix(digits, defaultCountryCode):
		return "+" + digits, nil
	default:
		return "+" + digits, nil
	}
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func invalidPhoneError(raw string) error {
	return fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
}
