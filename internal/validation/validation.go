package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// maxAmountToPay guards against nonsense query amounts. Amounts are
// whole currency units, so one billion is far beyond any real order.
const maxAmountToPay = 1_000_000_000

// ValidateAmountToPay parses and bounds-checks the amountToPay query
// parameter.
func ValidateAmountToPay(raw string) (int, error) {
	if raw == "" {
		return 0, &ValidationError{
			Field:   "amountToPay",
			Message: "is required",
		}
	}

	amount, err := strconv.Atoi(SanitizeString(raw))
	if err != nil {
		return 0, &ValidationError{
			Field:   "amountToPay",
			Message: "must be an integer",
		}
	}

	if amount < 0 {
		return 0, &ValidationError{
			Field:   "amountToPay",
			Message: "must be non-negative",
		}
	}

	if amount > maxAmountToPay {
		return 0, &ValidationError{
			Field:   "amountToPay",
			Message: "exceeds maximum allowed amount",
		}
	}

	return amount, nil
}

// ValidateRequiredString checks that a query parameter is present and
// non-blank after sanitation.
func ValidateRequiredString(value, fieldName string) (string, error) {
	value = SanitizeString(value)
	if value == "" {
		return "", &ValidationError{
			Field:   fieldName,
			Message: "is required",
		}
	}

	if len(value) > 100 {
		return "", &ValidationError{
			Field:   fieldName,
			Message: "cannot exceed 100 characters",
		}
	}

	return value, nil
}

// SanitizeString strips control characters (except whitespace) and
// trims surrounding whitespace.
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}
