package entity

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// DateLayout is the format of every date field.
const DateLayout = "2006-01-02"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	skuRe   = regexp.MustCompile(`^[A-Z0-9-]+$`)
)

// FieldError reports one invalid field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// minLen trims *s and checks its length in runes.
func minLen(field string, s *string, n int) error {
	*s = strings.TrimSpace(*s)
	if len([]rune(*s)) < n {
		if n == 1 {
			return fieldErr(field, "is required")
		}
		return fieldErr(field, "must be at least %d characters", n)
	}
	return nil
}

// oneOf checks that *s is an allowed value, defaulting an empty value to the
// first one.
func oneOf(field string, s *string, allowed []string) error {
	*s = strings.TrimSpace(*s)
	if *s == "" {
		*s = allowed[0]
		return nil
	}
	if !slices.Contains(allowed, *s) {
		return fieldErr(field, "must be one of %s", strings.Join(allowed, ", "))
	}
	return nil
}

// date checks an optional date field.
func date(field string, s *string) error {
	*s = strings.TrimSpace(*s)
	if *s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, *s); err != nil {
		return fieldErr(field, "must be a date formatted as YYYY-MM-DD")
	}
	return nil
}

// dateOrder checks that two required dates are set and that to is not
// before from.
func dateOrder(fromField string, from *string, toField string, to *string) error {
	*from = strings.TrimSpace(*from)
	*to = strings.TrimSpace(*to)
	f, err := time.Parse(DateLayout, *from)
	if err != nil {
		return fieldErr(fromField, "must be a date formatted as YYYY-MM-DD")
	}
	t, err := time.Parse(DateLayout, *to)
	if err != nil {
		return fieldErr(toField, "must be a date formatted as YYYY-MM-DD")
	}
	if t.Before(f) {
		return fieldErr(toField, "cannot be earlier than %s", fromField)
	}
	return nil
}

func email(field string, s *string) error {
	*s = strings.TrimSpace(*s)
	if !emailRe.MatchString(*s) {
		return fieldErr(field, "must be a valid email address")
	}
	return nil
}

// optionalEmail accepts an empty value.
func optionalEmail(field string, s *string) error {
	if strings.TrimSpace(*s) == "" {
		*s = ""
		return nil
	}
	return email(field, s)
}

func nonNegative(field string, v float64) error {
	if v < 0 {
		return fieldErr(field, "cannot be negative")
	}
	return nil
}

// required checks that *s is an allowed value.
func required(field string, s *string, allowed []string) error {
	if strings.TrimSpace(*s) == "" {
		return fieldErr(field, "is required")
	}
	return oneOf(field, s, allowed)
}
