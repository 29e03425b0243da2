package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	DateLayout           = "02.01.2006"
	MaxAccountNameLength = 255
	MaxDescriptionLength = 1024
	MaxDocumentIDLength  = 128
	MinPhoneDigits       = 9
	MaxPhoneDigits       = 15
)

// Supported locales
var validLocales = map[string]bool{
	"en": true,
	"ru": true,
	"uz": true,
}

// DefaultLocale is used when an account has no locale.
const DefaultLocale = "en"

// ParseDate parses a dd.mm.yyyy calendar date in loc.
// Dates that time.Parse would normalize (31.02.2024) are rejected.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not dd.mm.yyyy", ErrInvalidDate, s)
	}
	if t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as dd.mm.yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to midnight in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// NormalizePhone strips formatting from a phone number and validates its length.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")

	var b strings.Builder
	for _, r := range phone {
		switch {
		case isASCIIDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidPhone, r)
		}
	}

	digits := b.String()
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return "", fmt.Errorf("%w: expected %d-%d digits", ErrInvalidPhone, MinPhoneDigits, MaxPhoneDigits)
	}
	return digits, nil
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// LooksLikePhone reports whether ref should be resolved as a phone number rather than an account ID.
func LooksLikePhone(ref string) bool {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "+") {
		return true
	}
	if ref == "" {
		return false
	}
	for _, r := range ref {
		if !isASCIIDigit(r) && r != ' ' && r != '-' && r != '(' && r != ')' {
			return false
		}
	}
	return true
}

// ParseAmount parses a positive whole-unit amount. Back-office systems send
// values like "150" or "150.00"; fractional units are rejected.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q has a fractional part", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	if d.GreaterThan(decimal.NewFromInt(maxAmount)) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}
	return d.IntPart(), nil
}

// maxAmount keeps running balances far from int64 overflow.
const maxAmount = 1_000_000_000_000

// ValidateAmount validates a whole-unit magnitude.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > maxAmount {
		return fmt.Errorf("%w: maximum amount is %d", ErrInvalidAmount, int64(maxAmount))
	}
	return nil
}

// ValidateDocumentID validates an external document reference.
func ValidateDocumentID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidEvent)
	}
	if len(id) > MaxDocumentIDLength {
		return fmt.Errorf("%w: document id exceeds %d characters", ErrInvalidEvent, MaxDocumentIDLength)
	}
	return nil
}

// ValidateDescription validates a free-text entry description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidEvent, MaxDescriptionLength)
	}
	return nil
}

// ValidateAccountName validates account holder name
func ValidateAccountName(name string) error {
	if len(strings.TrimSpace(name)) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidEvent, MaxAccountNameLength)
	}
	return nil
}

// NormalizeLocale returns a supported locale, falling back to DefaultLocale.
func NormalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	if validLocales[locale] {
		return locale
	}
	return DefaultLocale
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
