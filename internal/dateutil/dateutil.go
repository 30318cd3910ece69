// Package dateutil parses article dates and renders them as localized long
// dates for post pages.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for date handling.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDate       = errors.New("invalid date")
	ErrUnsupportedLocale = errors.New("unsupported locale")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// ISOLayout is the layout of catalog dates.
const ISOLayout = "2006-01-02"

// DefaultLongFormat renders "2 января 2025" / "2 January 2025".
const DefaultLongFormat = "D MMMM YYYY"

// Supported locales.
const (
	LocaleRU = "ru"
	LocaleEN = "en"
)

// Month names in the form used after a day number.
var monthNames = map[string][12]string{
	LocaleRU: {
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	},
	LocaleEN: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

var shortMonthNames = map[string][12]string{
	LocaleRU: {
		"янв", "фев", "мар", "апр", "мая", "июн",
		"июл", "авг", "сен", "окт", "ноя", "дек",
	},
	LocaleEN: {
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
}

// dateTokens are the recognized format tokens.
// Ordered by length descending for greedy matching.
var dateTokens = []string{"YYYY", "MMMM", "MMM", "YY", "MM", "DD", "M", "D"}

// piece is one element of a parsed format: a token or literal text.
type piece struct {
	token   string
	literal string
}

// IsSupportedLocale reports whether month names exist for locale.
func IsSupportedLocale(locale string) bool {
	_, ok := monthNames[locale]
	return ok
}

// parseFormat splits a user-friendly format string into tokens and literals.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D
// Use brackets to escape literal text: [Date] preserves "Date" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func parseFormat(format string) ([]piece, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var pieces []piece
	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			pieces = append(pieces, piece{literal: format[i+1 : i+1+end]})
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(format[i:], tok) {
				pieces = append(pieces, piece{token: tok})
				i += len(tok)
				matched = true
				break
			}
		}

		if !matched {
			pieces = append(pieces, piece{literal: format[i : i+1]})
			i++
		}
	}

	return pieces, nil
}

// ValidateFormat reports whether format parses.
func ValidateFormat(format string) error {
	_, err := parseFormat(format)
	return err
}

// Format renders t with format using locale month names.
func Format(t time.Time, format, locale string) (string, error) {
	months, ok := monthNames[locale]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	short := shortMonthNames[locale]

	pieces, err := parseFormat(format)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, p := range pieces {
		switch p.token {
		case "":
			b.WriteString(p.literal)
		case "YYYY":
			b.WriteString(strconv.Itoa(t.Year()))
		case "YY":
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case "MMMM":
			b.WriteString(months[t.Month()-1])
		case "MMM":
			b.WriteString(short[t.Month()-1])
		case "MM":
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case "M":
			b.WriteString(strconv.Itoa(int(t.Month())))
		case "DD":
			fmt.Fprintf(&b, "%02d", t.Day())
		case "D":
			b.WriteString(strconv.Itoa(t.Day()))
		}
	}
	return b.String(), nil
}

// ParseDate parses a catalog date: "YYYY-MM-DD" or an RFC 3339 timestamp,
// whose calendar date is kept as written.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(ISOLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, value)
}

// FormatLong renders a catalog date as a long date, e.g. "2 января 2025".
func FormatLong(date, format, locale string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	if format == "" {
		format = DefaultLongFormat
	}
	return Format(t, format, locale)
}

// ResolveDate normalizes a date given for a new article.
//   - "", "auto" and "today" (any case) resolve to now
//   - anything else must parse with ParseDate
//
// The result is always YYYY-MM-DD. now is injected for testing.
func ResolveDate(value string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto", "today":
		return now.Format(ISOLayout), nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format(ISOLayout), nil
}
