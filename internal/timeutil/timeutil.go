package timeutil

import (
	"errors"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// instantLayouts are the start-time shapes accepted from upstream providers, most specific first.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ErrEmptyInstant is returned when there is no timestamp to parse.
var ErrEmptyInstant = errors.New("empty timestamp")

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseInstant parses an upstream timestamp. Values without a zone are read as UTC.
func ParseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyInstant
	}
	var lastErr error
	for _, layout := range instantLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// UTCDay normalizes a date or timestamp to its UTC calendar day (YYYY-MM-DD).
func UTCDay(value string) (string, error) {
	t, err := ParseInstant(value)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}
