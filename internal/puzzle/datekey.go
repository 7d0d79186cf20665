package puzzle

import (
	"fmt"
	"time"
)

// DateLayout is the layout of a date key.
const DateLayout = "2006-01-02"

// DateKey returns the UTC calendar date of t as YYYY-MM-DD. It is built
// from the UTC wall-clock fields so the result never depends on the host
// time zone.
func DateKey(t time.Time) string {
	y, m, d := t.UTC().Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight UTC.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", key, err)
	}
	return t, nil
}

// ValidDateKey reports whether key is a well-formed date key.
func ValidDateKey(key string) bool {
	t, err := ParseDateKey(key)
	return err == nil && DateKey(t) == key
}

// AddDays shifts key by days using UTC calendar arithmetic.
func AddDays(key string, days int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, days)), nil
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDateKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDateKey(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
