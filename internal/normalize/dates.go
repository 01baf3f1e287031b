package normalize

import (
	"fmt"
	"strings"
	"time"

	"currency-event-impact/internal/domain"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"20060102",
}

// ParseDate accepts ISO strings, 8-digit YYYYMMDD integers rendered as
// strings, and a few timestamp variants, truncating to a UTC calendar date.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date: %w", domain.ErrMalformedDate)
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return Day(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", raw, domain.ErrMalformedDate)
}

// Day truncates a timestamp to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
