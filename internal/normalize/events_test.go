package normalize

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"currency-event-impact/internal/domain"
)

func TestExtractCountry(t *testing.T) {
	cases := []struct {
		geo  string
		want string
	}{
		{"Alaska, United States", "United States"},
		{"France", "France"},
		{"  France  ", "France"},
		{"Paris, Île-de-France, France", "France"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := ExtractCountry(tc.geo); got != tc.want {
			t.Errorf("ExtractCountry(%q) = %q, want %q", tc.geo, got, tc.want)
		}
	}
}

func TestEventNormalizerParsesAndUppercases(t *testing.T) {
	rows := []RawEventRow{
		{ID: "e1", Date: "20240115", Geo: "Alaska, United States", Category: "protest"},
	}

	events, skipped := NewEventNormalizer(zerolog.Nop()).Normalize(rows)
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev := events[0]
	if ev.Country != "United States" {
		t.Errorf("country = %q, want United States", ev.Country)
	}
	if ev.Category != "PROTEST" {
		t.Errorf("category = %q, want PROTEST", ev.Category)
	}
	if ev.Weight != 1.0 {
		t.Errorf("weight should default to 1, got %f", ev.Weight)
	}
	if got := ev.Date.Format("2006-01-02"); got != "2024-01-15" {
		t.Errorf("date = %s, want 2024-01-15", got)
	}
}

func TestEventNormalizerDropsMalformedRows(t *testing.T) {
	rows := []RawEventRow{
		{ID: "e1", Date: "banana", Geo: "France", Category: "PROTEST"},
		{ID: "e2", Date: "20240115", Geo: "", Category: "PROTEST"},
		{ID: "e3", Date: "20240115", Geo: "France", Category: ""},
		{ID: "e4", Date: "20240115", Geo: "France", Category: "PROTEST"},
	}

	events, skipped := NewEventNormalizer(zerolog.Nop()).Normalize(rows)
	if skipped != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", skipped)
	}
	if len(events) != 1 || events[0].ID != "e4" {
		t.Fatalf("expected only the valid row to survive, got %+v", events)
	}
}

func TestEventNormalizerDeduplicates(t *testing.T) {
	weight := 2.5
	rows := []RawEventRow{
		// Same ID twice: second occurrence dropped even though fields differ.
		{ID: "e1", Date: "20240115", Geo: "France", Category: "PROTEST"},
		{ID: "e1", Date: "20240116", Geo: "France", Category: "RIOT"},
		// No ID: dedup by full tuple.
		{Date: "20240117", Geo: "Japan", Category: "QUAKE", Weight: &weight},
		{Date: "20240117", Geo: "Japan", Category: "QUAKE", Weight: &weight},
	}

	events, _ := NewEventNormalizer(zerolog.Nop()).Normalize(rows)
	if len(events) != 2 {
		t.Fatalf("expected 2 events after dedup, got %d", len(events))
	}
}

func TestEventNormalizerMalformedDateSentinel(t *testing.T) {
	n := NewEventNormalizer(zerolog.Nop())
	_, err := n.normalizeRow(RawEventRow{Date: "nope", Geo: "France", Category: "PROTEST"})
	if !errors.Is(err, domain.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}

	_, err = n.normalizeRow(RawEventRow{Date: "20240101", Geo: "", Category: "PROTEST"})
	if !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}
