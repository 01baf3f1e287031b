package attribution

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"currency-event-impact/internal/countries"
	"currency-event-impact/internal/domain"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func eurResolver() countries.Resolver {
	return countries.NewStatic(map[string][]string{"EUR": {"France"}})
}

func TestAttributeSingleEventOnLagDate(t *testing.T) {
	anomalies := []domain.Anomaly{
		{Date: day(29), Currency: "EUR", ZScore: 5.0, Direction: domain.DirectionSpike},
	}
	idx := BuildIndex([]domain.EventRecord{
		{Date: day(28), Country: "France", Category: "PROTEST", Weight: 1},
	})

	rows := New(Options{}, eurResolver(), zerolog.Nop()).Attribute(anomalies, idx)
	if len(rows) != 1 {
		t.Fatalf("expected 1 attribution row, got %d", len(rows))
	}
	row := rows[0]
	if row.Category != "PROTEST" || row.Weight != 1 {
		t.Errorf("unexpected row %+v", row)
	}
	if row.Direction != domain.DirectionSpike || row.Currency != "EUR" {
		t.Errorf("row should carry the anomaly's currency and direction, got %+v", row)
	}
	if !row.Date.Equal(day(29)) {
		t.Errorf("row should be keyed by the anomaly date, got %v", row.Date)
	}
}

func TestAttributeNoEventsOnLagDate(t *testing.T) {
	anomalies := []domain.Anomaly{
		{Date: day(10), Currency: "EUR", ZScore: 3.0, Direction: domain.DirectionSpike},
	}
	idx := BuildIndex([]domain.EventRecord{
		{Date: day(10), Country: "France", Category: "PROTEST", Weight: 1}, // same day, not lag day
	})

	rows := New(Options{}, eurResolver(), zerolog.Nop()).Attribute(anomalies, idx)
	if len(rows) != 0 {
		t.Fatalf("anomaly without lag-date events must contribute zero rows, got %d", len(rows))
	}
}

func TestAttributeTopNTieBreak(t *testing.T) {
	anomalies := []domain.Anomaly{
		{Date: day(5), Currency: "EUR", ZScore: 3.0, Direction: domain.DirectionDip},
	}
	// Four categories on the lag date: equal weights for three of them.
	idx := BuildIndex([]domain.EventRecord{
		{Date: day(4), Country: "France", Category: "RIOT", Weight: 2},
		{Date: day(4), Country: "France", Category: "COUP", Weight: 1},
		{Date: day(4), Country: "France", Category: "PROTEST", Weight: 1},
		{Date: day(4), Country: "France", Category: "APPEAL", Weight: 1},
	})

	rows := New(Options{TopN: 3}, eurResolver(), zerolog.Nop()).Attribute(anomalies, idx)
	if len(rows) != 3 {
		t.Fatalf("expected top-3 rows, got %d", len(rows))
	}
	if rows[0].Category != "RIOT" {
		t.Errorf("highest weight first, got %s", rows[0].Category)
	}
	// Ties break by category code ascending: APPEAL before COUP, PROTEST cut.
	if rows[1].Category != "APPEAL" || rows[2].Category != "COUP" {
		t.Errorf("tie-break order wrong: %s, %s", rows[1].Category, rows[2].Category)
	}
}

func TestAttributeMultiCountryCurrency(t *testing.T) {
	resolver := countries.NewStatic(map[string][]string{"EUR": {"France", "Germany"}})
	anomalies := []domain.Anomaly{
		{Date: day(5), Currency: "EUR", ZScore: 3.0, Direction: domain.DirectionSpike},
	}
	idx := BuildIndex([]domain.EventRecord{
		{Date: day(4), Country: "France", Category: "PROTEST", Weight: 1},
		{Date: day(4), Country: "Germany", Category: "PROTEST", Weight: 2},
	})

	rows := New(Options{}, resolver, zerolog.Nop()).Attribute(anomalies, idx)
	if len(rows) != 1 {
		t.Fatalf("expected 1 merged row, got %d", len(rows))
	}
	if rows[0].Weight != 3 {
		t.Errorf("weights should sum across mapped countries, got %f", rows[0].Weight)
	}
}

func TestSharesSumToHundredPerDirection(t *testing.T) {
	rows := []domain.AttributionRow{
		{Date: day(1), Currency: "EUR", Direction: domain.DirectionSpike, Category: "PROTEST", Weight: 3},
		{Date: day(2), Currency: "GBP", Direction: domain.DirectionSpike, Category: "RIOT", Weight: 1},
		{Date: day(3), Currency: "JPY", Direction: domain.DirectionDip, Category: "QUAKE", Weight: 2},
	}

	shares := Shares(rows)
	sums := make(map[domain.Direction]float64)
	for _, share := range shares {
		sums[share.Direction] += share.Percent
	}
	for direction, sum := range sums {
		if math.Abs(sum-100.0) > 1e-9 {
			t.Errorf("shares for %s sum to %f, want 100", direction, sum)
		}
	}

	if len(Shares(nil)) != 0 {
		t.Error("no attribution rows should yield no shares")
	}
}

func TestSharesSingleCategoryFullShare(t *testing.T) {
	rows := []domain.AttributionRow{
		{Date: day(29), Currency: "EUR", Direction: domain.DirectionSpike, Category: "PROTEST", Weight: 1},
	}
	shares := Shares(rows)
	if len(shares) != 1 {
		t.Fatalf("expected 1 share, got %d", len(shares))
	}
	if shares[0].Percent != 100.0 {
		t.Errorf("single category must hold 100%%, got %f", shares[0].Percent)
	}
}
