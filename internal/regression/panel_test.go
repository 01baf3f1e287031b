package regression

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

func pctSeries(values ...float64) domain.PctChangeSeries {
	col := domain.PctChangeColumn{Code: "EUR"}
	for i, v := range values {
		col.Points = append(col.Points, domain.PctChangePoint{Date: day(i), Value: v})
	}
	return domain.PctChangeSeries{Currencies: []domain.PctChangeColumn{col}}
}

func protestEvents(counts ...float64) []domain.EventRecord {
	events := make([]domain.EventRecord, 0, len(counts))
	for i, c := range counts {
		events = append(events, domain.EventRecord{
			Date: day(i), Country: "France", Category: "PROTEST", Weight: c,
		})
	}
	return events
}

func TestFitNegativeCorrelationLabelsStrengthen(t *testing.T) {
	// usd_strength = -pct_change; making pct_change equal the event count
	// makes strength perfectly negatively correlated with the count.
	counts := []float64{1, 2, 3, 4, 5, 6}
	pct := pctSeries(counts...)
	events := protestEvents(counts...)

	result := New(eurResolver(), 0, zerolog.Nop()).Fit(pct, events)
	if len(result.Coefficients) != 1 {
		t.Fatalf("expected 1 coefficient, got %d", len(result.Coefficients))
	}

	coef := result.Coefficients[0]
	if coef.Category != "PROTEST" {
		t.Errorf("category = %s, want PROTEST", coef.Category)
	}
	if coef.Coefficient >= 0 {
		t.Errorf("coefficient should be negative, got %f", coef.Coefficient)
	}
	if math.Abs(coef.Coefficient+1) > 1e-9 {
		t.Errorf("coefficient = %f, want -1", coef.Coefficient)
	}
	if coef.Label != domain.ImpactStrengthen {
		t.Errorf("label = %s, want %s", coef.Label, domain.ImpactStrengthen)
	}
	if math.Abs(result.RSquared-1) > 1e-9 {
		t.Errorf("r-squared = %f, want 1", result.RSquared)
	}
	if result.Observations != 6 {
		t.Errorf("observations = %d, want 6", result.Observations)
	}
}

func TestFitPositiveCorrelationLabelsWeaken(t *testing.T) {
	counts := []float64{1, 2, 3, 4, 5, 6}
	// pct_change opposite to the count: strength follows the count.
	pct := pctSeries(-1, -2, -3, -4, -5, -6)
	events := protestEvents(counts...)

	result := New(eurResolver(), 0, zerolog.Nop()).Fit(pct, events)
	if len(result.Coefficients) != 1 {
		t.Fatalf("expected 1 coefficient, got %d", len(result.Coefficients))
	}
	if result.Coefficients[0].Label != domain.ImpactWeaken {
		t.Errorf("label = %s, want %s", result.Coefficients[0].Label, domain.ImpactWeaken)
	}
}

func TestFitDropsZeroVarianceColumns(t *testing.T) {
	// Constant count every day carries no information; the column must be
	// dropped and with nothing left the result is empty, not an error.
	pct := pctSeries(1, 2, 3, 4, 5, 6)
	events := protestEvents(2, 2, 2, 2, 2, 2)

	result := New(eurResolver(), 0, zerolog.Nop()).Fit(pct, events)
	if len(result.Coefficients) != 0 {
		t.Fatalf("expected empty coefficients, got %d", len(result.Coefficients))
	}
}

func TestFitNoOverlappingDates(t *testing.T) {
	pct := pctSeries(1, 2, 3)
	events := []domain.EventRecord{
		{Date: day(100), Country: "France", Category: "PROTEST", Weight: 1},
	}

	result := New(eurResolver(), 0, zerolog.Nop()).Fit(pct, events)
	if len(result.Coefficients) != 0 {
		t.Fatalf("disjoint panels must yield an empty result, got %d coefficients", len(result.Coefficients))
	}
}

func TestFitUnmappedCountryIgnored(t *testing.T) {
	pct := pctSeries(1, 2, 3, 4, 5, 6)
	events := append(protestEvents(1, 2, 3, 4, 5, 6),
		domain.EventRecord{Date: day(2), Country: "Atlantis", Category: "FLOOD", Weight: 10})

	result := New(eurResolver(), 0, zerolog.Nop()).Fit(pct, events)
	for _, coef := range result.Coefficients {
		if coef.Category == "FLOOD" {
			t.Fatal("events outside the mapped country set must not enter the panel")
		}
	}
}

func TestLabelNeutralBand(t *testing.T) {
	r := New(eurResolver(), 1e-6, zerolog.Nop())
	if got := r.label(5e-7); got != domain.ImpactNeutral {
		t.Errorf("tiny coefficient should be Neutral, got %s", got)
	}
	if got := r.label(0.01); got != domain.ImpactWeaken {
		t.Errorf("positive coefficient should be Weaken, got %s", got)
	}
	if got := r.label(-0.01); got != domain.ImpactStrengthen {
		t.Errorf("negative coefficient should be Strengthen, got %s", got)
	}
}
