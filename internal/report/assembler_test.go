package report

import (
	"errors"
	"testing"

	"currency-event-impact/internal/domain"
)

func completeInputs() Inputs {
	return Inputs{
		Anomalies:       []domain.Anomaly{},
		Attributions:    []domain.AttributionRow{},
		Shares:          []domain.CategoryShare{},
		Impact:          &domain.RegressionResult{},
		SkippedRateRows: 2,
		SkippedEvents:   3,
	}
}

func TestAssembleEmptyCollectionsSucceed(t *testing.T) {
	// Empty slices mean "stage ran, found nothing" and must assemble fine.
	rep, err := Assemble(completeInputs())
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if rep.SkippedRateRows != 2 || rep.SkippedEvents != 3 {
		t.Errorf("skip counters not carried: %+v", rep)
	}
}

func TestAssembleNilCollectionFails(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Inputs)
	}{
		{"anomalies", func(in *Inputs) { in.Anomalies = nil }},
		{"attributions", func(in *Inputs) { in.Attributions = nil }},
		{"shares", func(in *Inputs) { in.Shares = nil }},
		{"impact", func(in *Inputs) { in.Impact = nil }},
	}

	for _, tc := range cases {
		in := completeInputs()
		tc.mutate(&in)
		if _, err := Assemble(in); !errors.Is(err, domain.ErrIncompleteResult) {
			t.Errorf("%s absent: expected ErrIncompleteResult, got %v", tc.name, err)
		}
	}
}
