package report

import (
	"fmt"

	"currency-event-impact/internal/domain"
)

// Inputs carries the upstream collections the assembler merges. Empty
// slices are legitimate ("no anomalies found"); nil ones are not — a nil
// collection means a stage never ran and the report would silently lie.
type Inputs struct {
	Anomalies       []domain.Anomaly
	Attributions    []domain.AttributionRow
	Shares          []domain.CategoryShare
	Impact          *domain.RegressionResult
	SkippedRateRows int
	SkippedEvents   int
}

// Assemble merges the stage outputs into the reporting schema. Pure merge,
// no computation; fails with ErrIncompleteResult when any upstream
// collection is absent.
func Assemble(in Inputs) (*domain.Report, error) {
	if in.Anomalies == nil {
		return nil, fmt.Errorf("anomaly table absent: %w", domain.ErrIncompleteResult)
	}
	if in.Attributions == nil {
		return nil, fmt.Errorf("attribution table absent: %w", domain.ErrIncompleteResult)
	}
	if in.Shares == nil {
		return nil, fmt.Errorf("share table absent: %w", domain.ErrIncompleteResult)
	}
	if in.Impact == nil {
		return nil, fmt.Errorf("impact table absent: %w", domain.ErrIncompleteResult)
	}

	return &domain.Report{
		Anomalies:       in.Anomalies,
		Attributions:    in.Attributions,
		Shares:          in.Shares,
		Impact:          in.Impact,
		SkippedRateRows: in.SkippedRateRows,
		SkippedEvents:   in.SkippedEvents,
	}, nil
}
