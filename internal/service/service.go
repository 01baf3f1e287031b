package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"currency-event-impact/internal/anomaly"
	"currency-event-impact/internal/attribution"
	"currency-event-impact/internal/countries"
	"currency-event-impact/internal/domain"
	"currency-event-impact/internal/normalize"
	"currency-event-impact/internal/regression"
	"currency-event-impact/internal/report"
)

// Options carries the engine knobs. Zero values fall back to the documented
// defaults inside each component.
type Options struct {
	ZThreshold  float64
	LagDays     int
	TopN        int
	NeutralBand float64
}

// Service runs the full anomaly detection and event-attribution pipeline
// over already-materialized tables.
type Service struct {
	opts     Options
	resolver countries.Resolver
	logger   zerolog.Logger
}

// New constructs the pipeline service. The resolver is required: without a
// currency to country mapping neither attribution nor regression can run.
func New(opts Options, resolver countries.Resolver, logger zerolog.Logger) (*Service, error) {
	if resolver == nil || len(resolver.Codes()) == 0 {
		return nil, fmt.Errorf("currency to country map is required")
	}
	return &Service{
		opts:     opts,
		resolver: resolver,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

type currencyResult struct {
	anomalies    []domain.Anomaly
	attributions []domain.AttributionRow
}

// Run executes normalization, detection, attribution, regression, and
// assembly. Detection and attribution fan out per currency; each currency's
// work is independent and writes only its own slot, so no locking is needed.
// The merged output is re-sorted so repeated runs on identical inputs are
// bit-identical.
func (s *Service) Run(ctx context.Context, rateRows []normalize.RawRateRow, eventRows []normalize.RawEventRow) (*domain.Report, error) {
	started := time.Now()

	_, pct, skippedRates := normalize.NewSeriesNormalizer(s.logger).Normalize(rateRows)
	events, skippedEvents := normalize.NewEventNormalizer(s.logger).Normalize(eventRows)
	s.logger.Info().
		Int("currencies", len(pct.Currencies)).
		Int("events", len(events)).
		Int("skipped_rate_rows", skippedRates).
		Int("skipped_events", skippedEvents).
		Msg("inputs normalized")

	detector := anomaly.New(s.opts.ZThreshold, s.logger)
	attributor := attribution.New(attribution.Options{LagDays: s.opts.LagDays, TopN: s.opts.TopN}, s.resolver, s.logger)
	idx := attribution.BuildIndex(events)

	results := make([]currencyResult, len(pct.Currencies))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, col := range pct.Currencies {
		group.Go(func() error {
			found := detector.DetectColumn(col)
			results[i] = currencyResult{
				anomalies:    found,
				attributions: attributor.Attribute(found, idx),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	anomalies := make([]domain.Anomaly, 0)
	attributions := make([]domain.AttributionRow, 0)
	for _, res := range results {
		anomalies = append(anomalies, res.anomalies...)
		attributions = append(attributions, res.attributions...)
	}
	sort.SliceStable(anomalies, func(i, j int) bool {
		if !anomalies[i].Date.Equal(anomalies[j].Date) {
			return anomalies[i].Date.Before(anomalies[j].Date)
		}
		return anomalies[i].Currency < anomalies[j].Currency
	})
	sort.SliceStable(attributions, func(i, j int) bool {
		if !attributions[i].Date.Equal(attributions[j].Date) {
			return attributions[i].Date.Before(attributions[j].Date)
		}
		return attributions[i].Currency < attributions[j].Currency
	})

	shares := attribution.Shares(attributions)
	impact := regression.New(s.resolver, s.opts.NeutralBand, s.logger).Fit(pct, events)

	assembled, err := report.Assemble(report.Inputs{
		Anomalies:       anomalies,
		Attributions:    attributions,
		Shares:          shares,
		Impact:          impact,
		SkippedRateRows: skippedRates,
		SkippedEvents:   skippedEvents,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("anomalies", len(assembled.Anomalies)).
		Int("attributions", len(assembled.Attributions)).
		Int("coefficients", len(assembled.Impact.Coefficients)).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline complete")
	return assembled, nil
}
