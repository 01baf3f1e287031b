package attribution

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"currency-event-impact/internal/countries"
	"currency-event-impact/internal/domain"
)

// Options tune attribution behaviour.
type Options struct {
	// LagDays is the fixed distance between an event and the anomaly it is
	// hypothesized to precede. Defaults to 1: same-day-settlement effects
	// are assumed to manifest the next trading day.
	LagDays int
	// TopN caps the categories retained per anomaly. Defaults to 3.
	TopN int
}

// Attributor maps event records onto detected anomalies through the
// currency's country set and a fixed temporal lag.
type Attributor struct {
	opts     Options
	resolver countries.Resolver
	logger   zerolog.Logger
}

// New constructs an Attributor.
func New(opts Options, resolver countries.Resolver, logger zerolog.Logger) *Attributor {
	if opts.LagDays <= 0 {
		opts.LagDays = 1
	}
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	return &Attributor{
		opts:     opts,
		resolver: resolver,
		logger:   logger.With().Str("component", "event_attributor").Logger(),
	}
}

type dayCountry struct {
	date    time.Time
	country string
}

// Index groups event weights by (date, country, category) for constant-time
// lag-date lookups. Build it once and share it across currencies.
type Index struct {
	byDayCountry map[dayCountry]map[string]float64
	minDate      time.Time
	maxDate      time.Time
}

// BuildIndex prepares the event lookup structure.
func BuildIndex(events []domain.EventRecord) *Index {
	idx := &Index{byDayCountry: make(map[dayCountry]map[string]float64, len(events))}
	for _, ev := range events {
		key := dayCountry{date: ev.Date, country: ev.Country}
		byCategory, ok := idx.byDayCountry[key]
		if !ok {
			byCategory = make(map[string]float64)
			idx.byDayCountry[key] = byCategory
		}
		byCategory[ev.Category] += ev.Weight
		if idx.minDate.IsZero() || ev.Date.Before(idx.minDate) {
			idx.minDate = ev.Date
		}
		if ev.Date.After(idx.maxDate) {
			idx.maxDate = ev.Date
		}
	}
	return idx
}

// Attribute emits one row per (anomaly, category) pair: the top-N categories
// by summed weight among events that occurred LagDays before the anomaly in
// the currency's mapped countries. Ties break by category code ascending.
// An anomaly with no matching events contributes zero rows.
func (a *Attributor) Attribute(anomalies []domain.Anomaly, idx *Index) []domain.AttributionRow {
	rows := make([]domain.AttributionRow, 0, len(anomalies))
	overlap := a.checkOverlap(anomalies, idx)

	for _, anom := range anomalies {
		mapped := a.resolver.CountriesFor(anom.Currency)
		if len(mapped) == 0 {
			a.logger.Debug().Str("currency", anom.Currency).Msg("currency has no mapped countries")
			continue
		}

		lagDate := anom.Date.AddDate(0, 0, -a.opts.LagDays)
		totals := make(map[string]float64)
		for _, country := range mapped {
			for category, weight := range idx.byDayCountry[dayCountry{date: lagDate, country: country}] {
				totals[category] += weight
			}
		}
		if len(totals) == 0 {
			continue
		}

		for _, ranked := range topCategories(totals, a.opts.TopN) {
			rows = append(rows, domain.AttributionRow{
				Date:      anom.Date,
				Currency:  anom.Currency,
				Direction: anom.Direction,
				Category:  ranked.category,
				Weight:    ranked.weight,
			})
		}
	}

	if !overlap && len(anomalies) > 0 {
		a.logger.Warn().
			Time("events_min", idx.minDate).
			Time("events_max", idx.maxDate).
			Err(domain.ErrNoOverlap).
			Msg("anomaly lag dates fall outside the event range")
	}
	return rows
}

func (a *Attributor) checkOverlap(anomalies []domain.Anomaly, idx *Index) bool {
	if len(anomalies) == 0 || len(idx.byDayCountry) == 0 {
		return true
	}
	for _, anom := range anomalies {
		lagDate := anom.Date.AddDate(0, 0, -a.opts.LagDays)
		if !lagDate.Before(idx.minDate) && !lagDate.After(idx.maxDate) {
			return true
		}
	}
	return false
}

type rankedCategory struct {
	category string
	weight   float64
}

// topCategories sorts by weight descending, category ascending, and keeps
// the first n. The explicit secondary key guarantees deterministic output
// where map iteration would not.
func topCategories(totals map[string]float64, n int) []rankedCategory {
	ranked := make([]rankedCategory, 0, len(totals))
	for category, weight := range totals {
		ranked = append(ranked, rankedCategory{category: category, weight: weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].category < ranked[j].category
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Shares aggregates attribution rows into per-direction percentage shares:
// 100 * weight[direction][category] / total weight[direction]. Output is
// sorted by direction, then percent descending, then category.
func Shares(rows []domain.AttributionRow) []domain.CategoryShare {
	type key struct {
		direction domain.Direction
		category  string
	}
	weights := make(map[key]float64)
	totals := make(map[domain.Direction]float64)
	for _, row := range rows {
		weights[key{row.Direction, row.Category}] += row.Weight
		totals[row.Direction] += row.Weight
	}

	shares := make([]domain.CategoryShare, 0, len(weights))
	for k, weight := range weights {
		total := totals[k.direction]
		if total == 0 {
			continue
		}
		shares = append(shares, domain.CategoryShare{
			Direction: k.direction,
			Category:  k.category,
			Weight:    weight,
			Percent:   100 * weight / total,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Direction != shares[j].Direction {
			return shares[i].Direction < shares[j].Direction
		}
		if shares[i].Percent != shares[j].Percent {
			return shares[i].Percent > shares[j].Percent
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}
