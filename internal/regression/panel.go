package regression

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"currency-event-impact/internal/countries"
	"currency-event-impact/internal/domain"
)

// DefaultNeutralBand is the deadband below which a coefficient is labeled
// Neutral; exact zero rarely survives a floating-point fit.
const DefaultNeutralBand = 1e-6

// Regressor fits daily event-category counts against aggregate
// base-currency strength.
type Regressor struct {
	resolver    countries.Resolver
	neutralBand float64
	logger      zerolog.Logger
}

// New constructs a Regressor. A non-positive neutralBand falls back to
// DefaultNeutralBand.
func New(resolver countries.Resolver, neutralBand float64, logger zerolog.Logger) *Regressor {
	if neutralBand <= 0 {
		neutralBand = DefaultNeutralBand
	}
	return &Regressor{
		resolver:    resolver,
		neutralBand: neutralBand,
		logger:      logger.With().Str("component", "impact_regressor").Logger(),
	}
}

// Fit builds the daily panel and runs ordinary least squares with an
// intercept. Rows are dates present in both the event aggregation and the
// currency panel; the response is usd_strength[t], the negated mean
// percentage change across tracked currencies. Zero-variance category
// columns are dropped before fitting. Disjoint date ranges or an all-constant
// panel yield an empty result, never an error: both conditions are logged.
func (r *Regressor) Fit(pct domain.PctChangeSeries, events []domain.EventRecord) *domain.RegressionResult {
	empty := &domain.RegressionResult{Coefficients: []domain.ImpactCoefficient{}}

	mapped := r.mappedCountries(pct)
	if len(mapped) == 0 {
		r.logger.Warn().Msg("no tracked currency maps to any country, regression skipped")
		return empty
	}

	// Daily summed weight per category across all mapped countries.
	counts := make(map[time.Time]map[string]float64)
	categorySet := make(map[string]struct{})
	for _, ev := range events {
		if _, ok := mapped[ev.Country]; !ok {
			continue
		}
		byCategory, ok := counts[ev.Date]
		if !ok {
			byCategory = make(map[string]float64)
			counts[ev.Date] = byCategory
		}
		byCategory[ev.Category] += ev.Weight
		categorySet[ev.Category] = struct{}{}
	}

	strength := dailyStrength(pct)

	dates := make([]time.Time, 0, len(counts))
	for date := range counts {
		if _, ok := strength[date]; ok {
			dates = append(dates, date)
		}
	}
	if len(dates) == 0 {
		r.logger.Warn().Err(domain.ErrNoOverlap).Msg("event and currency panels share no dates, regression skipped")
		return empty
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	categories := make([]string, 0, len(categorySet))
	for category := range categorySet {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	columns := make([][]float64, 0, len(categories))
	kept := make([]string, 0, len(categories))
	for _, category := range categories {
		column := make([]float64, len(dates))
		for i, date := range dates {
			column[i] = counts[date][category]
		}
		if constant(column) {
			r.logger.Debug().Str("category", category).Err(domain.ErrZeroVariance).Msg("dropping constant category column")
			continue
		}
		columns = append(columns, column)
		kept = append(kept, category)
	}
	if len(kept) == 0 {
		r.logger.Warn().Msg("all category columns constant, regression skipped")
		return empty
	}

	y := make([]float64, len(dates))
	for i, date := range dates {
		y[i] = strength[date]
	}

	solved, err := olsFit(columns, y)
	if err != nil {
		r.logger.Warn().Err(err).Msg("regression fit failed, returning empty result")
		return empty
	}

	result := &domain.RegressionResult{
		Coefficients: make([]domain.ImpactCoefficient, 0, len(kept)),
		Intercept:    solved.coef[0],
		RSquared:     solved.rsquared,
		Observations: solved.n,
	}
	for i, category := range kept {
		coef := solved.coef[i+1]
		result.Coefficients = append(result.Coefficients, domain.ImpactCoefficient{
			Category:    category,
			Coefficient: coef,
			StdErr:      solved.stderr[i+1],
			PValue:      solved.pvalue[i+1],
			Label:       r.label(coef),
		})
	}
	return result
}

// label maps a coefficient sign to its direction. Positive means the
// category co-occurs with base-currency strengthening, so the tracked
// currencies weaken.
func (r *Regressor) label(coef float64) string {
	switch {
	case coef > r.neutralBand:
		return domain.ImpactWeaken
	case coef < -r.neutralBand:
		return domain.ImpactStrengthen
	default:
		return domain.ImpactNeutral
	}
}

func (r *Regressor) mappedCountries(pct domain.PctChangeSeries) map[string]struct{} {
	mapped := make(map[string]struct{})
	for _, col := range pct.Currencies {
		for _, country := range r.resolver.CountriesFor(col.Code) {
			mapped[country] = struct{}{}
		}
	}
	return mapped
}

// dailyStrength computes usd_strength[t] = -mean(pct_change[t]) over the
// currencies with a value on t. Positive values mean the base currency
// strengthened against the tracked basket.
func dailyStrength(pct domain.PctChangeSeries) map[time.Time]float64 {
	sums := make(map[time.Time]float64)
	ns := make(map[time.Time]int)
	for _, col := range pct.Currencies {
		for _, point := range col.Points {
			sums[point.Date] += point.Value
			ns[point.Date]++
		}
	}
	strength := make(map[time.Time]float64, len(sums))
	for date, sum := range sums {
		strength[date] = -sum / float64(ns[date])
	}
	return strength
}

func constant(column []float64) bool {
	for _, v := range column[1:] {
		if v != column[0] {
			return false
		}
	}
	return true
}
