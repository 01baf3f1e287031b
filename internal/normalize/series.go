package normalize

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"currency-event-impact/internal/domain"
)

// RawRateRow is one unparsed row of the input rate table. Prices holds one
// entry per currency code present on that date; PctChg carries precomputed
// <CODE>_pctchg values when the source table already ships them.
type RawRateRow struct {
	Date   string
	Prices map[string]decimal.Decimal
	PctChg map[string]float64
}

// SeriesNormalizer aligns raw rate rows to a canonical daily index and
// derives percentage-change columns.
type SeriesNormalizer struct {
	logger zerolog.Logger
}

// NewSeriesNormalizer constructs a SeriesNormalizer.
func NewSeriesNormalizer(logger zerolog.Logger) *SeriesNormalizer {
	return &SeriesNormalizer{logger: logger.With().Str("component", "series_normalizer").Logger()}
}

// Normalize parses, sorts, and deduplicates the rate table. Duplicate dates
// keep the latest-ingested value. Rows with unparseable dates are dropped
// and counted, never fatal. The returned series have currencies sorted by
// code and dates strictly increasing.
func (n *SeriesNormalizer) Normalize(rows []RawRateRow) (domain.RateSeries, domain.PctChangeSeries, int) {
	prices := make(map[string]map[time.Time]decimal.Decimal)
	provided := make(map[string]map[time.Time]float64)
	skipped := 0

	for _, row := range rows {
		date, err := ParseDate(row.Date)
		if err != nil {
			skipped++
			n.logger.Debug().Str("date", row.Date).Msg("dropping rate row with malformed date")
			continue
		}
		for code, price := range row.Prices {
			byDate, ok := prices[code]
			if !ok {
				byDate = make(map[time.Time]decimal.Decimal)
				prices[code] = byDate
			}
			byDate[date] = price
		}
		for code, pct := range row.PctChg {
			byDate, ok := provided[code]
			if !ok {
				byDate = make(map[time.Time]float64)
				provided[code] = byDate
			}
			byDate[date] = pct
		}
	}

	codes := make([]string, 0, len(prices))
	for code := range prices {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rates := domain.RateSeries{Currencies: make([]domain.CurrencySeries, 0, len(codes))}
	changes := domain.PctChangeSeries{Currencies: make([]domain.PctChangeColumn, 0, len(codes))}

	for _, code := range codes {
		byDate := prices[code]
		dates := make([]time.Time, 0, len(byDate))
		for date := range byDate {
			dates = append(dates, date)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		series := domain.CurrencySeries{Code: code, Points: make([]domain.RatePoint, 0, len(dates))}
		for _, date := range dates {
			series.Points = append(series.Points, domain.RatePoint{Date: date, Price: byDate[date]})
		}
		rates.Currencies = append(rates.Currencies, series)
		changes.Currencies = append(changes.Currencies, deriveChanges(series, provided[code]))
	}

	if skipped > 0 {
		n.logger.Warn().Int("skipped", skipped).Msg("rate rows dropped during normalization")
	}
	return rates, changes, skipped
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// deriveChanges computes value[t] = (price[t]/price[t-1] - 1) * 100 against
// the previous available observation. The first observation has no change
// and is absent from the column. A precomputed value for a date wins over
// the derived one.
func deriveChanges(series domain.CurrencySeries, provided map[time.Time]float64) domain.PctChangeColumn {
	col := domain.PctChangeColumn{Code: series.Code}
	for i := 1; i < len(series.Points); i++ {
		point := series.Points[i]
		if pct, ok := provided[point.Date]; ok {
			col.Points = append(col.Points, domain.PctChangePoint{Date: point.Date, Value: pct})
			continue
		}
		prev := series.Points[i-1].Price
		if prev.IsZero() {
			continue
		}
		change := point.Price.Div(prev).Sub(one).Mul(hundred)
		col.Points = append(col.Points, domain.PctChangePoint{Date: point.Date, Value: change.InexactFloat64()})
	}
	return col
}
