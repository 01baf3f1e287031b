package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies an abnormal percentage move.
type Direction string

const (
	DirectionSpike Direction = "SPIKE"
	DirectionDip   Direction = "DIP"
)

// Impact labels for regression coefficients. A positive coefficient means
// the category co-occurs with base-currency strengthening, i.e. the tracked
// currency weakens.
const (
	ImpactStrengthen = "Strengthen"
	ImpactWeaken     = "Weaken"
	ImpactNeutral    = "Neutral"
)

// RatePoint is one daily price observation for a single currency.
type RatePoint struct {
	Date  time.Time
	Price decimal.Decimal
}

// CurrencySeries is an aligned per-currency price series, one point per
// calendar date, dates strictly increasing.
type CurrencySeries struct {
	Code   string
	Points []RatePoint
}

// RateSeries is the normalized multi-currency rate table. Currencies are
// sorted by code ascending.
type RateSeries struct {
	Currencies []CurrencySeries
}

// PctChangePoint is one daily percentage-change observation.
type PctChangePoint struct {
	Date  time.Time
	Value float64
}

// PctChangeColumn holds the derived percentage changes for one currency.
// The first date of the underlying price series has no change and is absent.
type PctChangeColumn struct {
	Code   string
	Points []PctChangePoint
}

// PctChangeSeries is the derived percentage-change table.
type PctChangeSeries struct {
	Currencies []PctChangeColumn
}

// EventRecord is one normalized geopolitical event.
type EventRecord struct {
	ID       string
	Date     time.Time
	Country  string
	Category string
	Weight   float64
}

// Anomaly marks a date whose percentage change crossed the z threshold.
type Anomaly struct {
	Date      time.Time
	Currency  string
	ZScore    float64
	Direction Direction
}

// AttributionRow links one anomaly to one event category observed on the
// lag date in the currency's mapped countries.
type AttributionRow struct {
	Date      time.Time
	Currency  string
	Direction Direction
	Category  string
	Weight    float64
}

// CategoryShare is the aggregate percentage of attributed weight a category
// holds within one direction.
type CategoryShare struct {
	Direction Direction
	Category  string
	Weight    float64
	Percent   float64
}

// ImpactCoefficient quantifies one category's estimated marginal effect on
// base-currency strength.
type ImpactCoefficient struct {
	Category    string
	Coefficient float64
	StdErr      float64
	PValue      float64
	Label       string
}

// RegressionResult carries the fitted model and its diagnostics.
type RegressionResult struct {
	Coefficients []ImpactCoefficient
	Intercept    float64
	RSquared     float64
	Observations int
}

// Report is the assembled output of a full pipeline run.
type Report struct {
	Anomalies       []Anomaly
	Attributions    []AttributionRow
	Shares          []CategoryShare
	Impact          *RegressionResult
	SkippedRateRows int
	SkippedEvents   int
}
