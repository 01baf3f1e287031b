package anomaly

import (
	"math"

	"github.com/rs/zerolog"

	"currency-event-impact/internal/domain"
)

// Detector flags dates whose percentage change lies beyond a z-score
// threshold. Mean and standard deviation are taken over the whole history
// of each column, not a rolling window; the same input always yields the
// same anomaly set.
type Detector struct {
	threshold float64
	logger    zerolog.Logger
}

// New constructs a Detector. A non-positive threshold falls back to 2.0,
// roughly the top and bottom 2.3% of changes under a normal assumption.
func New(threshold float64, logger zerolog.Logger) *Detector {
	if threshold <= 0 {
		threshold = 2.0
	}
	return &Detector{
		threshold: threshold,
		logger:    logger.With().Str("component", "anomaly_detector").Logger(),
	}
}

// Detect scans every currency column and returns the merged anomaly set
// ordered by date then currency.
func (d *Detector) Detect(series domain.PctChangeSeries) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0)
	for _, col := range series.Currencies {
		anomalies = append(anomalies, d.DetectColumn(col)...)
	}
	return anomalies
}

// DetectColumn flags the anomalies of a single column. A constant or
// single-valued column has zero variance and produces zero anomalies,
// never an error.
func (d *Detector) DetectColumn(col domain.PctChangeColumn) []domain.Anomaly {
	mean, std, ok := meanStd(col.Points)
	if !ok {
		d.logger.Debug().Str("currency", col.Code).Msg("column has zero variance, skipping")
		return nil
	}

	anomalies := make([]domain.Anomaly, 0)
	for _, point := range col.Points {
		z := (point.Value - mean) / std
		if math.Abs(z) < d.threshold {
			continue
		}
		direction := domain.DirectionSpike
		if z < 0 {
			direction = domain.DirectionDip
		}
		anomalies = append(anomalies, domain.Anomaly{
			Date:      point.Date,
			Currency:  col.Code,
			ZScore:    z,
			Direction: direction,
		})
	}
	return anomalies
}

// meanStd returns the sample mean and standard deviation (n-1 denominator).
// ok is false when fewer than two points exist or the deviation is zero.
func meanStd(points []domain.PctChangePoint) (float64, float64, bool) {
	n := len(points)
	if n < 2 {
		return 0, 0, false
	}

	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	mean := sum / float64(n)

	ss := 0.0
	for _, p := range points {
		diff := p.Value - mean
		ss += diff * diff
	}
	std := math.Sqrt(ss / float64(n-1))
	if std == 0 {
		return mean, 0, false
	}
	return mean, std, true
}
