package storage

import "time"

// RunRecord captures one persisted analysis run for auditing.
type RunRecord struct {
	ID           int64
	StartedAt    time.Time
	Anomalies    int
	Attributions int
	RSquared     float64
	Intercept    float64
	Observations int
	CreatedAt    time.Time
}
