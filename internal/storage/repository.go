package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"currency-event-impact/internal/domain"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	upsertAnomalySQL = `INSERT INTO anomalies (
        anomaly_date,
        currency,
        z_score,
        direction
    ) VALUES (
        $1,$2,$3,$4
    )
    ON CONFLICT (anomaly_date, currency) DO UPDATE
    SET z_score   = EXCLUDED.z_score,
        direction = EXCLUDED.direction;`

	upsertAttributionSQL = `INSERT INTO attributions (
        anomaly_date,
        currency,
        direction,
        category,
        weight
    ) VALUES (
        $1,$2,$3,$4,$5
    )
    ON CONFLICT (anomaly_date, currency, category) DO UPDATE
    SET direction = EXCLUDED.direction,
        weight    = EXCLUDED.weight;`

	upsertCoefficientSQL = `INSERT INTO impact_coefficients (
        category,
        coefficient,
        std_err,
        p_value,
        label
    ) VALUES (
        $1,$2,$3,$4,$5
    )
    ON CONFLICT (category) DO UPDATE
    SET coefficient = EXCLUDED.coefficient,
        std_err     = EXCLUDED.std_err,
        p_value     = EXCLUDED.p_value,
        label       = EXCLUDED.label;`

	insertRunSQL = `INSERT INTO analysis_runs (
        started_at,
        anomalies,
        attributions,
        r_squared,
        intercept,
        observations
    ) VALUES (
        $1,$2,$3,$4,$5,$6
    ) RETURNING id;`

	listAnomaliesSQL = `SELECT anomaly_date, currency, z_score, direction
    FROM anomalies
    ORDER BY anomaly_date, currency;`

	listRecentAnomaliesSQL = `SELECT anomaly_date, currency, z_score, direction
    FROM anomalies
    ORDER BY anomaly_date DESC, currency
    LIMIT $1;`

	listAttributionsSQL = `SELECT anomaly_date, currency, direction, category, weight
    FROM attributions
    ORDER BY anomaly_date, currency, weight DESC, category;`

	listCoefficientsSQL = `SELECT category, coefficient, std_err, p_value, label
    FROM impact_coefficients
    ORDER BY category;`

	latestRunSQL = `SELECT id, started_at, anomalies, attributions, r_squared, intercept, observations, created_at
    FROM analysis_runs
    ORDER BY id DESC
    LIMIT 1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// ReportWriter persists a full pipeline report.
type ReportWriter interface {
	SaveReport(ctx context.Context, startedAt time.Time, report *domain.Report) error
}

// ReportReader exposes the persisted reporting tables.
type ReportReader interface {
	ListAnomalies(ctx context.Context) ([]domain.Anomaly, error)
	ListRecentAnomalies(ctx context.Context, limit int) ([]domain.Anomaly, error)
	ListAttributions(ctx context.Context) ([]domain.AttributionRow, error)
	ListCoefficients(ctx context.Context) ([]domain.ImpactCoefficient, error)
}

// AdvisoryLocker exposes advisory lock helpers so concurrent analyze runs
// against the same database do not interleave writes.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to the reporting tables.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = conn.Exec(ctxUnlock, advisoryUnlockSQL, key)
		conn.Release()
	}
	return unlock, true, nil
}

// SaveReport upserts the anomaly, attribution, and coefficient tables and
// records the run. Tables are replaced row-by-row by their natural keys so
// re-running the pipeline over the same window is idempotent.
func (s *Store) SaveReport(ctx context.Context, startedAt time.Time, report *domain.Report) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save report: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, anom := range report.Anomalies {
		if _, err := tx.Exec(ctx, upsertAnomalySQL, anom.Date, anom.Currency, anom.ZScore, string(anom.Direction)); err != nil {
			return fmt.Errorf("upsert anomaly: %w", err)
		}
	}
	for _, row := range report.Attributions {
		if _, err := tx.Exec(ctx, upsertAttributionSQL, row.Date, row.Currency, string(row.Direction), row.Category, row.Weight); err != nil {
			return fmt.Errorf("upsert attribution: %w", err)
		}
	}
	for _, coef := range report.Impact.Coefficients {
		if _, err := tx.Exec(ctx, upsertCoefficientSQL, coef.Category, coef.Coefficient, coef.StdErr, coef.PValue, coef.Label); err != nil {
			return fmt.Errorf("upsert coefficient: %w", err)
		}
	}

	var runID int64
	if err := tx.QueryRow(ctx, insertRunSQL,
		startedAt,
		len(report.Anomalies),
		len(report.Attributions),
		report.Impact.RSquared,
		report.Impact.Intercept,
		report.Impact.Observations,
	).Scan(&runID); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save report: %w", err)
	}
	return nil
}

// ListAnomalies returns every persisted anomaly ordered by date, currency.
func (s *Store) ListAnomalies(ctx context.Context) ([]domain.Anomaly, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listAnomaliesSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list anomalies: %w", queryErr)
	}
	defer rows.Close()

	return scanAnomalies(rows)
}

// ListRecentAnomalies returns the most recent anomalies, newest first.
func (s *Store) ListRecentAnomalies(ctx context.Context, limit int) ([]domain.Anomaly, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentAnomaliesSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent anomalies: %w", queryErr)
	}
	defer rows.Close()

	return scanAnomalies(rows)
}

// ListAttributions returns every persisted attribution row.
func (s *Store) ListAttributions(ctx context.Context) ([]domain.AttributionRow, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listAttributionsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list attributions: %w", queryErr)
	}
	defer rows.Close()

	result := make([]domain.AttributionRow, 0)
	for rows.Next() {
		var row domain.AttributionRow
		var direction string
		if err := rows.Scan(&row.Date, &row.Currency, &direction, &row.Category, &row.Weight); err != nil {
			return nil, fmt.Errorf("scan attribution: %w", err)
		}
		row.Direction = domain.Direction(direction)
		result = append(result, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return result, nil
}

// ListCoefficients returns the persisted impact coefficients by category.
func (s *Store) ListCoefficients(ctx context.Context) ([]domain.ImpactCoefficient, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listCoefficientsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list coefficients: %w", queryErr)
	}
	defer rows.Close()

	result := make([]domain.ImpactCoefficient, 0)
	for rows.Next() {
		var coef domain.ImpactCoefficient
		if err := rows.Scan(&coef.Category, &coef.Coefficient, &coef.StdErr, &coef.PValue, &coef.Label); err != nil {
			return nil, fmt.Errorf("scan coefficient: %w", err)
		}
		result = append(result, coef)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return result, nil
}

// LatestRun returns the newest analysis run record, or nil when no run has
// been persisted yet.
func (s *Store) LatestRun(ctx context.Context) (*RunRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	var rec RunRecord
	row := pool.QueryRow(ctx, latestRunSQL)
	if err := row.Scan(&rec.ID, &rec.StartedAt, &rec.Anomalies, &rec.Attributions,
		&rec.RSquared, &rec.Intercept, &rec.Observations, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return &rec, nil
}

type anomalyRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAnomalies(rows anomalyRows) ([]domain.Anomaly, error) {
	result := make([]domain.Anomaly, 0)
	for rows.Next() {
		var anom domain.Anomaly
		var direction string
		if err := rows.Scan(&anom.Date, &anom.Currency, &anom.ZScore, &direction); err != nil {
			return nil, fmt.Errorf("scan anomaly: %w", err)
		}
		anom.Direction = domain.Direction(direction)
		result = append(result, anom)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return result, nil
}

var (
	_ ReportWriter   = (*Store)(nil)
	_ ReportReader   = (*Store)(nil)
	_ AdvisoryLocker = (*Store)(nil)
)
