package app

import (
	"context"
	"errors"

	"currency-event-impact/internal/attribution"
	"currency-event-impact/internal/domain"
)

// Export renders the persisted reporting tables as CSV, XLSX, and/or PNG.
// Percentage shares are recomputed from the stored attribution rows; model
// diagnostics come from the latest recorded run.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVDir == "" && opts.XLSXPath == "" && opts.SharesPNG == "" && opts.ImpactPNG == "" {
		return errors.New("at least one of --csv-dir, --xlsx, --shares-png, --impact-png must be provided")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	anomalies, err := store.ListAnomalies(ctx)
	if err != nil {
		return err
	}
	attributions, err := store.ListAttributions(ctx)
	if err != nil {
		return err
	}
	coefficients, err := store.ListCoefficients(ctx)
	if err != nil {
		return err
	}

	impact := &domain.RegressionResult{Coefficients: coefficients}
	if run, err := store.LatestRun(ctx); err != nil {
		return err
	} else if run != nil {
		impact.RSquared = run.RSquared
		impact.Intercept = run.Intercept
		impact.Observations = run.Observations
	}

	report := &domain.Report{
		Anomalies:    anomalies,
		Attributions: attributions,
		Shares:       attribution.Shares(attributions),
		Impact:       impact,
	}

	a.Logger.Info().
		Int("anomalies", len(anomalies)).
		Int("attributions", len(attributions)).
		Int("coefficients", len(coefficients)).
		Msg("exporting persisted results")

	return a.render(report, opts.CSVDir, opts.XLSXPath, opts.SharesPNG, opts.ImpactPNG)
}
