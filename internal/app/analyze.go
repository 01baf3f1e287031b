package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"currency-event-impact/internal/domain"
	"currency-event-impact/internal/export"
	"currency-event-impact/internal/loader"
	"currency-event-impact/internal/storage"
)

// Analyze runs the full pipeline over the configured input files, persists
// the result when a database is configured, and renders any requested
// exports.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) error {
	ratesPath := opts.RatesPath
	if ratesPath == "" {
		ratesPath = a.Config.Input.RatesPath
	}
	eventsPath := opts.EventsPath
	if eventsPath == "" {
		eventsPath = a.Config.Input.EventsPath
	}
	if ratesPath == "" || eventsPath == "" {
		return errors.New("rate and event input paths must be provided (flags or input.* config)")
	}

	resolver, err := a.resolver()
	if err != nil {
		return err
	}
	svc, err := a.newService(resolver)
	if err != nil {
		return err
	}

	rateRows, err := loader.LoadRates(ratesPath)
	if err != nil {
		return err
	}
	eventRows, err := loader.LoadEvents(eventsPath)
	if err != nil {
		return err
	}
	a.Logger.Info().
		Str("rates", ratesPath).
		Str("events", eventsPath).
		Int("rate_rows", len(rateRows)).
		Int("event_rows", len(eventRows)).
		Msg("inputs loaded")

	started := time.Now().UTC()
	report, err := svc.Run(ctx, rateRows, eventRows)
	if err != nil {
		return err
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
	} else {
		if err := a.persist(ctx, store, started, report); err != nil {
			return err
		}
	}

	if err := a.render(report, opts.CSVDir, opts.XLSXPath, opts.SharesPNG, opts.ImpactPNG); err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}

func (a *App) persist(ctx context.Context, store *storage.Store, started time.Time, report *domain.Report) error {
	if key := a.Config.Database.AdvisoryLockKey; key != 0 {
		unlock, acquired, err := store.TryAdvisoryLock(ctx, key)
		if err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		if !acquired {
			return errors.New("another analysis is writing to this database")
		}
		defer unlock()
	}
	if err := store.SaveReport(ctx, started, report); err != nil {
		return err
	}
	a.Logger.Info().Msg("report persisted")
	return nil
}

func (a *App) render(report *domain.Report, csvDir, xlsxPath, sharesPNG, impactPNG string) error {
	if csvDir != "" {
		if err := export.WriteCSV(csvDir, report); err != nil {
			return err
		}
		a.Logger.Info().Str("dir", csvDir).Msg("csv tables written")
	}
	if xlsxPath != "" {
		if err := export.WriteXLSX(xlsxPath, report); err != nil {
			return err
		}
		a.Logger.Info().Str("path", xlsxPath).Msg("workbook written")
	}
	if sharesPNG != "" && len(report.Shares) > 0 {
		if err := export.WriteSharesPNG(sharesPNG, report.Shares); err != nil {
			return err
		}
		a.Logger.Info().Str("path", sharesPNG).Msg("shares chart written")
	}
	if impactPNG != "" && len(report.Impact.Coefficients) > 0 {
		if err := export.WriteImpactPNG(impactPNG, report.Impact); err != nil {
			return err
		}
		a.Logger.Info().Str("path", impactPNG).Msg("impact chart written")
	}
	return nil
}

func printReport(out *os.File, report *domain.Report) {
	fmt.Fprintf(out, "anomalies: %d  attributions: %d  skipped rows: %d rates, %d events\n",
		len(report.Anomalies), len(report.Attributions), report.SkippedRateRows, report.SkippedEvents)

	if len(report.Shares) > 0 {
		writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "Direction\tCategory\tWeight\tShare%")
		for _, share := range report.Shares {
			fmt.Fprintf(writer, "%s\t%s\t%.2f\t%.2f\n", share.Direction, share.Category, share.Weight, share.Percent)
		}
		writer.Flush()
	}

	if len(report.Impact.Coefficients) > 0 {
		fmt.Fprintf(out, "\nOLS fit: R2=%.4f intercept=%.6f n=%d\n",
			report.Impact.RSquared, report.Impact.Intercept, report.Impact.Observations)
		writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "Category\tCoefficient\tStdErr\tPValue\tLabel")
		for _, coef := range report.Impact.Coefficients {
			fmt.Fprintf(writer, "%s\t%.6f\t%.6f\t%.4f\t%s\n", coef.Category, coef.Coefficient, coef.StdErr, coef.PValue, coef.Label)
		}
		writer.Flush()
	}
}
