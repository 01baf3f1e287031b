package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
)

// Show prints the most recently detected anomalies from the store.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show anomalies")
	}
	if closeStore != nil {
		defer closeStore()
	}

	anomalies, err := store.ListRecentAnomalies(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(anomalies) == 0 {
		fmt.Fprintln(os.Stdout, "no anomalies found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tCurrency\tZ-Score\tDirection")
	for _, anom := range anomalies {
		fmt.Fprintf(writer, "%s\t%s\t%.3f\t%s\n",
			anom.Date.Format("2006-01-02"),
			anom.Currency,
			anom.ZScore,
			anom.Direction,
		)
	}
	writer.Flush()
	return nil
}
