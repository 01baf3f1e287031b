package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"currency-event-impact/internal/countries"
	"currency-event-impact/internal/normalize"
)

// Simulate runs the engine over a small synthetic fixture: a currency flat
// for 29 days then jumping 20%, with a single PROTEST event in France the
// day before the jump. Useful for smoke-testing configuration and exports
// without real data files.
func (a *App) Simulate(ctx context.Context) error {
	resolver := countries.NewStatic(map[string][]string{"EUR": {"France"}})
	svc, err := a.newService(resolver)
	if err != nil {
		return err
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rateRows := make([]normalize.RawRateRow, 0, 30)
	for i := 0; i < 30; i++ {
		price := decimal.NewFromInt(1)
		if i == 29 {
			price = decimal.RequireFromString("1.20")
		}
		rateRows = append(rateRows, normalize.RawRateRow{
			Date:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Prices: map[string]decimal.Decimal{"EUR": price},
		})
	}

	eventRows := []normalize.RawEventRow{
		{
			ID:       "sim-1",
			Date:     start.AddDate(0, 0, 28).Format("2006-01-02"),
			Geo:      "Paris, France",
			Category: "protest",
		},
	}

	report, err := svc.Run(ctx, rateRows, eventRows)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "simulated fixture: EUR flat 29 days, +20% on day 30, PROTEST in France on day 29")
	printReport(os.Stdout, report)
	return nil
}
