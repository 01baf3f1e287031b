package cli

import (
	"github.com/spf13/cobra"

	"currency-event-impact/internal/app"
)

var (
	analyzeRates     string
	analyzeEvents    string
	analyzeCSVDir    string
	analyzeXLSX      string
	analyzeSharesPNG string
	analyzeImpactPNG string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the anomaly detection and event-attribution pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Analyze(cmd.Context(), app.AnalyzeOptions{
			RatesPath:  analyzeRates,
			EventsPath: analyzeEvents,
			CSVDir:     analyzeCSVDir,
			XLSXPath:   analyzeXLSX,
			SharesPNG:  analyzeSharesPNG,
			ImpactPNG:  analyzeImpactPNG,
		})
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRates, "rates", "", "Path to rate table (CSV or XLSX, defaults to input.rates_path)")
	analyzeCmd.Flags().StringVar(&analyzeEvents, "events", "", "Path to event table (CSV or TSV, defaults to input.events_path)")
	analyzeCmd.Flags().StringVar(&analyzeCSVDir, "csv-dir", "", "Directory to write CSV result tables")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "Path to write XLSX workbook")
	analyzeCmd.Flags().StringVar(&analyzeSharesPNG, "shares-png", "", "Path to write category share chart")
	analyzeCmd.Flags().StringVar(&analyzeImpactPNG, "impact-png", "", "Path to write impact coefficient chart")
}
