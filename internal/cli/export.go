package cli

import (
	"github.com/spf13/cobra"

	"currency-event-impact/internal/app"
)

var (
	exportCSVDir    string
	exportXLSX      string
	exportSharesPNG string
	exportImpactPNG string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted analysis results as CSV, XLSX, and/or PNG charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			CSVDir:    exportCSVDir,
			XLSXPath:  exportXLSX,
			SharesPNG: exportSharesPNG,
			ImpactPNG: exportImpactPNG,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCSVDir, "csv-dir", "", "Directory to write CSV result tables")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "Path to write XLSX workbook")
	exportCmd.Flags().StringVar(&exportSharesPNG, "shares-png", "", "Path to write category share chart")
	exportCmd.Flags().StringVar(&exportImpactPNG, "impact-png", "", "Path to write impact coefficient chart")
}
