package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"currency-event-impact/internal/domain"
)

// WriteXLSX renders the report as one workbook, one sheet per table.
func WriteXLSX(path string, report *domain.Report) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := writeSheet(book, "Anomalies",
		[]string{"Date", "Currency", "ZScore", "Direction"},
		len(report.Anomalies),
		func(i int) []any {
			a := report.Anomalies[i]
			return []any{formatDate(a.Date), a.Currency, a.ZScore, string(a.Direction)}
		}); err != nil {
		return err
	}

	if err := writeSheet(book, "Attributions",
		[]string{"Date", "Currency", "Direction", "Category", "Weight"},
		len(report.Attributions),
		func(i int) []any {
			r := report.Attributions[i]
			return []any{formatDate(r.Date), r.Currency, string(r.Direction), r.Category, r.Weight}
		}); err != nil {
		return err
	}

	if err := writeSheet(book, "Shares",
		[]string{"Direction", "Category", "Weight", "Percent"},
		len(report.Shares),
		func(i int) []any {
			s := report.Shares[i]
			return []any{string(s.Direction), s.Category, s.Weight, s.Percent}
		}); err != nil {
		return err
	}

	if err := writeSheet(book, "Impact",
		[]string{"Category", "Coefficient", "StdErr", "PValue", "Label"},
		len(report.Impact.Coefficients),
		func(i int) []any {
			c := report.Impact.Coefficients[i]
			return []any{c.Category, c.Coefficient, c.StdErr, c.PValue, c.Label}
		}); err != nil {
		return err
	}

	// Model diagnostics on the impact sheet footer.
	base := len(report.Impact.Coefficients) + 3
	_ = book.SetCellValue("Impact", fmt.Sprintf("A%d", base), "R-squared")
	_ = book.SetCellValue("Impact", fmt.Sprintf("B%d", base), report.Impact.RSquared)
	_ = book.SetCellValue("Impact", fmt.Sprintf("A%d", base+1), "Intercept")
	_ = book.SetCellValue("Impact", fmt.Sprintf("B%d", base+1), report.Impact.Intercept)
	_ = book.SetCellValue("Impact", fmt.Sprintf("A%d", base+2), "Observations")
	_ = book.SetCellValue("Impact", fmt.Sprintf("B%d", base+2), report.Impact.Observations)

	// excelize seeds the workbook with Sheet1; drop it once our sheets exist.
	if idx, err := book.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		_ = book.DeleteSheet("Sheet1")
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(book *excelize.File, name string, header []string, n int, row func(int) []any) error {
	if _, err := book.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := book.SetCellValue(name, cell, title); err != nil {
			return err
		}
	}
	for i := 0; i < n; i++ {
		for col, value := range row(i) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := book.SetCellValue(name, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
