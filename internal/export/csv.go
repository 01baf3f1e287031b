package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"currency-event-impact/internal/domain"
)

const dateFormat = "2006-01-02"

// WriteCSV writes the four reporting tables into dir, one file each.
func WriteCSV(dir string, report *domain.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	if err := writeTable(filepath.Join(dir, "anomalies.csv"),
		[]string{"date", "currency", "z_score", "direction"},
		len(report.Anomalies),
		func(i int) []string {
			a := report.Anomalies[i]
			return []string{a.Date.Format(dateFormat), a.Currency, formatFloat(a.ZScore), string(a.Direction)}
		}); err != nil {
		return err
	}

	if err := writeTable(filepath.Join(dir, "attributions.csv"),
		[]string{"date", "currency", "direction", "category", "weight"},
		len(report.Attributions),
		func(i int) []string {
			r := report.Attributions[i]
			return []string{r.Date.Format(dateFormat), r.Currency, string(r.Direction), r.Category, formatFloat(r.Weight)}
		}); err != nil {
		return err
	}

	if err := writeTable(filepath.Join(dir, "category_shares.csv"),
		[]string{"direction", "category", "weight", "percent"},
		len(report.Shares),
		func(i int) []string {
			s := report.Shares[i]
			return []string{string(s.Direction), s.Category, formatFloat(s.Weight), formatFloat(s.Percent)}
		}); err != nil {
		return err
	}

	return writeTable(filepath.Join(dir, "impact_coefficients.csv"),
		[]string{"category", "coefficient", "std_err", "p_value", "label"},
		len(report.Impact.Coefficients),
		func(i int) []string {
			c := report.Impact.Coefficients[i]
			return []string{c.Category, formatFloat(c.Coefficient), formatFloat(c.StdErr), formatFloat(c.PValue), c.Label}
		})
}

func writeTable(path string, header []string, n int, row func(int) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(row(i)); err != nil {
			return err
		}
	}
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}
