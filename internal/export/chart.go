package export

import (
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"currency-event-impact/internal/domain"
)

// WriteSharesPNG renders the per-direction category percentage shares as a
// grouped bar chart.
func WriteSharesPNG(path string, shares []domain.CategoryShare) error {
	if len(shares) == 0 {
		return fmt.Errorf("no shares to chart")
	}

	bars := make([]chart.Value, 0, len(shares))
	for _, share := range shares {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s %s", share.Direction, share.Category),
			Value: share.Percent,
		})
	}

	graph := chart.BarChart{
		Title:    "Share of anomalies preceded by event category (%)",
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		Bars:     bars,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.1f")
			},
		},
	}

	return renderPNG(path, func(file *os.File) error {
		return graph.Render(chart.PNG, file)
	})
}

// WriteImpactPNG renders the fitted coefficients per category.
func WriteImpactPNG(path string, result *domain.RegressionResult) error {
	if result == nil || len(result.Coefficients) == 0 {
		return fmt.Errorf("no coefficients to chart")
	}

	bars := make([]chart.Value, 0, len(result.Coefficients))
	for _, coef := range result.Coefficients {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%s)", coef.Category, coef.Label),
			Value: coef.Coefficient,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Estimated impact on base-currency strength (R²=%.3f)", result.RSquared),
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		Bars:     bars,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.4f")
			},
		},
	}

	return renderPNG(path, func(file *os.File) error {
		return graph.Render(chart.PNG, file)
	})
}

func renderPNG(path string, render func(*os.File) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return render(file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
