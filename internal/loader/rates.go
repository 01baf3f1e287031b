package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"currency-event-impact/internal/normalize"
)

const pctChgSuffix = "_pctchg"

// LoadRates reads a rate table from a CSV or XLSX file. The first column is
// the date index; every other column is either a currency code or a
// precomputed <CODE>_pctchg column. Cell-level problems (blank or
// unparseable prices) leave the cell absent; only file-level problems are
// errors — malformed dates are the normalizer's concern.
func LoadRates(path string) ([]normalize.RawRateRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadRatesXLSX(path)
	default:
		return loadRatesCSV(path)
	}
}

func loadRatesCSV(path string) ([]normalize.RawRateRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rate table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rate table: %w", err)
	}
	return parseRateRows(records, path)
}

func loadRatesXLSX(path string) ([]normalize.RawRateRow, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open rate workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("rate workbook %s has no sheets", path)
	}
	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rate workbook: %w", err)
	}
	return parseRateRows(records, path)
}

func parseRateRows(records [][]string, path string) ([]normalize.RawRateRow, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("rate table %s has no data rows", path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("rate table %s needs a date column and at least one currency", path)
	}

	rows := make([]normalize.RawRateRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := normalize.RawRateRow{
			Date:   record[0],
			Prices: make(map[string]decimal.Decimal),
			PctChg: make(map[string]float64),
		}
		for i := 1; i < len(record) && i < len(header); i++ {
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				continue
			}
			name := strings.TrimSpace(header[i])
			if code, ok := strings.CutSuffix(strings.ToLower(name), pctChgSuffix); ok {
				pct, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					continue
				}
				row.PctChg[strings.ToUpper(code)] = pct
				continue
			}
			price, err := decimal.NewFromString(cell)
			if err != nil {
				continue
			}
			row.Prices[strings.ToUpper(name)] = price
		}
		rows = append(rows, row)
	}
	return rows, nil
}
