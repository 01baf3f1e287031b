package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"currency-event-impact/internal/normalize"
)

// Recognized header names per field, lowest index wins. Covers both the
// GDELT export schema and plain hand-rolled tables.
var (
	idHeaders       = []string{"globaleventid", "event_id", "id"}
	dateHeaders     = []string{"sqldate", "date", "event_date"}
	geoHeaders      = []string{"actiongeo_country", "actiongeo_countrycode", "actiongeo_adm1code", "geo", "country"}
	categoryHeaders = []string{"eventcode", "counttype", "category", "event_type"}
	weightHeaders   = []string{"weight", "nummentions", "magnitude"}
)

// LoadEvents reads an event table from a CSV or TSV file with a header row.
// Field positions are resolved by header name; date, geography, and category
// columns are required, identifier and weight columns optional. Row-level
// defects are left for the normalizer to drop and count.
func LoadEvents(path string) ([]normalize.RawEventRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read event table: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("event table %s is empty", path)
	}

	cols, err := mapEventHeader(records[0], path)
	if err != nil {
		return nil, err
	}

	rows := make([]normalize.RawEventRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := normalize.RawEventRow{
			ID:       field(record, cols.id),
			Date:     field(record, cols.date),
			Geo:      field(record, cols.geo),
			Category: field(record, cols.category),
		}
		if raw := field(record, cols.weight); raw != "" {
			if weight, err := strconv.ParseFloat(raw, 64); err == nil {
				row.Weight = &weight
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type eventColumns struct {
	id       int
	date     int
	geo      int
	category int
	weight   int
}

func mapEventHeader(header []string, path string) (eventColumns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	find := func(candidates []string) int {
		for _, name := range candidates {
			if i, ok := index[name]; ok {
				return i
			}
		}
		return -1
	}

	cols := eventColumns{
		id:       find(idHeaders),
		date:     find(dateHeaders),
		geo:      find(geoHeaders),
		category: find(categoryHeaders),
		weight:   find(weightHeaders),
	}
	if cols.date < 0 {
		return cols, fmt.Errorf("event table %s has no date column", path)
	}
	if cols.geo < 0 {
		return cols, fmt.Errorf("event table %s has no geography column", path)
	}
	if cols.category < 0 {
		return cols, fmt.Errorf("event table %s has no category column", path)
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
