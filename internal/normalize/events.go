package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"currency-event-impact/internal/domain"
)

// RawEventRow is one unparsed event record. Weight is nil when the source
// carries no magnitude field; ID is empty when the feed has no stable
// identifier.
type RawEventRow struct {
	ID       string
	Date     string
	Geo      string
	Category string
	Weight   *float64
}

// EventNormalizer parses raw event rows into the canonical schema and
// discards malformed ones.
type EventNormalizer struct {
	logger zerolog.Logger
}

// NewEventNormalizer constructs an EventNormalizer.
func NewEventNormalizer(logger zerolog.Logger) *EventNormalizer {
	return &EventNormalizer{logger: logger.With().Str("component", "event_normalizer").Logger()}
}

// Normalize returns the deduplicated event set and the count of dropped
// rows. Rows are dropped for an unparseable date, an empty geography, or an
// empty category; the batch never fails. The dedup key is the event ID when
// present, else the full (date, country, category, weight) tuple. Output is
// sorted by date, country, category for stable downstream iteration.
func (n *EventNormalizer) Normalize(rows []RawEventRow) ([]domain.EventRecord, int) {
	records := make([]domain.EventRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	skipped := 0

	for _, row := range rows {
		record, err := n.normalizeRow(row)
		if err != nil {
			skipped++
			continue
		}
		key := dedupKey(record)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		if records[i].Country != records[j].Country {
			return records[i].Country < records[j].Country
		}
		return records[i].Category < records[j].Category
	})

	if skipped > 0 {
		n.logger.Warn().Int("skipped", skipped).Msg("event rows dropped during normalization")
	}
	return records, skipped
}

func (n *EventNormalizer) normalizeRow(row RawEventRow) (domain.EventRecord, error) {
	date, err := ParseDate(row.Date)
	if err != nil {
		n.logger.Debug().Str("date", row.Date).Msg("dropping event with malformed date")
		return domain.EventRecord{}, err
	}

	country := ExtractCountry(row.Geo)
	if country == "" {
		return domain.EventRecord{}, domain.ErrMissingField
	}

	category := strings.ToUpper(strings.TrimSpace(row.Category))
	if category == "" {
		return domain.EventRecord{}, domain.ErrMissingField
	}

	weight := 1.0
	if row.Weight != nil && *row.Weight >= 0 {
		weight = *row.Weight
	}

	return domain.EventRecord{
		ID:       strings.TrimSpace(row.ID),
		Date:     date,
		Country:  country,
		Category: category,
		Weight:   weight,
	}, nil
}

// ExtractCountry reduces a free-text geography field to a country token:
// the substring after the last comma when one is present, otherwise the
// whole field, trimmed either way. "Alaska, United States" yields
// "United States"; an empty field yields "".
func ExtractCountry(geo string) string {
	s := strings.TrimSpace(geo)
	if s == "" {
		return ""
	}
	if idx := strings.LastIndex(s, ","); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}

func dedupKey(record domain.EventRecord) string {
	if record.ID != "" {
		return "id:" + record.ID
	}
	var b strings.Builder
	b.WriteString(record.Date.Format("20060102"))
	b.WriteByte('|')
	b.WriteString(record.Country)
	b.WriteByte('|')
	b.WriteString(record.Category)
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(record.Weight, 'g', -1, 64))
	return b.String()
}
