package normalize

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSeriesNormalizerSortsAndDerives(t *testing.T) {
	rows := []RawRateRow{
		{Date: "2024-01-03", Prices: map[string]decimal.Decimal{"EUR": price("1.10")}},
		{Date: "2024-01-01", Prices: map[string]decimal.Decimal{"EUR": price("1.00")}},
		{Date: "2024-01-02", Prices: map[string]decimal.Decimal{"EUR": price("1.05")}},
	}

	rates, changes, skipped := NewSeriesNormalizer(zerolog.Nop()).Normalize(rows)
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(rates.Currencies) != 1 || rates.Currencies[0].Code != "EUR" {
		t.Fatalf("expected single EUR series, got %+v", rates.Currencies)
	}

	points := rates.Currencies[0].Points
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !points[i-1].Date.Before(points[i].Date) {
			t.Fatalf("dates not strictly increasing: %v then %v", points[i-1].Date, points[i].Date)
		}
	}

	col := changes.Currencies[0]
	if len(col.Points) != 2 {
		t.Fatalf("expected 2 pct-change points (first date has none), got %d", len(col.Points))
	}
	if math.Abs(col.Points[0].Value-5.0) > 1e-9 {
		t.Errorf("expected +5%% on day 2, got %f", col.Points[0].Value)
	}
}

func TestSeriesNormalizerDuplicateDatesKeepLatest(t *testing.T) {
	rows := []RawRateRow{
		{Date: "2024-01-01", Prices: map[string]decimal.Decimal{"EUR": price("1.00")}},
		{Date: "2024-01-01", Prices: map[string]decimal.Decimal{"EUR": price("2.00")}},
	}

	rates, _, _ := NewSeriesNormalizer(zerolog.Nop()).Normalize(rows)
	points := rates.Currencies[0].Points
	if len(points) != 1 {
		t.Fatalf("expected duplicate dates collapsed to one row, got %d", len(points))
	}
	if !points[0].Price.Equal(price("2.00")) {
		t.Errorf("expected latest-ingested value to win, got %s", points[0].Price)
	}
}

func TestSeriesNormalizerDropsMalformedDates(t *testing.T) {
	rows := []RawRateRow{
		{Date: "not-a-date", Prices: map[string]decimal.Decimal{"EUR": price("1.00")}},
		{Date: "2024-01-01", Prices: map[string]decimal.Decimal{"EUR": price("1.00")}},
	}

	rates, _, skipped := NewSeriesNormalizer(zerolog.Nop()).Normalize(rows)
	if skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", skipped)
	}
	if len(rates.Currencies[0].Points) != 1 {
		t.Fatalf("malformed row should be dropped, not fatal")
	}
}

func TestSeriesNormalizerHonorsProvidedPctChg(t *testing.T) {
	rows := []RawRateRow{
		{Date: "2024-01-01", Prices: map[string]decimal.Decimal{"EUR": price("1.00")}},
		{
			Date:   "2024-01-02",
			Prices: map[string]decimal.Decimal{"EUR": price("1.10")},
			PctChg: map[string]float64{"EUR": 42.0},
		},
	}

	_, changes, _ := NewSeriesNormalizer(zerolog.Nop()).Normalize(rows)
	if got := changes.Currencies[0].Points[0].Value; got != 42.0 {
		t.Errorf("expected provided pctchg column to win, got %f", got)
	}
}

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		raw  string
		ok   bool
		want string
	}{
		{"2024-01-02", true, "2024-01-02"},
		{"20240102", true, "2024-01-02"},
		{"2024/01/02", true, "2024-01-02"},
		{"2024-01-02T15:04:05Z", true, "2024-01-02"},
		{"", false, ""},
		{"garbage", false, ""},
	}

	for _, tc := range cases {
		parsed, err := ParseDate(tc.raw)
		if tc.ok && err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", tc.raw, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error", tc.raw)
			}
			continue
		}
		if got := parsed.Format("2006-01-02"); got != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
