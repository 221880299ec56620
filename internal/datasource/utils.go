package datasource

import (
	"sort"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/shopspring/decimal"
)

// DateLayouts are the accepted spellings of the DATE column, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a DATE cell into a calendar date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return TruncateToDate(t), nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeMarketDataParseFailed, "unrecognised date %q", value)
}

// ParsePrice parses a CLOSE cell. Negative prices are rejected.
func ParsePrice(value string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "unrecognised price %q", value)
	}

	if d.IsNegative() {
		return 0, errors.Newf(errors.ErrCodeMarketDataParseFailed, "negative price %q", value)
	}

	price, _ := d.Float64()

	return price, nil
}

// TruncateToDate drops the clock part of t, keeping its calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inRange reports whether date lies in the inclusive range [start, end].
func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// normalizeSeries sorts the series ascending by date, keeping file order for equal dates,
// and drops every point whose date was already seen. It returns the number of dropped points.
func normalizeSeries(series types.Series) (types.Series, int) {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	result := series[:0]
	duplicates := 0

	for _, point := range series {
		if len(result) > 0 && point.Date.Equal(result[len(result)-1].Date) {
			duplicates++

			continue
		}

		result = append(result, point)
	}

	return result, duplicates
}
