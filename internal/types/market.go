package types

import "time"

// PricePoint is one row of a daily price file.
type PricePoint struct {
	// Date is the calendar date of the row, truncated to UTC midnight
	Date time.Time `json:"date"`
	// Close is the closing price
	Close float64 `json:"close"`
}

// Series is an ordered run of PricePoint, ascending by date with no duplicate dates.
type Series []PricePoint

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}

	return closes
}

// First returns the first point of the series and false when the series is empty.
func (s Series) First() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}

	return s[0], true
}

// Last returns the last point of the series and false when the series is empty.
func (s Series) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}

	return s[len(s)-1], true
}
