package strategy

import (
	"strings"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Request is everything a strategy run depends on. Surfaces build one from their own
// input state and hand it to the Runner.
type Request struct {
	Stock string    `json:"stock"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewRequest builds a request from the textual form the surfaces collect.
func NewRequest(stock, start, end string) (Request, error) {
	startDate, err := ParseRequestDate("start", start)
	if err != nil {
		return Request{}, err
	}

	endDate, err := ParseRequestDate("end", end)
	if err != nil {
		return Request{}, err
	}

	return Request{Stock: strings.TrimSpace(stock), Start: startDate, End: endDate}, nil
}

// ParseRequestDate parses one date field. name appears in the error message.
func ParseRequestDate(name, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, errors.Newf(errors.ErrCodeMissingParameter, "%s date is required", name)
	}

	date, err := datasource.ParseDate(value)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "%s date %q is not a valid date (use YYYY-MM-DD)", name, value)
	}

	return date, nil
}

// Normalize trims the stock id and drops the clock part of both dates.
func (r Request) Normalize() Request {
	return Request{
		Stock: strings.TrimSpace(r.Stock),
		Start: datasource.TruncateToDate(r.Start),
		End:   datasource.TruncateToDate(r.End),
	}
}

// Validate checks the request before any data is read.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Stock) == "" {
		return errors.New(errors.ErrCodeMissingParameter, "select a stock")
	}

	if r.Start.IsZero() || r.End.IsZero() {
		return errors.New(errors.ErrCodeMissingParameter, "start and end dates are required")
	}

	n := r.Normalize()
	if n.Start.After(n.End) {
		return errors.Newf(errors.ErrCodeInvalidDateRange,
			"start date %s is after end date %s", n.Start.Format(time.DateOnly), n.End.Format(time.DateOnly))
	}

	return nil
}
