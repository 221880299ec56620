package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/shopspring/decimal"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: DefaultShortWindow,
	}
}

// NewMAWithPeriod creates an MA indicator with the given window.
func NewMAWithPeriod(period int) (*MA, error) {
	ma := &MA{}
	if err := ma.Config(period); err != nil {
		return nil, err
	}

	return ma, nil
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Period returns the configured window.
func (m *MA) Period() int {
	return m.period
}

// Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		// Try to convert to float first
		periodFloat, ok := params[0].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int or float")
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	m.period = period

	return nil
}

// Compute returns the rolling mean of the close price over the configured window.
// Index i holds the mean of closes [i-period+1, i] and is None while i < period-1.
//
// The running sum is kept in decimal so equal inputs produce identical means for
// every window length.
func (m *MA) Compute(series types.Series) (types.SmaSeries, error) {
	if m.period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", m.period)
	}

	result := make(types.SmaSeries, len(series))
	values := make([]decimal.Decimal, len(series))
	window := decimal.NewFromInt(int64(m.period))
	sum := decimal.Zero

	for i, point := range series {
		if math.IsNaN(point.Close) || math.IsInf(point.Close, 0) {
			return nil, errors.Newf(errors.ErrCodeIndicatorCalculation, "invalid close price at index %d (%s)", i, point.Date.Format("2006-01-02"))
		}

		values[i] = decimal.NewFromFloat(point.Close)
		sum = sum.Add(values[i])

		if i >= m.period {
			sum = sum.Sub(values[i-m.period])
		}

		if i < m.period-1 {
			result[i] = optional.None[float64]()

			continue
		}

		mean, _ := sum.Div(window).Float64()
		result[i] = optional.Some(mean)
	}

	return result, nil
}
