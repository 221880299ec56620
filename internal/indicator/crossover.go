package indicator

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

const (
	// DefaultShortWindow is the short moving average window in trading days
	DefaultShortWindow = 50
	// DefaultLongWindow is the long moving average window in trading days
	DefaultLongWindow = 200
)

// CrossoverResult holds both moving averages and the signal for every series index.
// All three slices have the length of the analysed series.
type CrossoverResult struct {
	Short   types.SmaSeries
	Long    types.SmaSeries
	Signals []types.CrossoverSignal
}

// Crossover pairs a short and a long moving average.
type Crossover struct {
	short *MA
	long  *MA
}

// NewCrossover creates a crossover detector. Both windows must be positive and
// shortWindow must be smaller than longWindow.
func NewCrossover(shortWindow, longWindow int) (*Crossover, error) {
	short, err := NewMAWithPeriod(shortWindow)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPeriod, "invalid short window", err)
	}

	long, err := NewMAWithPeriod(longWindow)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPeriod, "invalid long window", err)
	}

	if shortWindow >= longWindow {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "short window (%d) must be smaller than long window (%d)", shortWindow, longWindow)
	}

	return &Crossover{short: short, long: long}, nil
}

// ShortWindow returns the short window length.
func (c *Crossover) ShortWindow() int {
	return c.short.Period()
}

// LongWindow returns the long window length.
func (c *Crossover) LongWindow() int {
	return c.long.Period()
}

// Analyze computes both moving averages over the series and classifies every index.
func (c *Crossover) Analyze(series types.Series) (CrossoverResult, error) {
	short, err := c.short.Compute(series)
	if err != nil {
		return CrossoverResult{}, err
	}

	long, err := c.long.Compute(series)
	if err != nil {
		return CrossoverResult{}, err
	}

	return CrossoverResult{
		Short:   short,
		Long:    long,
		Signals: DetectCrossovers(len(series), short, long),
	}, nil
}

// DetectCrossovers classifies indices 0..length-1. An index gets a signal only when
// short and long are defined at both it and its predecessor:
//
//	upward:   short[i] > long[i] && short[i-1] <= long[i-1]
//	downward: short[i] < long[i] && short[i-1] >= long[i-1]
//
// Indices missing from either average count as undefined, so mismatched inputs
// never stop the scan.
func DetectCrossovers(length int, short, long types.SmaSeries) []types.CrossoverSignal {
	if length < 0 {
		length = 0
	}

	signals := make([]types.CrossoverSignal, length)
	for i := range signals {
		signals[i] = types.CrossoverSignalNone
	}

	for i := 1; i < length; i++ {
		prevShort, prevLong := short.At(i-1), long.At(i-1)
		currShort, currLong := short.At(i), long.At(i)

		if prevShort.IsNone() || prevLong.IsNone() || currShort.IsNone() || currLong.IsNone() {
			continue
		}

		ps, pl := prevShort.Unwrap(), prevLong.Unwrap()
		cs, cl := currShort.Unwrap(), currLong.Unwrap()

		switch {
		case cs > cl && ps <= pl:
			signals[i] = types.CrossoverSignalUpward
		case cs < cl && ps >= pl:
			signals[i] = types.CrossoverSignalDownward
		}
	}

	return signals
}

// CrossoverIndices returns the indices holding an upward or downward signal.
func CrossoverIndices(signals []types.CrossoverSignal) []int {
	indices := make([]int, 0)

	for i, s := range signals {
		if s.IsCross() {
			indices = append(indices, i)
		}
	}

	return indices
}
