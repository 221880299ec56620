// Package render draws strategy results as a terminal chart or as SVG.
package render

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

const (
	// EmptyMessage is shown in place of a chart when there is nothing to plot.
	EmptyMessage = "No price data to display"

	closeLabel    = "Closing price"
	upwardLabel   = "Upward crossover"
	downwardLabel = "Downward crossover"
)

// Title is the chart heading for a result.
func Title(result *strategy.Result) string {
	return result.Title + " Stock prices"
}

func shortLabel(result *strategy.Result) string {
	return fmt.Sprintf("%d-day SMA", result.ShortWindow)
}

func longLabel(result *strategy.Result) string {
	return fmt.Sprintf("%d-day SMA", result.LongWindow)
}

func isEmpty(result *strategy.Result) bool {
	return result == nil || len(result.Series) == 0
}

// valueRange returns the smallest and largest value over the closes and both averages.
// A flat range is widened so it can be scaled.
func valueRange(result *strategy.Result) (float64, float64) {
	low, high := math.Inf(1), math.Inf(-1)

	include := func(v float64) {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}

	for i, point := range result.Series {
		include(point.Close)

		if short := result.Short.At(i); short.IsSome() {
			include(short.Unwrap())
		}

		if long := result.Long.At(i); long.IsSome() {
			include(long.Unwrap())
		}
	}

	if high-low < 1e-9 {
		pad := math.Max(math.Abs(high)*0.01, 1)
		low, high = low-pad, high+pad
	}

	return low, high
}

// column is the series index a chart column stands for.
type column struct {
	index int
	// signal is the crossover inside the column's bucket, if any
	signal types.CrossoverSignal
}

// bucket maps n points onto at most width columns. Each column covers a run of
// consecutive points; a column containing a crossover is drawn at that crossover,
// otherwise at its last point.
func bucket(signals []types.CrossoverSignal, n, width int) []column {
	if n <= 0 || width <= 0 {
		return nil
	}

	size := (n + width - 1) / width
	columns := make([]column, 0, (n+size-1)/size)

	for from := 0; from < n; from += size {
		to := min(from+size, n)
		col := column{index: to - 1, signal: types.CrossoverSignalNone}

		for i := from; i < to; i++ {
			if i < len(signals) && signals[i].IsCross() {
				col = column{index: i, signal: signals[i]}

				break
			}
		}

		columns = append(columns, col)
	}

	return columns
}
