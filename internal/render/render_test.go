package render

import (
	"errors"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/marker"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/stretchr/testify/require"
)

var chartStart = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

// analyze builds a result the way the strategy runner does, without touching disk
func analyze(t *testing.T, title string, closes []float64, shortWindow, longWindow int) *strategy.Result {
	t.Helper()

	series := make(types.Series, len(closes))
	for i, c := range closes {
		series[i] = types.PricePoint{Date: chartStart.AddDate(0, 0, i), Close: c}
	}

	crossover, err := indicator.NewCrossover(shortWindow, longWindow)
	require.NoError(t, err)

	analysis, err := crossover.Analyze(series)
	require.NoError(t, err)

	markers := marker.NewInMemoryMarker(shortWindow, longWindow)

	for i, signal := range analysis.Signals {
		if signal.IsCross() {
			require.NoError(t, markers.Mark(i, series[i], signal, analysis.Short.At(i).Unwrap()))
		}
	}

	marks, err := markers.GetMarkers()
	require.NoError(t, err)

	return &strategy.Result{
		Stock:       title + ".csv",
		Title:       title,
		Start:       chartStart,
		End:         series[len(series)-1].Date,
		ShortWindow: shortWindow,
		LongWindow:  longWindow,
		Series:      series,
		Short:       analysis.Short,
		Long:        analysis.Long,
		Signals:     analysis.Signals,
		Marks:       marks,
	}
}

// vShape falls to its bottom at index 249 and rises again
func vShape(n int, invert bool) []float64 {
	closes := make([]float64, n)

	for i := range closes {
		distance := float64(i - 249)
		if distance < 0 {
			distance = -distance
		}

		if invert {
			closes[i] = 400 - distance
		} else {
			closes[i] = 100 + distance
		}
	}

	return closes
}

var errBrokenWriter = errors.New("broken writer")

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errBrokenWriter
}
