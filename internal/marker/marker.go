package marker

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Marker is a marker that can be used to mark a point of a series with a crossover signal
type Marker interface {
	// Mark a series point with a crossover signal drawn at value
	Mark(index int, point types.PricePoint, signal types.CrossoverSignal, value float64) error
	// GetMarkers returns all the markers in the order they were added
	GetMarkers() ([]types.Mark, error)
}

// InMemoryMarker keeps marks for a single strategy run.
type InMemoryMarker struct {
	shortWindow int
	longWindow  int
	marks       []types.Mark
}

// NewInMemoryMarker creates a marker whose messages name the two moving average windows.
func NewInMemoryMarker(shortWindow, longWindow int) *InMemoryMarker {
	return &InMemoryMarker{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		marks:       make([]types.Mark, 0),
	}
}

// Mark implements Marker.
func (m *InMemoryMarker) Mark(index int, point types.PricePoint, signal types.CrossoverSignal, value float64) error {
	mark := types.Mark{
		Index:    index,
		Date:     point.Date,
		Value:    value,
		Category: "crossover",
		Signal:   optional.Some(signal),
	}

	switch signal {
	case types.CrossoverSignalUpward:
		mark.Color = types.MarkColorGreen
		mark.Shape = types.MarkShapeTriangleUp
		mark.Title = "Upward crossover"
		mark.Message = fmt.Sprintf("%d-day SMA crossed above %d-day SMA", m.shortWindow, m.longWindow)
	case types.CrossoverSignalDownward:
		mark.Color = types.MarkColorRed
		mark.Shape = types.MarkShapeTriangleDown
		mark.Title = "Downward crossover"
		mark.Message = fmt.Sprintf("%d-day SMA crossed below %d-day SMA", m.shortWindow, m.longWindow)
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "cannot mark index %d with signal %q", index, signal)
	}

	m.marks = append(m.marks, mark)

	return nil
}

// GetMarkers implements Marker.
func (m *InMemoryMarker) GetMarkers() ([]types.Mark, error) {
	marks := make([]types.Mark, len(m.marks))
	copy(marks, m.marks)

	return marks, nil
}
