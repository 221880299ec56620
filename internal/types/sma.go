package types

import (
	"math"

	"github.com/moznion/go-optional"
)

// SmaSeries holds one moving average value per series index. None marks an index where
// fewer than window points were available.
type SmaSeries []optional.Option[float64]

// At returns the value at index i. Out of range indices and NaN values are reported as None.
func (s SmaSeries) At(i int) optional.Option[float64] {
	if i < 0 || i >= len(s) {
		return optional.None[float64]()
	}

	v := s[i]
	if v.IsSome() && math.IsNaN(v.Unwrap()) {
		return optional.None[float64]()
	}

	return v
}

// FirstDefined returns the first index holding a value, or -1.
func (s SmaSeries) FirstDefined() int {
	for i := range s {
		if s.At(i).IsSome() {
			return i
		}
	}

	return -1
}
