package types

// CrossoverSignal classifies one series index by the relation of the short and long
// moving averages between the previous index and this one.
type CrossoverSignal string

const (
	// CrossoverSignalNone means no crossover, or not enough data to decide
	CrossoverSignalNone CrossoverSignal = "none"
	// CrossoverSignalUpward means the short average moved from at or below the long average to above it
	CrossoverSignalUpward CrossoverSignal = "upward_cross"
	// CrossoverSignalDownward means the short average moved from at or above the long average to below it
	CrossoverSignalDownward CrossoverSignal = "downward_cross"
)

// IsCross reports whether the signal is an upward or downward crossover.
func (s CrossoverSignal) IsCross() bool {
	return s == CrossoverSignalUpward || s == CrossoverSignalDownward
}
