package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type MarkShape string

const (
	MarkShapeCircle       MarkShape = "circle"
	MarkShapeTriangleUp   MarkShape = "triangle_up"
	MarkShapeTriangleDown MarkShape = "triangle_down"
)

type MarkColor string

const (
	MarkColorRed   MarkColor = "red"
	MarkColorGreen MarkColor = "green"
	MarkColorBlue  MarkColor = "blue"
)

// Mark annotates one point of a chart.
type Mark struct {
	// Index is the position in the series the mark belongs to
	Index int
	// Date is the date of the marked point
	Date time.Time
	// Value is the y value the mark is drawn at
	Value    float64
	Color    MarkColor
	Shape    MarkShape
	Title    string
	Message  string
	Category string
	Signal   optional.Option[CrossoverSignal]
}
