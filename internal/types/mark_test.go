package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type MarkTestSuite struct {
	suite.Suite
}

func TestMarkSuite(t *testing.T) {
	suite.Run(t, new(MarkTestSuite))
}

func (suite *MarkTestSuite) TestMarkShapeConstants() {
	suite.Equal(MarkShape("circle"), MarkShapeCircle)
	suite.Equal(MarkShape("triangle_up"), MarkShapeTriangleUp)
	suite.Equal(MarkShape("triangle_down"), MarkShapeTriangleDown)
}

func (suite *MarkTestSuite) TestMarkStruct() {
	date := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)

	mark := Mark{
		Index:    210,
		Date:     date,
		Value:    132.25,
		Color:    MarkColorGreen,
		Shape:    MarkShapeTriangleUp,
		Title:    "Upward crossover",
		Message:  "50-day SMA crossed above 200-day SMA",
		Category: "crossover",
		Signal:   optional.Some(CrossoverSignalUpward),
	}

	suite.Equal(210, mark.Index)
	suite.Equal(date, mark.Date)
	suite.Equal(132.25, mark.Value)
	suite.Equal(MarkColorGreen, mark.Color)
	suite.Equal(MarkShapeTriangleUp, mark.Shape)
	suite.Equal("crossover", mark.Category)
	suite.True(mark.Signal.IsSome())
	suite.Equal(CrossoverSignalUpward, mark.Signal.Unwrap())
}

func (suite *MarkTestSuite) TestMarkZeroValues() {
	mark := Mark{}

	suite.Zero(mark.Index)
	suite.True(mark.Date.IsZero())
	suite.Empty(mark.Color)
	suite.Empty(string(mark.Shape))
	suite.Empty(mark.Title)
	suite.True(mark.Signal.IsNone())
}

func (suite *MarkTestSuite) TestMarkShapeInequality() {
	suite.NotEqual(MarkShapeCircle, MarkShapeTriangleUp)
	suite.NotEqual(MarkShapeTriangleUp, MarkShapeTriangleDown)
	suite.NotEqual(MarkShapeCircle, MarkShapeTriangleDown)
}
