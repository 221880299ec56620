package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func day(d int) time.Time {
	return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
}

func (suite *MarketTestSuite) TestCloses() {
	series := Series{
		{Date: day(1), Close: 10},
		{Date: day(2), Close: 11.5},
		{Date: day(3), Close: 9.25},
	}

	suite.Equal([]float64{10, 11.5, 9.25}, series.Closes())
	suite.Empty(Series{}.Closes())
}

func (suite *MarketTestSuite) TestFirstAndLast() {
	series := Series{
		{Date: day(1), Close: 10},
		{Date: day(2), Close: 11},
	}

	first, ok := series.First()
	suite.True(ok)
	suite.Equal(day(1), first.Date)

	last, ok := series.Last()
	suite.True(ok)
	suite.Equal(day(2), last.Date)

	_, ok = Series{}.First()
	suite.False(ok)

	_, ok = Series(nil).Last()
	suite.False(ok)
}
