package types

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type SmaTestSuite struct {
	suite.Suite
}

func TestSmaSuite(t *testing.T) {
	suite.Run(t, new(SmaTestSuite))
}

func (suite *SmaTestSuite) TestAt() {
	sma := SmaSeries{optional.None[float64](), optional.Some(2.5), optional.Some(math.NaN())}

	suite.True(sma.At(0).IsNone())
	suite.Equal(2.5, sma.At(1).Unwrap())
	suite.True(sma.At(2).IsNone(), "NaN is treated as undefined")
	suite.True(sma.At(-1).IsNone())
	suite.True(sma.At(3).IsNone())
}

func (suite *SmaTestSuite) TestFirstDefined() {
	suite.Equal(-1, SmaSeries{}.FirstDefined())
	suite.Equal(-1, SmaSeries{optional.None[float64]()}.FirstDefined())
	suite.Equal(2, SmaSeries{optional.None[float64](), optional.Some(math.NaN()), optional.Some(1.0)}.FirstDefined())
}
