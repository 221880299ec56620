package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestCrossoverSignalConstants() {
	suite.Equal(CrossoverSignal("none"), CrossoverSignalNone)
	suite.Equal(CrossoverSignal("upward_cross"), CrossoverSignalUpward)
	suite.Equal(CrossoverSignal("downward_cross"), CrossoverSignalDownward)
}

func (suite *SignalTestSuite) TestIsCross() {
	suite.False(CrossoverSignalNone.IsCross())
	suite.True(CrossoverSignalUpward.IsCross())
	suite.True(CrossoverSignalDownward.IsCross())
	suite.False(CrossoverSignal("").IsCross())
}
