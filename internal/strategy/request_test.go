package strategy

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RequestTestSuite struct {
	suite.Suite
}

func TestRequestSuite(t *testing.T) {
	suite.Run(t, new(RequestTestSuite))
}

func (suite *RequestTestSuite) TestNewRequest() {
	request, err := NewRequest(" AAPL.csv ", "2021-01-04", "2021/03/01")
	suite.Require().NoError(err)

	suite.Equal("AAPL.csv", request.Stock)
	suite.Equal(time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), request.Start)
	suite.Equal(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), request.End)
	suite.NoError(request.Validate())
}

func (suite *RequestTestSuite) TestNewRequestInvalidDates() {
	_, err := NewRequest("AAPL.csv", "", "2021-01-04")
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = NewRequest("AAPL.csv", "2021-01-04", "yesterday")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
	suite.Contains(errors.UserMessage(err), "end date")
}

func (suite *RequestTestSuite) TestValidateSameDay() {
	day := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)

	// A later clock on the start day is still the same calendar day
	request := Request{Stock: "AAPL.csv", Start: day.Add(20 * time.Hour), End: day}
	suite.NoError(request.Validate())
}

func (suite *RequestTestSuite) TestValidateStartAfterEnd() {
	request := Request{
		Stock: "AAPL.csv",
		Start: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	err := request.Validate()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
	suite.Equal("start date 2021-02-01 is after end date 2021-01-01", errors.UserMessage(err))
}
