package datasource

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (suite *UtilsTestSuite) TestParseDate() {
	testCases := []struct {
		input    string
		expected time.Time
	}{
		{input: "2021-03-04", expected: date(2021, 3, 4)},
		{input: " 2021-03-04 ", expected: date(2021, 3, 4)},
		{input: "2021/03/04", expected: date(2021, 3, 4)},
		{input: "03/04/2021", expected: date(2021, 3, 4)},
		{input: "2021-03-04 16:00:00", expected: date(2021, 3, 4)},
		{input: "2021-03-04T16:00:00Z", expected: date(2021, 3, 4)},
	}

	for _, tc := range testCases {
		suite.Run(tc.input, func() {
			parsed, err := ParseDate(tc.input)
			suite.NoError(err)
			suite.Equal(tc.expected, parsed)
		})
	}
}

func (suite *UtilsTestSuite) TestParseDateInvalid() {
	for _, input := range []string{"", "yesterday", "2021-13-01", "04.03.2021"} {
		_, err := ParseDate(input)
		suite.Error(err, input)
		suite.True(errors.HasCode(err, errors.ErrCodeMarketDataParseFailed))
	}
}

func (suite *UtilsTestSuite) TestParsePrice() {
	price, err := ParsePrice("123.45")
	suite.NoError(err)
	suite.Equal(123.45, price)

	price, err = ParsePrice(" 7 ")
	suite.NoError(err)
	suite.Equal(7.0, price)

	price, err = ParsePrice("0")
	suite.NoError(err)
	suite.Zero(price)
}

func (suite *UtilsTestSuite) TestParsePriceInvalid() {
	for _, input := range []string{"", "n/a", "NaN", "-1.5", "1,234.00"} {
		_, err := ParsePrice(input)
		suite.Error(err, input)
	}
}

func (suite *UtilsTestSuite) TestTruncateToDate() {
	t := time.Date(2021, 3, 4, 23, 59, 59, 999, time.UTC)
	suite.Equal(date(2021, 3, 4), TruncateToDate(t))
}

func (suite *UtilsTestSuite) TestInRangeIsInclusive() {
	start, end := date(2021, 1, 1), date(2021, 1, 31)

	suite.True(inRange(start, start, end))
	suite.True(inRange(end, start, end))
	suite.True(inRange(date(2021, 1, 15), start, end))
	suite.False(inRange(date(2020, 12, 31), start, end))
	suite.False(inRange(date(2021, 2, 1), start, end))
}

func (suite *UtilsTestSuite) TestNormalizeSeries() {
	series := types.Series{
		{Date: date(2021, 1, 3), Close: 3},
		{Date: date(2021, 1, 1), Close: 1},
		{Date: date(2021, 1, 2), Close: 2},
		{Date: date(2021, 1, 1), Close: 99},
		{Date: date(2021, 1, 3), Close: 98},
	}

	normalized, duplicates := normalizeSeries(series)

	suite.Equal(2, duplicates)
	suite.Equal(types.Series{
		{Date: date(2021, 1, 1), Close: 1},
		{Date: date(2021, 1, 2), Close: 2},
		{Date: date(2021, 1, 3), Close: 3},
	}, normalized)
}

func (suite *UtilsTestSuite) TestNormalizeEmptySeries() {
	normalized, duplicates := normalizeSeries(types.Series{})
	suite.Empty(normalized)
	suite.Zero(duplicates)
}

func (suite *UtilsTestSuite) TestNewDataSource() {
	csvSource, err := New(LoaderCSV, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.IsType(&CSVDataSource{}, csvSource)

	duckSource, err := New(LoaderDuckDB, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.IsType(&DuckDBDataSource{}, duckSource)
	suite.NoError(duckSource.Close())

	_, err = New("parquet", logger.NewNopLogger())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
