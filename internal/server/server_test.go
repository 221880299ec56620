package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	dir := suite.T().TempDir()

	var vshape strings.Builder

	vshape.WriteString("DATE,CLOSE\n")

	for i, c := range []float64{5, 4, 3, 4, 5, 6, 5, 4, 3} {
		fmt.Fprintf(&vshape, "2021-01-%02d,%g\n", i+1, c)
	}

	suite.writeFile(dir, "VSHAPE.csv", vshape.String())
	suite.writeFile(dir, "SHORT.csv", "DATE,CLOSE\n2021-01-04,10\n")
	suite.writeFile(dir, "README.txt", "not a stock")

	stocks, err := catalog.NewDirCatalog(dir, catalog.DefaultPattern)
	suite.Require().NoError(err)

	runner, err := strategy.NewRunner(stocks, datasource.NewCSVDataSource(logger.NewNopLogger()), 2, 3, logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.server = New(runner, logger.NewNopLogger(),
		WithClock(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }))
}

func (suite *ServerTestSuite) writeFile(dir, name, content string) {
	suite.Require().NoError(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func (suite *ServerTestSuite) get(target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	return recorder
}

func (suite *ServerTestSuite) decodeError(recorder *httptest.ResponseRecorder) ErrorResponse {
	var response ErrorResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))

	return response
}

func (suite *ServerTestSuite) TestHealth() {
	recorder := suite.get("/healthz")

	suite.Equal(http.StatusOK, recorder.Code)
	suite.JSONEq(`{"status":"ok"}`, recorder.Body.String())
}

func (suite *ServerTestSuite) TestStocks() {
	recorder := suite.get("/api/stocks")
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var response StocksResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))

	suite.Equal([]StockResponse{
		{ID: "SHORT.csv", Name: "SHORT"},
		{ID: "VSHAPE.csv", Name: "VSHAPE"},
	}, response.Stocks)
}

func (suite *ServerTestSuite) TestStrategy() {
	recorder := suite.get("/api/strategy?stock=VSHAPE.csv&start=2021-01-01&end=2021-01-31")
	suite.Require().Equal(http.StatusOK, recorder.Code)
	suite.Equal("application/json", recorder.Header().Get("Content-Type"))

	var response StrategyResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))

	suite.NotEmpty(response.RunID)
	suite.Equal("VSHAPE", response.Title)
	suite.Equal("2021-01-01", response.Start)
	suite.Equal("2021-01-31", response.End)
	suite.Equal(2, response.ShortWindow)
	suite.Equal(3, response.LongWindow)
	suite.Empty(response.Warnings)

	suite.Require().Len(response.Points, 9)
	suite.Nil(response.Points[0].ShortSMA)
	suite.Nil(response.Points[1].LongSMA)
	suite.Require().NotNil(response.Points[1].ShortSMA)
	suite.Equal(4.5, *response.Points[1].ShortSMA)
	suite.Equal(types.CrossoverSignalUpward, response.Points[4].Signal)

	suite.Require().Len(response.Crossovers, 2)
	suite.Equal(4, response.Crossovers[0].Index)
	suite.Equal("2021-01-05", response.Crossovers[0].Date)
	suite.Equal(types.CrossoverSignalUpward, response.Crossovers[0].Direction)
	suite.Equal(types.CrossoverSignalDownward, response.Crossovers[1].Direction)
}

func (suite *ServerTestSuite) TestStrategyErrors() {
	cases := []struct {
		name   string
		target string
		status int
		code   errors.ErrorCode
	}{
		{"unknown stock", "/api/strategy?stock=NOPE.csv&start=2021-01-01&end=2021-01-31", http.StatusNotFound, errors.ErrCodeStockNotFound},
		{"path traversal", "/api/strategy?stock=../VSHAPE.csv&start=2021-01-01&end=2021-01-31", http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"bad date", "/api/strategy?stock=VSHAPE.csv&start=soon&end=2021-01-31", http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"missing date", "/api/strategy?stock=VSHAPE.csv&end=2021-01-31", http.StatusBadRequest, errors.ErrCodeMissingParameter},
		{"reversed range", "/api/strategy?stock=VSHAPE.csv&start=2021-02-01&end=2021-01-01", http.StatusBadRequest, errors.ErrCodeInvalidDateRange},
		{"empty range", "/api/strategy?stock=VSHAPE.csv&start=1999-01-01&end=1999-12-31", http.StatusUnprocessableEntity, errors.ErrCodeEmptyRange},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			recorder := suite.get(tc.target)
			suite.Equal(tc.status, recorder.Code)

			response := suite.decodeError(recorder)
			suite.Equal(tc.code, response.Error.Code)
			suite.NotEmpty(response.Error.Message)
		})
	}
}

func (suite *ServerTestSuite) TestStrategyRejectsPost() {
	recorder := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/strategy", nil))

	suite.Equal(http.StatusMethodNotAllowed, recorder.Code)
}

func (suite *ServerTestSuite) TestChart() {
	recorder := suite.get("/chart.svg?stock=VSHAPE.csv&start=2021-01-01&end=2021-01-31")

	suite.Require().Equal(http.StatusOK, recorder.Code)
	suite.Equal("image/svg+xml", recorder.Header().Get("Content-Type"))
	suite.True(strings.HasPrefix(recorder.Body.String(), "<svg"))
	suite.Contains(recorder.Body.String(), "VSHAPE Stock prices")

	missing := suite.get("/chart.svg?stock=NOPE.csv&start=2021-01-01&end=2021-01-31")
	suite.Equal(http.StatusNotFound, missing.Code)
}

func (suite *ServerTestSuite) TestIndexForm() {
	recorder := suite.get("/")

	suite.Require().Equal(http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	suite.Contains(body, "Stock Trading Strategy Simulation")
	suite.Contains(body, "Run Strategy")
	suite.Contains(body, `<option value="SHORT.csv">SHORT.csv</option>`)
	suite.Contains(body, `<option value="VSHAPE.csv">VSHAPE.csv</option>`)
	suite.NotContains(body, "README.txt")
	suite.Contains(body, `value="2023-06-15"`)
	suite.Contains(body, `value="2024-06-15"`)
	suite.NotContains(body, "Running strategy")
	suite.NotContains(body, "<svg")
}

func (suite *ServerTestSuite) TestIndexRun() {
	recorder := suite.get("/?stock=VSHAPE.csv&start=2021-01-01&end=2021-01-31")

	suite.Require().Equal(http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	suite.Contains(body, "Running strategy on VSHAPE.csv from 2021-01-01 to 2021-01-31...")
	suite.Contains(body, `<option value="VSHAPE.csv" selected>`)
	suite.Contains(body, "<svg")
	suite.Contains(body, `<tr class="upward_cross"><td>2021-01-05</td><td>Upward crossover</td><td>4.50</td>`)
	suite.Contains(body, `<tr class="downward_cross"><td>2021-01-08</td>`)
}

func (suite *ServerTestSuite) TestIndexShowsErrorsInPage() {
	recorder := suite.get("/?stock=VSHAPE.csv&start=1999-01-01&end=1999-01-02")

	suite.Equal(http.StatusUnprocessableEntity, recorder.Code)
	suite.Contains(recorder.Body.String(), `<p class="error">no trading days for VSHAPE between 1999-01-01 and 1999-01-02</p>`)
	suite.NotContains(recorder.Body.String(), "<svg")
}

func (suite *ServerTestSuite) TestIndexShowsWarnings() {
	recorder := suite.get("/?stock=SHORT.csv&start=2021-01-01&end=2021-01-31")

	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), `<p class="warning">only 1 trading days in range`)
	suite.Contains(recorder.Body.String(), "No crossovers in range")
}

func (suite *ServerTestSuite) TestMetrics() {
	suite.Require().Equal(http.StatusOK, suite.get("/api/strategy?stock=VSHAPE.csv&start=2021-01-01&end=2021-01-31").Code)
	suite.Require().Equal(http.StatusNotFound, suite.get("/api/strategy?stock=NOPE.csv&start=2021-01-01&end=2021-01-31").Code)

	recorder := suite.get("/metrics")
	suite.Require().Equal(http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	suite.Contains(body, `crossover_strategy_runs_total{outcome="ok"} 1`)
	suite.Contains(body, `crossover_strategy_runs_total{outcome="stock_not_found"} 1`)
	suite.Contains(body, `crossover_signals_total{direction="upward_cross"} 1`)
	suite.Contains(body, `crossover_signals_total{direction="downward_cross"} 1`)
	suite.Contains(body, `crossover_http_requests_total{code="200",route="/api/strategy"} 1`)
	suite.Contains(body, `crossover_http_requests_total{code="404",route="/api/strategy"} 1`)
}

func (suite *ServerTestSuite) TestMetricsSkipDurationForRejectedRequests() {
	suite.Require().Equal(http.StatusBadRequest, suite.get("/api/strategy?stock=VSHAPE.csv&start=soon&end=2021-01-31").Code)

	body := suite.get("/metrics").Body.String()
	suite.Contains(body, `crossover_strategy_runs_total{outcome="invalid_request"} 1`)
	suite.Contains(body, "crossover_strategy_run_duration_seconds_count 0")

	suite.Require().Equal(http.StatusOK, suite.get("/api/strategy?stock=VSHAPE.csv&start=2021-01-01&end=2021-01-31").Code)

	body = suite.get("/metrics").Body.String()
	suite.Contains(body, "crossover_strategy_run_duration_seconds_count 1")
}

func (suite *ServerTestSuite) TestStartAndStop() {
	suite.Require().NoError(suite.server.Start("127.0.0.1:0"))
	defer func() {
		suite.NoError(suite.server.Stop())
	}()

	suite.NotEmpty(suite.server.Address())

	response, err := http.Get(suite.server.BaseURL() + "/healthz")
	suite.Require().NoError(err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, response.StatusCode)
	suite.JSONEq(`{"status":"ok"}`, string(body))
}

func (suite *ServerTestSuite) TestStatusCode() {
	suite.Equal(http.StatusNotFound, statusCode(errors.New(errors.ErrCodeStockNotFound, "x")))
	suite.Equal(http.StatusBadRequest, statusCode(errors.New(errors.ErrCodeInvalidPeriod, "x")))
	suite.Equal(http.StatusUnprocessableEntity, statusCode(errors.New(errors.ErrCodeEmptyRange, "x")))
	suite.Equal(http.StatusInternalServerError, statusCode(errors.New(errors.ErrCodeQueryFailed, "x")))
	suite.Equal(http.StatusInternalServerError, statusCode(io.EOF))
}
