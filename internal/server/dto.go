package server

import (
	"net/http"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// PointResponse is one trading day. Undefined averages are null.
type PointResponse struct {
	Date     string                `json:"date"`
	Close    float64               `json:"close"`
	ShortSMA *float64              `json:"short_sma"`
	LongSMA  *float64              `json:"long_sma"`
	Signal   types.CrossoverSignal `json:"signal"`
}

type CrossoverResponse struct {
	Index     int                   `json:"index"`
	Date      string                `json:"date"`
	Direction types.CrossoverSignal `json:"direction"`
	Value     float64               `json:"value"`
	Message   string                `json:"message"`
}

type StrategyResponse struct {
	RunID       string              `json:"run_id"`
	Stock       string              `json:"stock"`
	Title       string              `json:"title"`
	Start       string              `json:"start"`
	End         string              `json:"end"`
	ShortWindow int                 `json:"short_window"`
	LongWindow  int                 `json:"long_window"`
	Points      []PointResponse     `json:"points"`
	Crossovers  []CrossoverResponse `json:"crossovers"`
	Warnings    []string            `json:"warnings"`
}

type StockResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StocksResponse struct {
	Stocks []StockResponse `json:"stocks"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

func newStrategyResponse(result *strategy.Result) StrategyResponse {
	points := make([]PointResponse, len(result.Series))

	for i, point := range result.Series {
		points[i] = PointResponse{
			Date:     point.Date.Format(time.DateOnly),
			Close:    point.Close,
			ShortSMA: valuePtr(result.Short, i),
			LongSMA:  valuePtr(result.Long, i),
			Signal:   result.Signals[i],
		}
	}

	crossovers := make([]CrossoverResponse, 0, len(result.Marks))

	for _, mark := range result.Marks {
		crossovers = append(crossovers, CrossoverResponse{
			Index:     mark.Index,
			Date:      mark.Date.Format(time.DateOnly),
			Direction: mark.Signal.Unwrap(),
			Value:     mark.Value,
			Message:   mark.Message,
		})
	}

	return StrategyResponse{
		RunID:       result.RunID,
		Stock:       result.Stock,
		Title:       result.Title,
		Start:       result.Start.Format(time.DateOnly),
		End:         result.End.Format(time.DateOnly),
		ShortWindow: result.ShortWindow,
		LongWindow:  result.LongWindow,
		Points:      points,
		Crossovers:  crossovers,
		Warnings:    result.Warnings,
	}
}

func valuePtr(series types.SmaSeries, i int) *float64 {
	v := series.At(i)
	if v.IsNone() {
		return nil
	}

	value := v.Unwrap()

	return &value
}

func newStocksResponse(ids []string) StocksResponse {
	stocks := make([]StockResponse, len(ids))
	for i, id := range ids {
		stocks[i] = StockResponse{ID: id, Name: catalog.DisplayName(id)}
	}

	return StocksResponse{Stocks: stocks}
}

// statusCode maps an error to the HTTP status it is reported with.
func statusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeStockNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodeMissingParameter,
		errors.ErrCodeInvalidDateRange,
		errors.ErrCodeInvalidPeriod:
		return http.StatusBadRequest
	case errors.ErrCodeEmptyRange:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
