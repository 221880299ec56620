package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/render"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// run builds a request from the query string and runs it.
func (s *Server) run(r *http.Request) (*strategy.Result, error) {
	query := r.URL.Query()

	request, err := strategy.NewRequest(query.Get("stock"), query.Get("start"), query.Get("end"))
	if err != nil {
		s.metrics.ObserveRejected(err)

		return nil, err
	}

	began := time.Now()
	result, err := s.runner.Run(r.Context(), request)
	s.metrics.ObserveRun(result, err, time.Since(began))

	return result, err
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusCode(err), ErrorResponse{
		Error: ErrorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)},
	})
}

// handleIndex serves the dashboard page. With a stock in the query it also runs the
// strategy and embeds the chart.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	today := s.now().UTC()

	data := pageData{
		Title: pageTitle,
		Stock: query.Get("stock"),
		Start: valueOr(query.Get("start"), today.AddDate(-1, 0, 0).Format(time.DateOnly)),
		End:   valueOr(query.Get("end"), today.Format(time.DateOnly)),
	}
	status := http.StatusOK

	ids, err := s.runner.Stocks()
	if err != nil {
		data.Error = errors.UserMessage(err)
		status = statusCode(err)
	}

	for _, id := range ids {
		data.Stocks = append(data.Stocks, pageStock{ID: id, Name: catalog.DisplayName(id)})
	}

	if err == nil && query.Has("stock") {
		data.Running = true

		result, runErr := s.run(r)
		if runErr != nil {
			data.Error = errors.UserMessage(runErr)
			status = statusCode(runErr)
		} else if chartErr := s.fillChart(&data, result); chartErr != nil {
			data.Error = errors.UserMessage(chartErr)
			status = statusCode(chartErr)
		}
	}

	var body bytes.Buffer
	if err := pageTemplate.Execute(&body, data); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body.Bytes())
}

func (s *Server) fillChart(data *pageData, result *strategy.Result) error {
	var chart bytes.Buffer
	if err := render.SVG(&chart, result, s.svgOptions); err != nil {
		return err
	}

	data.Chart = template.HTML(chart.String()) //nolint:gosec // text nodes are escaped by the renderer
	data.Warnings = result.Warnings

	for _, mark := range result.Marks {
		data.Crossovers = append(data.Crossovers, pageCrossover{
			Date:      mark.Date.Format(time.DateOnly),
			Title:     mark.Title,
			Direction: string(mark.Signal.Unwrap()),
			Value:     fmt.Sprintf("%.2f", mark.Value),
			Message:   mark.Message,
		})
	}

	return nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	result, err := s.run(r)
	if err != nil {
		http.Error(w, errors.UserMessage(err), statusCode(err))

		return
	}

	var chart bytes.Buffer
	if err := render.SVG(&chart, result, s.svgOptions); err != nil {
		http.Error(w, errors.UserMessage(err), statusCode(err))

		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(chart.Bytes())
}

func (s *Server) handleStocks(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.runner.Stocks()
	if err != nil {
		s.writeJSONError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, newStocksResponse(ids))
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	result, err := s.run(r)
	if err != nil {
		s.writeJSONError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, newStrategyResponse(result))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
