package strategy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	loggerpkg "github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/marker"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// Result is the outcome of one strategy run. Series, Short, Long and Signals share
// the same length and indexing.
type Result struct {
	RunID       string
	Stock       string
	Title       string
	Start       time.Time
	End         time.Time
	ShortWindow int
	LongWindow  int
	Series      types.Series
	Short       types.SmaSeries
	Long        types.SmaSeries
	Signals     []types.CrossoverSignal
	Marks       []types.Mark
	// Warnings are user-facing notes about a run that still succeeded
	Warnings []string
	Duration time.Duration
}

// Crossovers returns the indices carrying an upward or downward signal.
func (r *Result) Crossovers() []int {
	return indicator.CrossoverIndices(r.Signals)
}

// MarkerFactory creates the marker a single run records its crossovers with.
type MarkerFactory func(shortWindow, longWindow int) marker.Marker

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMarkerFactory replaces the in-memory marker.
func WithMarkerFactory(factory MarkerFactory) RunnerOption {
	return func(r *Runner) {
		r.newMarker = factory
	}
}

// Runner wires the catalog, the data source and the crossover detector together.
// It holds no per-run state and can serve concurrent runs when its data source can.
type Runner struct {
	catalog    catalog.Catalog
	dataSource datasource.DataSource
	crossover  *indicator.Crossover
	logger     *loggerpkg.Logger
	newMarker  MarkerFactory
}

// NewRunner creates a runner using the given moving average windows.
func NewRunner(
	catalog catalog.Catalog,
	dataSource datasource.DataSource,
	shortWindow int,
	longWindow int,
	logger *loggerpkg.Logger,
	options ...RunnerOption,
) (*Runner, error) {
	if catalog == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "catalog is required")
	}

	if dataSource == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "data source is required")
	}

	crossover, err := indicator.NewCrossover(shortWindow, longWindow)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = loggerpkg.NewNopLogger()
	}

	r := &Runner{
		catalog:    catalog,
		dataSource: dataSource,
		crossover:  crossover,
		logger:     logger,
		newMarker: func(shortWindow, longWindow int) marker.Marker {
			return marker.NewInMemoryMarker(shortWindow, longWindow)
		},
	}

	for _, option := range options {
		option(r)
	}

	return r, nil
}

// ShortWindow returns the short moving average window.
func (r *Runner) ShortWindow() int {
	return r.crossover.ShortWindow()
}

// LongWindow returns the long moving average window.
func (r *Runner) LongWindow() int {
	return r.crossover.LongWindow()
}

// Stocks lists the stock ids the runner can be asked about.
func (r *Runner) Stocks() ([]string, error) {
	return r.catalog.List()
}

// Run executes the crossover strategy for the request.
func (r *Runner) Run(ctx context.Context, request Request) (*Result, error) {
	began := time.Now()

	if err := request.Validate(); err != nil {
		return nil, err
	}

	request = request.Normalize()
	runID := uuid.New().String()

	log := r.logger.With(
		zap.String("run_id", runID),
		zap.String("stock", request.Stock),
		zap.Time("start", request.Start),
		zap.Time("end", request.End),
	)

	path, err := r.catalog.Resolve(request.Stock)
	if err != nil {
		log.Warn("Failed to resolve stock", zap.Error(err))

		return nil, err
	}

	series, err := r.dataSource.Load(ctx, path, request.Start, request.End)
	if err != nil {
		// The file was removed after the catalog listed it.
		if errors.HasCode(err, errors.ErrCodeStockNotFound) {
			log.Warn("Price file disappeared", zap.String("path", path), zap.Error(err))

			return nil, err
		}

		log.Error("Failed to load prices", zap.String("path", path), zap.Error(err))

		return nil, err
	}

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyRange,
			"no trading days for %s between %s and %s",
			catalog.DisplayName(request.Stock),
			request.Start.Format(time.DateOnly),
			request.End.Format(time.DateOnly),
		)
	}

	analysis, err := r.crossover.Analyze(series)
	if err != nil {
		log.Error("Failed to compute moving averages", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "failed to compute moving averages", err)
	}

	markers := r.newMarker(r.ShortWindow(), r.LongWindow())

	for i, signal := range analysis.Signals {
		if !signal.IsCross() {
			continue
		}

		// Drawn on the short average, where the two lines meet
		if err := markers.Mark(i, series[i], signal, analysis.Short.At(i).Unwrap()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "failed to mark crossover", err)
		}
	}

	marks, err := markers.GetMarkers()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "failed to collect crossover marks", err)
	}

	result := &Result{
		RunID:       runID,
		Stock:       request.Stock,
		Title:       catalog.DisplayName(request.Stock),
		Start:       request.Start,
		End:         request.End,
		ShortWindow: r.ShortWindow(),
		LongWindow:  r.LongWindow(),
		Series:      series,
		Short:       analysis.Short,
		Long:        analysis.Long,
		Signals:     analysis.Signals,
		Marks:       marks,
		Warnings:    r.warnings(request.Stock, len(series)),
	}
	result.Duration = time.Since(began)

	log.Info("Strategy run finished",
		zap.Int("rows", len(series)),
		zap.Int("crossovers", len(marks)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// warnings reports every moving average the series is too short to define.
func (r *Runner) warnings(stock string, rows int) []string {
	warnings := make([]string, 0)

	for _, window := range []int{r.ShortWindow(), r.LongWindow()} {
		if rows >= window {
			continue
		}

		warning := errors.NewInsufficientDataErrorf(window, rows, stock,
			"only %d trading days in range: the %d-day SMA needs at least %d, so it is not drawn and no crossovers are possible",
			rows, window, window)
		warnings = append(warnings, warning.Error())
	}

	return warnings
}
