package datasource

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// csvRow is one line of a price file. Cells are kept as strings so a malformed cell
// skips its row instead of failing the whole file.
type csvRow struct {
	Date  string `csv:"DATE"`
	Close string `csv:"CLOSE"`
}

// ReaderWrapper wraps the opened file before it is decoded. size is the file size in bytes.
type ReaderWrapper func(r io.Reader, size int64) io.Reader

// CSVOption configures a CSVDataSource.
type CSVOption func(*CSVDataSource)

// WithReaderWrapper installs a wrapper around every opened file, e.g. a progress reader.
func WithReaderWrapper(wrapper ReaderWrapper) CSVOption {
	return func(c *CSVDataSource) {
		c.wrapReader = wrapper
	}
}

// CSVDataSource streams a price file row by row and keeps the rows inside the range.
type CSVDataSource struct {
	logger     *logger.Logger
	wrapReader ReaderWrapper
}

// NewCSVDataSource creates a CSV data source.
func NewCSVDataSource(logger *logger.Logger, options ...CSVOption) DataSource {
	c := &CSVDataSource{
		logger: logger,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Load implements DataSource.
func (c *CSVDataSource) Load(ctx context.Context, path string, start time.Time, end time.Time) (types.Series, error) {
	start, end = TruncateToDate(start), TruncateToDate(end)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrCodeStockNotFound, err, "price file %s not found", path)
		}

		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open %s", path)
	}
	defer file.Close()

	var reader io.Reader = file

	if c.wrapReader != nil {
		size := int64(-1)
		if info, statErr := file.Stat(); statErr == nil {
			size = info.Size()
		}

		reader = c.wrapReader(file, size)
	}

	c.logger.Debug("Loading price file", zap.String("path", path), zap.Time("start", start), zap.Time("end", end))

	rows := make(chan csvRow)
	decodeErr := make(chan error, 1)

	go func() {
		// UnmarshalToChan closes rows once the file is consumed
		decodeErr <- gocsv.UnmarshalToChan(reader, rows)
	}()

	series := make(types.Series, 0)
	total, skipped := 0, 0

	for row := range rows {
		total++

		// Keep draining so the decoder goroutine can finish
		if ctx.Err() != nil {
			continue
		}

		date, err := ParseDate(row.Date)
		if err != nil {
			skipped++

			continue
		}

		price, err := ParsePrice(row.Close)
		if err != nil {
			skipped++

			continue
		}

		if !inRange(date, start, end) {
			continue
		}

		series = append(series, types.PricePoint{Date: date, Close: price})
	}

	if err := <-decodeErr; err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to read %s", path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if total > 0 && skipped == total {
		return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "%s has no rows with a valid DATE and CLOSE", path)
	}

	series, duplicates := normalizeSeries(series)

	if skipped > 0 || duplicates > 0 {
		c.logger.Warn("Dropped price rows",
			zap.String("path", path),
			zap.Int("malformed", skipped),
			zap.Int("duplicate_dates", duplicates),
		)
	}

	c.logger.Debug("Loaded price file",
		zap.String("path", path),
		zap.Int("rows", total),
		zap.Int("in_range", len(series)),
	)

	return series, nil
}

// Close implements DataSource.
func (c *CSVDataSource) Close() error {
	return nil
}
