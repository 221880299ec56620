package datasource

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// LoaderType selects a DataSource implementation.
type LoaderType string

const (
	// LoaderCSV streams the file through gocsv
	LoaderCSV LoaderType = "csv"
	// LoaderDuckDB queries the file with DuckDB's CSV reader
	LoaderDuckDB LoaderType = "duckdb"
)

// DataSource loads the daily price series of one stock file.
type DataSource interface {
	// Load reads the file at path and returns the points whose date lies in [start, end],
	// ascending by date with duplicate dates removed. Only the calendar date of start and
	// end is used.
	Load(ctx context.Context, path string, start time.Time, end time.Time) (types.Series, error)
	// Close closes the data source and releases any resources
	Close() error
}

// New creates the data source named by loaderType. CSV options are ignored by DuckDB.
func New(loaderType LoaderType, logger *logger.Logger, options ...CSVOption) (DataSource, error) {
	switch loaderType {
	case LoaderCSV, "":
		return NewCSVDataSource(logger, options...), nil
	case LoaderDuckDB:
		return NewDuckDBDataSource(logger)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown loader %q", loaderType)
	}
}
