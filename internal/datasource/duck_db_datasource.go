package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// dateExpression turns the raw DATE cell into a DATE, accepting the same spellings as DateLayouts.
const dateExpression = `COALESCE(
	TRY_CAST(TRIM("DATE") AS DATE),
	TRY_CAST(TRY_STRPTIME(TRIM("DATE"), '%Y/%m/%d') AS DATE),
	TRY_CAST(TRY_STRPTIME(TRIM("DATE"), '%m/%d/%Y') AS DATE)
) AS date`

// DuckDBDataSource reads price files through DuckDB's CSV reader. One in-memory
// connection is shared, so loads are serialised.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	mu     sync.Mutex
}

// NewDuckDBDataSource opens an in-memory DuckDB database.
func NewDuckDBDataSource(logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// validRow is the filter a parsed row must pass to become a PricePoint.
const validRow = "date IS NOT NULL AND close IS NOT NULL AND isfinite(close) AND close >= 0"

// priceRows selects every row of path with its parsed date and close.
func (d *DuckDBDataSource) priceRows(path string) squirrel.SelectBuilder {
	source := fmt.Sprintf(
		"read_csv_auto('%s', header = true, all_varchar = true)",
		strings.ReplaceAll(path, "'", "''"),
	)

	return d.sq.
		Select(dateExpression, `TRY_CAST(TRIM("CLOSE") AS DOUBLE) AS close`, "row_number() OVER () AS row_idx").
		From(source)
}

// buildCountQuery returns the SQL counting all rows of path and the valid ones.
func (d *DuckDBDataSource) buildCountQuery(path string) (string, []any, error) {
	return d.sq.
		Select("count(*) AS total", "count(*) FILTER (WHERE "+validRow+") AS valid").
		FromSelect(d.priceRows(path), "prices").
		ToSql()
}

// buildRangeQuery returns the SQL selecting the valid rows of path within [start, end].
func (d *DuckDBDataSource) buildRangeQuery(path string, start, end time.Time) (string, []any, error) {
	return d.sq.
		Select("date", "close").
		FromSelect(d.priceRows(path), "prices").
		Where(squirrel.NotEq{"date": nil}).
		Where(squirrel.NotEq{"close": nil}).
		Where(squirrel.Expr("isfinite(close)")).
		Where(squirrel.GtOrEq{"close": 0}).
		Where(squirrel.Expr("date >= CAST(? AS DATE)", start.Format("2006-01-02"))).
		Where(squirrel.Expr("date <= CAST(? AS DATE)", end.Format("2006-01-02"))).
		OrderBy("date ASC", "row_idx ASC").
		ToSql()
}

// checkRows fails when path has rows but none of them parse, matching the CSV loader.
func (d *DuckDBDataSource) checkRows(ctx context.Context, path string) error {
	query, params, err := d.buildCountQuery(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var total, valid int64
	if err := d.db.QueryRowContext(ctx, query, params...).Scan(&total, &valid); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query %s", path)
	}

	if total > 0 && valid == 0 {
		return errors.Newf(errors.ErrCodeMarketDataParseFailed, "%s has no rows with a valid DATE and CLOSE", path)
	}

	if skipped := total - valid; skipped > 0 {
		d.logger.Warn("Dropped price rows", zap.String("path", path), zap.Int64("malformed", skipped))
	}

	return nil
}

// Load implements DataSource.
func (d *DuckDBDataSource) Load(ctx context.Context, path string, start time.Time, end time.Time) (types.Series, error) {
	start, end = TruncateToDate(start), TruncateToDate(end)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrCodeStockNotFound, err, "price file %s not found", path)
		}

		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open %s", path)
	}

	query, params, err := d.buildRangeQuery(path, start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Debug("Querying price file with DuckDB", zap.String("path", path), zap.String("query", query))

	if err := d.checkRows(ctx, path); err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query %s", path)
	}
	defer rows.Close()

	series := make(types.Series, 0)

	for rows.Next() {
		var (
			date  time.Time
			price float64
		)

		if err := rows.Scan(&date, &price); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		series = append(series, types.PricePoint{Date: TruncateToDate(date), Close: price})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}

	series, duplicates := normalizeSeries(series)
	if duplicates > 0 {
		d.logger.Warn("Dropped duplicate dates", zap.String("path", path), zap.Int("duplicate_dates", duplicates))
	}

	return series, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
