// Package catalog lists the stock price files available for selection.
package catalog

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// DefaultPattern matches the price files of a catalog directory.
const DefaultPattern = "*.csv"

// Catalog enumerates stock identifiers and resolves them to readable files.
type Catalog interface {
	// List returns the available stock identifiers, sorted
	List() ([]string, error)
	// Resolve returns the file path of a stock identifier
	Resolve(id string) (string, error)
}

// DirCatalog is a Catalog backed by the files of one directory.
type DirCatalog struct {
	dir     string
	pattern string
	fsys    fs.FS
}

// NewDirCatalog creates a catalog over dir. An empty pattern selects DefaultPattern.
func NewDirCatalog(dir string, pattern string) (*DirCatalog, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid catalog pattern %q", pattern)
	}

	return &DirCatalog{
		dir:     dir,
		pattern: pattern,
		fsys:    os.DirFS(dir),
	}, nil
}

// Dir returns the catalog directory.
func (c *DirCatalog) Dir() string {
	return c.dir
}

// List implements Catalog.
func (c *DirCatalog) List() ([]string, error) {
	info, err := os.Stat(c.dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCatalogUnavailable, err, "stock directory %s is not readable", c.dir)
	}

	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrCodeCatalogUnavailable, "stock directory %s is not a directory", c.dir)
	}

	matches, err := doublestar.Glob(c.fsys, c.pattern)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCatalogUnavailable, err, "failed to list %s", c.dir)
	}

	stocks := make([]string, 0, len(matches))

	for _, match := range matches {
		// Only plain files in the directory itself are selectable
		if strings.Contains(match, "/") {
			continue
		}

		entry, err := fs.Stat(c.fsys, match)
		if err != nil || !entry.Mode().IsRegular() {
			continue
		}

		stocks = append(stocks, match)
	}

	sort.Strings(stocks)

	return stocks, nil
}

// Resolve implements Catalog.
func (c *DirCatalog) Resolve(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "no stock selected")
	}

	if id != path.Base(id) || id != filepath.Base(id) || id == "." || id == ".." {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "invalid stock identifier %q", id)
	}

	matched, err := doublestar.Match(c.pattern, id)
	if err != nil || !matched {
		return "", errors.Newf(errors.ErrCodeStockNotFound, "stock %s not found", id)
	}

	entry, err := fs.Stat(c.fsys, id)
	if err != nil || !entry.Mode().IsRegular() {
		return "", errors.Newf(errors.ErrCodeStockNotFound, "stock %s not found", id)
	}

	return filepath.Join(c.dir, id), nil
}

// DisplayName strips the file extension from a stock identifier.
func DisplayName(id string) string {
	return strings.TrimSuffix(id, filepath.Ext(id))
}
