package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rxtech-lab/argo-crossover/internal/config"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand runs the CLI with args and returns what it wrote to stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newCommand()
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard

	err := cmd.Run(context.Background(), append([]string{"crossover"}, args...))

	return out.String(), err
}

func dataDirArgs(dir string) []string {
	return []string{"--data-dir", dir, "--short", "2", "--long", "3", "--log-level", "error"}
}

func TestStocksCommand(t *testing.T) {
	t.Run("lists stock files", func(t *testing.T) {
		dir := t.TempDir()
		writeVShape(t, dir, "VSHAPE.csv")
		writeVShape(t, dir, "AAPL.csv")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("notes"), 0o600))

		out, err := runCommand(t, append(dataDirArgs(dir), "stocks")...)
		require.NoError(t, err)

		assert.Equal(t, "AAPL.csv\nVSHAPE.csv\n", out)
	})

	t.Run("empty directory", func(t *testing.T) {
		dir := t.TempDir()

		out, err := runCommand(t, append(dataDirArgs(dir), "stocks")...)
		require.NoError(t, err)

		assert.Contains(t, out, "No stocks found in")
	})
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeVShape(t, dir, "VSHAPE.csv")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ONEDAY.csv"), []byte("DATE,CLOSE\n2021-01-04,10\n"), 0o600))

	t.Run("prints chart and crossovers", func(t *testing.T) {
		out, err := runCommand(t, append(dataDirArgs(dir),
			"run", "--stock", "VSHAPE.csv", "--start", "2021-01-01", "--end", "2021-01-31", "--no-progress")...)
		require.NoError(t, err)

		assert.Contains(t, out, "VSHAPE Stock prices")
		assert.Contains(t, out, "2021-01-05")
		assert.Contains(t, out, "Upward crossover")
		assert.Contains(t, out, "2021-01-08")
		assert.Contains(t, out, "Downward crossover")

		plain := ansi.Strip(out)
		assert.Equal(t, 1, strings.Count(plain, "VSHAPE Stock prices"))
		assert.Equal(t, 1, strings.Count(plain, "Closing price"))
	})

	t.Run("short range prints warnings", func(t *testing.T) {
		out, err := runCommand(t, append(dataDirArgs(dir),
			"run", "--stock", "ONEDAY.csv", "--start", "2021-01-01", "--end", "2021-01-31", "--no-progress")...)
		require.NoError(t, err)

		assert.Contains(t, out, "only 1 trading days in range")
		assert.Contains(t, out, "No crossovers in range")
	})

	t.Run("progress bar does not touch stdout", func(t *testing.T) {
		out, err := runCommand(t, append(dataDirArgs(dir),
			"run", "--stock", "VSHAPE.csv", "--start", "2021-01-01", "--end", "2021-01-31")...)
		require.NoError(t, err)

		assert.NotContains(t, out, "Loading prices")
	})

	t.Run("unknown stock", func(t *testing.T) {
		_, err := runCommand(t, append(dataDirArgs(dir),
			"run", "--stock", "MSFT.csv", "--start", "2021-01-01", "--no-progress")...)
		require.Error(t, err)

		assert.True(t, errors.HasCode(err, errors.ErrCodeStockNotFound))
	})

	t.Run("invalid start date", func(t *testing.T) {
		_, err := runCommand(t, append(dataDirArgs(dir),
			"run", "--stock", "VSHAPE.csv", "--start", "January", "--no-progress")...)
		require.Error(t, err)

		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := runCommand(t, append(dataDirArgs(dir),
			"run", "--stock", "VSHAPE.csv", "--start", "2021-02-01", "--end", "2021-01-01", "--no-progress")...)
		require.Error(t, err)

		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidDateRange))
	})

	t.Run("empty range", func(t *testing.T) {
		_, err := runCommand(t, append(dataDirArgs(dir),
			"run", "--stock", "VSHAPE.csv", "--start", "2022-01-01", "--end", "2022-01-31", "--no-progress")...)
		require.Error(t, err)

		assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyRange))
	})

	t.Run("short window must be below long window", func(t *testing.T) {
		_, err := runCommand(t, "--data-dir", dir, "--short", "5", "--long", "3",
			"run", "--stock", "VSHAPE.csv", "--start", "2021-01-01", "--no-progress")
		require.Error(t, err)

		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
	})
}

func TestConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	writeVShape(t, dir, "VSHAPE.csv")

	path := filepath.Join(t.TempDir(), "crossover.yaml")
	content := "data_dir: " + dir + "\nshort_window: 2\nlong_window: 3\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := runCommand(t, "--config", path, "stocks")
	require.NoError(t, err)
	assert.Equal(t, "VSHAPE.csv\n", out)

	_, err = runCommand(t, "--config", filepath.Join(dir, "missing.yaml"), "stocks")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestSchemaCommand(t *testing.T) {
	out, err := runCommand(t, "schema")
	require.NoError(t, err)

	assert.Contains(t, out, `"data_dir"`)
	assert.Contains(t, out, `"short_window"`)
}

func TestSchemaCommandWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	out, err := runCommand(t, "schema", "--output-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join(dir, config.SchemaFileName))
	assert.FileExists(t, filepath.Join(dir, config.SchemaFileName))
	assert.FileExists(t, filepath.Join(dir, config.SampleFileName))
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)

	assert.Equal(t, version.GetVersion()+"\n", out)
}

func TestFileOutputs(t *testing.T) {
	assert.Equal(t, []string{"/tmp/crossover.log"}, fileOutputs([]string{"stderr", "/tmp/crossover.log", "stdout"}))
	assert.Empty(t, fileOutputs([]string{"stderr"}))
}
