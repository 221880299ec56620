package main

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/config"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/urfave/cli/v3"
)

// StrategyRunner is what the surfaces need from strategy.Runner.
type StrategyRunner interface {
	Run(ctx context.Context, request strategy.Request) (*strategy.Result, error)
	Stocks() ([]string, error)
}

// app holds what every command shares once flags and config are resolved.
type app struct {
	config     config.Config
	logger     *logger.Logger
	dataSource datasource.DataSource
	runner     *strategy.Runner
}

// loadConfig reads the config file and applies flag overrides. The file is only required
// when --config was given explicitly.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return config.Config{}, err
	}

	if cmd.IsSet("data-dir") {
		cfg.DataDir = cmd.String("data-dir")
	}

	if cmd.IsSet("pattern") {
		cfg.Pattern = cmd.String("pattern")
	}

	if cmd.IsSet("short") {
		cfg.ShortWindow = int(cmd.Int("short"))
	}

	if cmd.IsSet("long") {
		cfg.LongWindow = int(cmd.Int("long"))
	}

	if cmd.IsSet("loader") {
		cfg.Loader = datasource.LoaderType(cmd.String("loader"))
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}

	if cmd.IsSet("log-file") {
		cfg.Log.OutputPaths = []string{cmd.String("log-file")}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newApp wires config, logger, catalog, data source and runner. Interactive commands
// drop terminal log sinks so log lines do not tear the screen.
func newApp(cmd *cli.Command, interactive bool, options ...datasource.CSVOption) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	outputs := cfg.Log.OutputPaths
	if interactive {
		outputs = fileOutputs(outputs)
	}

	log, err := logger.NewLoggerWithConfig(cfg.Log.Level, outputs)
	if err != nil {
		return nil, err
	}

	stocks, err := catalog.NewDirCatalog(cfg.DataDir, cfg.Pattern)
	if err != nil {
		return nil, err
	}

	dataSource, err := datasource.New(cfg.Loader, log, options...)
	if err != nil {
		return nil, err
	}

	runner, err := strategy.NewRunner(stocks, dataSource, cfg.ShortWindow, cfg.LongWindow, log)
	if err != nil {
		dataSource.Close()

		return nil, err
	}

	return &app{config: cfg, logger: log, dataSource: dataSource, runner: runner}, nil
}

// Close releases the data source and flushes the logger.
func (a *app) Close() error {
	_ = a.logger.Sync()

	return a.dataSource.Close()
}

func fileOutputs(outputs []string) []string {
	files := make([]string, 0, len(outputs))

	for _, output := range outputs {
		if output != "stdout" && output != "stderr" {
			files = append(files, output)
		}
	}

	return files
}

// today is the calendar date used for default date inputs.
func today() time.Time {
	return datasource.TruncateToDate(time.Now())
}
