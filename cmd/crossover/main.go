package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-crossover/internal/config"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/urfave/cli/v3"
)

// newCommand defines the CLI. Global flags override the config file.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "crossover",
		Usage:   "Moving average crossover strategy over daily stock prices",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   config.DefaultFileName,
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding one price CSV per stock",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Glob selecting the stock files inside the data directory",
			},
			&cli.IntFlag{
				Name:  "short",
				Usage: "Short moving average window in trading days",
			},
			&cli.IntFlag{
				Name:  "long",
				Usage: "Long moving average window in trading days",
			},
			&cli.StringFlag{
				Name:  "loader",
				Usage: fmt.Sprintf("Price file reader (%s or %s)", datasource.LoaderCSV, datasource.LoaderDuckDB),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file instead of the configured outputs",
			},
		},
		Action: dashboardAction,
		Commands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "Interactive terminal dashboard (default)",
				Action: dashboardAction,
			},
			{
				Name:  "run",
				Usage: "Run the strategy once and print the chart",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stock",
						Aliases:  []string{"s"},
						Usage:    "Stock file name, e.g. AAPL.csv",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "start",
						Usage:    "Start date in `YYYY-MM-DD` format",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "End date in `YYYY-MM-DD` format. Defaults to today.",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Do not show the loading progress bar",
					},
				},
				Action: runAction,
			},
			{
				Name:   "stocks",
				Usage:  "List the stocks in the data directory",
				Action: stocksAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the dashboard over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address, overrides server.addr",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Write the schema and a sample config into this directory instead",
					},
				},
				Action: schemaAction,
			},
			{
				Name:   "version",
				Usage:  "Print the version",
				Action: versionAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
		os.Exit(1)
	}
}
