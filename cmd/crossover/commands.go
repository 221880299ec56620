package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/config"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/render"
	"github.com/rxtech-lab/argo-crossover/internal/server"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func dashboardAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	model := NewModel(ctx, a.runner, today(), a.config.Chart)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	return nil
}

// progressReader shows a byte progress bar on w while a price file is read.
func progressReader(w io.Writer) datasource.ReaderWrapper {
	return func(r io.Reader, size int64) io.Reader {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetDescription("Loading prices"),
			progressbar.OptionSetWriter(w),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		reader := progressbar.NewReader(r, bar)

		return &reader
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	end := cmd.String("end")
	if end == "" {
		end = today().Format(time.DateOnly)
	}

	request, err := strategy.NewRequest(cmd.String("stock"), cmd.String("start"), end)
	if err != nil {
		return err
	}

	var options []datasource.CSVOption
	if !cmd.Bool("no-progress") {
		options = append(options, datasource.WithReaderWrapper(progressReader(cmd.Root().ErrWriter)))
	}

	a, err := newApp(cmd, false, options...)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.runner.Run(ctx, request)
	if err != nil {
		return err
	}

	return printResult(cmd.Root().Writer, result, a.config.Chart)
}

func printResult(w io.Writer, result *strategy.Result, chart config.ChartConfig) error {
	var b strings.Builder

	b.WriteString(render.Terminal(result, render.TerminalOptions{Width: chart.Width, Height: chart.Height}))
	b.WriteString("\n\n")

	for _, warning := range result.Warnings {
		b.WriteString(WarningStyle.Render("! " + warning))
		b.WriteString("\n")
	}

	b.WriteString(render.Crossovers(result))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())

	return err
}

func stocksAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stocks, err := catalog.NewDirCatalog(cfg.DataDir, cfg.Pattern)
	if err != nil {
		return err
	}

	ids, err := stocks.List()
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if len(ids) == 0 {
		_, err = fmt.Fprintf(w, "No stocks found in %s\n", stocks.Dir())

		return err
	}

	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}

	return nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.config.Server.Addr
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.runner, a.logger)
	if err := srv.Start(addr); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Serving dashboard on %s\n", srv.BaseURL())

	<-ctx.Done()

	a.logger.Info("Shutting down dashboard", zap.String("url", srv.BaseURL()))

	return srv.Stop()
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	if dir := cmd.String("output-dir"); dir != "" {
		schemaPath, samplePath, err := config.WriteSchemaFiles(dir)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.Root().Writer, "Schema written to %s\nSample config written to %s\n", schemaPath, samplePath)

		return err
	}

	cfg := config.Default()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, schema)

	return err
}

func versionAction(_ context.Context, cmd *cli.Command) error {
	_, err := fmt.Fprintln(cmd.Root().Writer, version.GetVersion())

	return err
}
