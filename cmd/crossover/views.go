package main

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/render"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// listItem implements list.Item for the stock list.
type listItem struct {
	id string
}

func (i listItem) Title() string       { return catalog.DisplayName(i.id) }
func (i listItem) Description() string { return i.id }
func (i listItem) FilterValue() string { return i.id }

// NewStockList creates an empty stock list. Items arrive with StocksLoadedMsg.
func NewStockList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Select a stock:"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// StockItems converts stock ids into list items.
func StockItems(stocks []string) []list.Item {
	items := make([]list.Item, 0, len(stocks))
	for _, id := range stocks {
		items = append(items, listItem{id: id})
	}

	return items
}

// NewDateInput creates a text input prefilled with date.
func NewDateInput(date time.Time) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = "> "
	ti.SetValue(date.Format(time.DateOnly))

	return ti
}

// NewRunSpinner creates the spinner shown while a strategy runs.
func NewRunSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.Dot))
}

// NewCrossoverTable creates the table listing crossovers under the chart.
func NewCrossoverTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Signal", Width: 20},
		{Title: "Short SMA", Width: 12},
		{Title: "Close", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(6),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// CrossoverRows builds one table row per crossover, oldest first.
func CrossoverRows(result *strategy.Result) []table.Row {
	if result == nil {
		return nil
	}

	indices := result.Crossovers()
	rows := make([]table.Row, 0, len(indices))

	for _, i := range indices {
		signal := result.Signals[i]

		label := "▲ Upward crossover"
		if signal == types.CrossoverSignalDownward {
			label = "▼ Downward crossover"
		}

		short := ""
		if value := result.Short.At(i); value.IsSome() {
			short = render.FormatPrice(value.Unwrap())
		}

		rows = append(rows, table.Row{
			result.Series[i].Date.Format(time.DateOnly),
			label,
			short,
			render.FormatPrice(result.Series[i].Close),
		})
	}

	return rows
}
