package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-crossover/internal/catalog"
	"github.com/rxtech-lab/argo-crossover/internal/config"
	"github.com/rxtech-lab/argo-crossover/internal/render"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Application states.
const (
	StateStartDate = iota
	StateEndDate
	StateStockSelect
	StateRunning
	StateResult
)

const dashboardTitle = "Stock Trading Strategy Simulation"

// Model is the Bubble Tea model of the interactive dashboard.
type Model struct {
	ctx    context.Context
	runner StrategyRunner
	chart  config.ChartConfig

	state          int
	startInput     textinput.Model
	endInput       textinput.Model
	stockList      list.Model
	spinner        spinner.Model
	crossoverTable table.Model
	request        strategy.Request
	result         *strategy.Result
	err            error
	width          int
	height         int
}

// NewModel creates the dashboard with the date inputs prefilled to the year up to today.
func NewModel(ctx context.Context, runner StrategyRunner, today time.Time, chart config.ChartConfig) Model {
	startInput := NewDateInput(today.AddDate(-1, 0, 0))
	startInput.Focus()

	return Model{
		ctx:            ctx,
		runner:         runner,
		chart:          chart,
		state:          StateStartDate,
		startInput:     startInput,
		endInput:       NewDateInput(today),
		stockList:      NewStockList(),
		spinner:        NewRunSpinner(),
		crossoverTable: NewCrossoverTable(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadStocks(m.runner))
}

func loadStocks(runner StrategyRunner) tea.Cmd {
	return func() tea.Msg {
		stocks, err := runner.Stocks()

		return StocksLoadedMsg{Stocks: stocks, Err: err}
	}
}

func runStrategy(ctx context.Context, runner StrategyRunner, request strategy.Request) tea.Cmd {
	return func() tea.Msg {
		result, err := runner.Run(ctx, request)

		return StrategyDoneMsg{Result: result, Err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Dates are typed, so q is text there
			if m.state != StateStartDate && m.state != StateEndDate {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.stockList.SetSize(msg.Width, msg.Height-8)
		m.crossoverTable.SetWidth(msg.Width)

		return m, nil

	case StocksLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err

			return m, nil
		}

		cmd := m.stockList.SetItems(StockItems(msg.Stocks))

		return m, cmd

	case StrategyDoneMsg:
		m.state = StateResult
		m.result = msg.Result
		m.err = msg.Err
		m.crossoverTable.SetRows(CrossoverRows(msg.Result))

		return m, nil

	case spinner.TickMsg:
		if m.state != StateRunning {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case StateStartDate:
		return m.updateStartDate(msg)
	case StateEndDate:
		return m.updateEndDate(msg)
	case StateStockSelect:
		return m.updateStockSelect(msg)
	case StateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateEndDate:
		m.err = nil
		m.endInput.Blur()
		m.startInput.Focus()
		m.state = StateStartDate

		return m, textinput.Blink
	case StateStockSelect:
		m.err = nil
		m.endInput.Focus()
		m.state = StateEndDate

		return m, textinput.Blink
	case StateResult:
		m.err = nil
		m.result = nil
		m.crossoverTable.SetRows(nil)
		m.state = StateStockSelect
	}

	return m, nil
}

func (m Model) updateStartDate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		start, err := strategy.ParseRequestDate("start", m.startInput.Value())
		if err != nil {
			m.err = err

			return m, nil
		}

		m.err = nil
		m.request.Start = start
		m.startInput.Blur()
		m.endInput.Focus()
		m.state = StateEndDate

		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.startInput, cmd = m.startInput.Update(msg)

	return m, cmd
}

func (m Model) updateEndDate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		end, err := strategy.ParseRequestDate("end", m.endInput.Value())
		if err != nil {
			m.err = err

			return m, nil
		}

		m.err = nil
		m.request.End = end
		m.endInput.Blur()
		m.state = StateStockSelect

		return m, nil
	}

	var cmd tea.Cmd
	m.endInput, cmd = m.endInput.Update(msg)

	return m, cmd
}

func (m Model) updateStockSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		item, ok := m.stockList.SelectedItem().(listItem)
		if !ok {
			m.err = errors.New(errors.ErrCodeMissingParameter, "select a stock")

			return m, nil
		}

		request := strategy.Request{Stock: item.id, Start: m.request.Start, End: m.request.End}
		if err := request.Validate(); err != nil {
			m.err = err

			return m, nil
		}

		m.err = nil
		m.request = request
		m.state = StateRunning

		return m, tea.Batch(m.spinner.Tick, runStrategy(m.ctx, m.runner, request))
	}

	var cmd tea.Cmd
	m.stockList, cmd = m.stockList.Update(msg)

	return m, cmd
}

func (m Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.crossoverTable, cmd = m.crossoverTable.Update(msg)

	return m, cmd
}

func (m Model) chartOptions() render.TerminalOptions {
	options := render.TerminalOptions{Width: m.chart.Width, Height: m.chart.Height}
	if m.width > 0 && m.width-2 < options.Width {
		options.Width = m.width - 2
	}

	return options
}

func (m Model) writeError(s *strings.Builder) {
	if m.err == nil {
		return
	}

	s.WriteString(ErrorStyle.Render("Error: " + errors.UserMessage(m.err)))
	s.WriteString("\n\n")
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(HeaderStyle.Render(dashboardTitle))
	s.WriteString("\n\n")

	switch m.state {
	case StateStartDate:
		s.WriteString(LabelStyle.Render("Enter the start date:"))
		s.WriteString("\n")
		s.WriteString(m.startInput.View())
		s.WriteString("\n\n")
		m.writeError(&s)
		s.WriteString(HelpStyle.Render("Press Enter to confirm, ctrl+c to quit"))

	case StateEndDate:
		s.WriteString(fmt.Sprintf("Start date: %s\n\n", m.request.Start.Format(time.DateOnly)))
		s.WriteString(LabelStyle.Render("Enter the end date:"))
		s.WriteString("\n")
		s.WriteString(m.endInput.View())
		s.WriteString("\n\n")
		m.writeError(&s)
		s.WriteString(HelpStyle.Render("Press Enter to confirm, Esc to go back"))

	case StateStockSelect:
		s.WriteString(fmt.Sprintf("From %s to %s\n\n",
			m.request.Start.Format(time.DateOnly), m.request.End.Format(time.DateOnly)))
		m.writeError(&s)

		switch {
		case len(m.stockList.Items()) > 0:
			s.WriteString(m.stockList.View())
			s.WriteString("\n")
		case m.err == nil:
			s.WriteString("No stocks found\n\n")
		}

		s.WriteString(HelpStyle.Render("Press Enter to Run Strategy, Esc to go back, q to quit"))

	case StateRunning:
		s.WriteString(fmt.Sprintf("%s Running strategy on %s from %s to %s...",
			m.spinner.View(),
			catalog.DisplayName(m.request.Stock),
			m.request.Start.Format(time.DateOnly),
			m.request.End.Format(time.DateOnly)))

	case StateResult:
		m.writeError(&s)

		if m.result != nil {
			s.WriteString(render.Terminal(m.result, m.chartOptions()))
			s.WriteString("\n\n")

			for _, warning := range m.result.Warnings {
				s.WriteString(WarningStyle.Render("! " + warning))
				s.WriteString("\n")
			}

			if len(m.result.Marks) == 0 {
				s.WriteString(render.Crossovers(m.result))
				s.WriteString("\n")
			} else {
				s.WriteString(m.crossoverTable.View())
				s.WriteString("\n")
			}
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Esc: choose another stock | q: quit"))
	}

	return s.String()
}
