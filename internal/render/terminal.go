package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// TerminalOptions sizes the terminal chart in character cells.
type TerminalOptions struct {
	Width  int
	Height int
}

const (
	minTerminalWidth  = 20
	minTerminalHeight = 5
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true)
	AxisStyle     = lipgloss.NewStyle().Faint(true)
	CloseStyle    = lipgloss.NewStyle()
	ShortStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	LongStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	BandUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	BandDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("52"))
	UpwardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	DownwardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

type cell int

const (
	cellBlank cell = iota
	cellBandUp
	cellBandDown
	cellLong
	cellShort
	cellClose
	cellUpward
	cellDownward
)

func (c cell) glyph() string {
	switch c {
	case cellBandUp, cellBandDown:
		return "░"
	case cellLong:
		return "="
	case cellShort:
		return "-"
	case cellClose:
		return "•"
	case cellUpward:
		return "▲"
	case cellDownward:
		return "▼"
	default:
		return " "
	}
}

func (c cell) style() lipgloss.Style {
	switch c {
	case cellBandUp:
		return BandUpStyle
	case cellBandDown:
		return BandDownStyle
	case cellLong:
		return LongStyle
	case cellShort:
		return ShortStyle
	case cellUpward:
		return UpwardStyle
	case cellDownward:
		return DownwardStyle
	default:
		return CloseStyle
	}
}

// Terminal renders the result as a character-cell chart with axes and a legend.
func Terminal(result *strategy.Result, options TerminalOptions) string {
	if isEmpty(result) {
		if result == nil {
			return EmptyMessage
		}

		return TitleStyle.Render(Title(result)) + "\n" + EmptyMessage
	}

	width := max(options.Width, minTerminalWidth)
	height := max(options.Height, minTerminalHeight)

	low, high := valueRange(result)
	labels := map[int]string{
		0:          FormatPrice(high),
		height / 2: FormatPrice(high - (high-low)*float64(height/2)/float64(height-1)),
		height - 1: FormatPrice(low),
	}

	labelWidth := 0
	for _, label := range labels {
		labelWidth = max(labelWidth, len(label))
	}

	columns := bucket(result.Signals, len(result.Series), max(width-labelWidth-2, 1))
	grid := plot(result, columns, height, low, high)

	var b strings.Builder

	b.WriteString(TitleStyle.Render(Title(result)))
	b.WriteString("\n")

	for r, row := range grid {
		b.WriteString(AxisStyle.Render(fmt.Sprintf("%*s │", labelWidth, labels[r])))
		b.WriteString(renderRow(row))
		b.WriteString("\n")
	}

	indent := strings.Repeat(" ", labelWidth+1)

	b.WriteString(AxisStyle.Render(indent + "└" + strings.Repeat("─", len(columns))))
	b.WriteString("\n")
	b.WriteString(AxisStyle.Render(indent + " " + dateAxis(result, columns)))
	b.WriteString("\n")
	b.WriteString(Legend(result))

	return b.String()
}

// plot lays the band, both averages, the closes and the crossover marks onto a grid,
// later layers overwriting earlier ones.
func plot(result *strategy.Result, columns []column, height int, low, high float64) [][]cell {
	grid := make([][]cell, height)
	for r := range grid {
		grid[r] = make([]cell, len(columns))
	}

	row := func(v float64) int {
		r := int(math.Round((high - v) / (high - low) * float64(height-1)))

		return min(max(r, 0), height-1)
	}

	for c, col := range columns {
		i := col.index
		short, long := result.Short.At(i), result.Long.At(i)

		if short.IsSome() && long.IsSome() {
			kind := cellBandUp
			if short.Unwrap() < long.Unwrap() {
				kind = cellBandDown
			}

			from, to := row(short.Unwrap()), row(long.Unwrap())
			for r := min(from, to); r <= max(from, to); r++ {
				grid[r][c] = kind
			}
		}

		if long.IsSome() {
			grid[row(long.Unwrap())][c] = cellLong
		}

		if short.IsSome() {
			grid[row(short.Unwrap())][c] = cellShort
		}

		grid[row(result.Series[i].Close)][c] = cellClose

		if short.IsSome() {
			switch col.signal {
			case types.CrossoverSignalUpward:
				grid[row(short.Unwrap())][c] = cellUpward
			case types.CrossoverSignalDownward:
				grid[row(short.Unwrap())][c] = cellDownward
			}
		}
	}

	return grid
}

// renderRow styles runs of equal cells together.
func renderRow(row []cell) string {
	var b strings.Builder

	for start := 0; start < len(row); {
		end := start
		for end < len(row) && row[end] == row[start] {
			end++
		}

		b.WriteString(row[start].style().Render(strings.Repeat(row[start].glyph(), end-start)))
		start = end
	}

	return b.String()
}

// dateAxis labels the first, middle and last column when there is room for them.
func dateAxis(result *strategy.Result, columns []column) string {
	first := result.Series[columns[0].index].Date
	last := result.Series[columns[len(columns)-1].index].Date

	const dateWidth = len(time.DateOnly)

	switch {
	case len(columns) >= 3*dateWidth+6:
		axis := []rune(strings.Repeat(" ", len(columns)))
		middle := result.Series[columns[len(columns)/2].index].Date

		place(axis, 0, first.Format(time.DateOnly))
		place(axis, len(columns)/2-dateWidth/2, middle.Format(time.DateOnly))
		place(axis, len(columns)-dateWidth, last.Format(time.DateOnly))

		return string(axis)
	case len(columns) >= 2*dateWidth+1:
		axis := []rune(strings.Repeat(" ", len(columns)))

		place(axis, 0, first.Format(time.DateOnly))
		place(axis, len(columns)-dateWidth, last.Format(time.DateOnly))

		return string(axis)
	default:
		return first.Format(time.DateOnly) + " - " + last.Format(time.DateOnly)
	}
}

func place(axis []rune, at int, text string) {
	for i, r := range []rune(text) {
		if at+i >= 0 && at+i < len(axis) {
			axis[at+i] = r
		}
	}
}

// Legend names every series and marker drawn on the chart.
func Legend(result *strategy.Result) string {
	entries := []string{
		CloseStyle.Render(cellClose.glyph()) + " " + closeLabel,
		ShortStyle.Render(cellShort.glyph()) + " " + shortLabel(result),
		LongStyle.Render(cellLong.glyph()) + " " + longLabel(result),
		UpwardStyle.Render(cellUpward.glyph()) + " " + upwardLabel,
		DownwardStyle.Render(cellDownward.glyph()) + " " + downwardLabel,
	}

	return strings.Join(entries, "  ")
}

// Crossovers lists the crossover marks one per line, oldest first.
func Crossovers(result *strategy.Result) string {
	if result == nil || len(result.Marks) == 0 {
		return "No crossovers in range"
	}

	lines := make([]string, 0, len(result.Marks))

	for _, mark := range result.Marks {
		glyph, style := cellUpward.glyph(), UpwardStyle
		if mark.Shape == types.MarkShapeTriangleDown {
			glyph, style = cellDownward.glyph(), DownwardStyle
		}

		lines = append(lines, fmt.Sprintf("%s  %s %-18s %s  %s",
			mark.Date.Format(time.DateOnly),
			style.Render(glyph),
			mark.Title,
			FormatPrice(mark.Value),
			mark.Message,
		))
	}

	return strings.Join(lines, "\n")
}

// FormatPrice formats a price with two decimals.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
