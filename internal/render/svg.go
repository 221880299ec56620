package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// SVGOptions sizes the SVG chart in pixels.
type SVGOptions struct {
	Width  int
	Height int
}

// DefaultSVGOptions keeps the 15:6 aspect of the classic matplotlib figure.
var DefaultSVGOptions = SVGOptions{Width: 1200, Height: 480}

const (
	svgMarginLeft   = 70.0
	svgMarginRight  = 20.0
	svgMarginTop    = 40.0
	svgMarginBottom = 70.0
	svgYTicks       = 5
	svgMarkerSize   = 7.0

	colorClose    = "#000000"
	colorShort    = "#1f4fd6"
	colorLong     = "#2e8b2e"
	colorUpward   = "#2ca02c"
	colorDownward = "#d62728"
)

type svgFrame struct {
	width, height float64
	low, high     float64
	n             int
}

func (f svgFrame) x(i int) float64 {
	plotWidth := f.width - svgMarginLeft - svgMarginRight
	if f.n <= 1 {
		return svgMarginLeft + plotWidth/2
	}

	return svgMarginLeft + plotWidth*float64(i)/float64(f.n-1)
}

func (f svgFrame) y(v float64) float64 {
	plotHeight := f.height - svgMarginTop - svgMarginBottom

	return svgMarginTop + plotHeight*(f.high-v)/(f.high-f.low)
}

// SVG writes the result as a standalone SVG document.
func SVG(w io.Writer, result *strategy.Result, options SVGOptions) error {
	if options.Width <= 0 || options.Height <= 0 {
		options = DefaultSVGOptions
	}

	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="12">`+"\n",
		options.Width, options.Height, options.Width, options.Height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", options.Width, options.Height)

	if isEmpty(result) {
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" fill="#555555">%s</text>`+"\n",
			options.Width/2, options.Height/2, EmptyMessage)
	} else {
		low, high := valueRange(result)
		frame := svgFrame{
			width:  float64(options.Width),
			height: float64(options.Height),
			low:    low,
			high:   high,
			n:      len(result.Series),
		}

		fmt.Fprintf(&b, `<text x="%.1f" y="24" text-anchor="middle" font-size="16" font-weight="bold">%s</text>`+"\n",
			frame.width/2, html.EscapeString(Title(result)))

		writeAxes(&b, result, frame)
		writeBand(&b, result, frame)
		writeLine(&b, frame, colorLong, "6 4", func(i int) (float64, bool) { return optionalValue(result.Long, i) })
		writeLine(&b, frame, colorShort, "6 4", func(i int) (float64, bool) { return optionalValue(result.Short, i) })
		writeLine(&b, frame, colorClose, "", func(i int) (float64, bool) { return result.Series[i].Close, true })
		writeMarks(&b, result, frame)
		writeLegend(&b, result, frame)
	}

	b.WriteString("</svg>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, "failed to write chart", err)
	}

	return nil
}

func optionalValue(series types.SmaSeries, i int) (float64, bool) {
	v := series.At(i)
	if v.IsNone() {
		return 0, false
	}

	return v.Unwrap(), true
}

func writeAxes(b *strings.Builder, result *strategy.Result, f svgFrame) {
	left, right := svgMarginLeft, f.width-svgMarginRight
	top, bottom := svgMarginTop, f.height-svgMarginBottom

	fmt.Fprintf(b, `<g stroke="#999999" stroke-width="1"><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/></g>`+"\n",
		left, top, left, bottom, left, bottom, right, bottom)

	b.WriteString(`<g fill="#333333">` + "\n")

	for t := 0; t < svgYTicks; t++ {
		v := f.low + (f.high-f.low)*float64(t)/float64(svgYTicks-1)
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="end">%s</text>`+"\n", left-6, f.y(v)+4, FormatPrice(v))
	}

	ticks := []int{0, len(result.Series) / 2, len(result.Series) - 1}
	seen := make(map[int]bool)

	for _, i := range ticks {
		if seen[i] {
			continue
		}

		seen[i] = true
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			f.x(i), bottom+18, result.Series[i].Date.Format(time.DateOnly))
	}

	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle">Date</text>`+"\n", (left+right)/2, bottom+38)
	fmt.Fprintf(b, `<text x="16" y="%.1f" text-anchor="middle" transform="rotate(-90 16 %.1f)">Price</text>`+"\n",
		(top+bottom)/2, (top+bottom)/2)

	b.WriteString("</g>\n")
}

// writeBand shades the area between the averages, green where short >= long and red
// elsewhere. A segment whose order flips is split at the crossing point.
func writeBand(b *strings.Builder, result *strategy.Result, f svgFrame) {
	b.WriteString(`<g fill-opacity="0.3" stroke="none">` + "\n")

	for i := 1; i < len(result.Series); i++ {
		s0, ok0 := optionalValue(result.Short, i-1)
		l0, ok1 := optionalValue(result.Long, i-1)
		s1, ok2 := optionalValue(result.Short, i)
		l1, ok3 := optionalValue(result.Long, i)

		if !ok0 || !ok1 || !ok2 || !ok3 {
			continue
		}

		x0, x1 := f.x(i-1), f.x(i)
		d0, d1 := s0-l0, s1-l1

		if (d0 >= 0) == (d1 >= 0) {
			writeQuad(b, bandColor(d0, d1), x0, f.y(s0), x1, f.y(s1), f.y(l1), f.y(l0))

			continue
		}

		t := d0 / (d0 - d1)
		xc := x0 + (x1-x0)*t
		yc := f.y(s0 + (s1-s0)*t)

		fmt.Fprintf(b, `<polygon fill="%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
			bandColor(d0, d0), x0, f.y(s0), xc, yc, x0, f.y(l0))
		fmt.Fprintf(b, `<polygon fill="%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
			bandColor(d1, d1), xc, yc, x1, f.y(s1), x1, f.y(l1))
	}

	b.WriteString("</g>\n")
}

func bandColor(d0, d1 float64) string {
	if d0 >= 0 && d1 >= 0 {
		return colorUpward
	}

	return colorDownward
}

func writeQuad(b *strings.Builder, color string, x0, ys0, x1, ys1, yl1, yl0 float64) {
	fmt.Fprintf(b, `<polygon fill="%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
		color, x0, ys0, x1, ys1, x1, yl1, x0, yl0)
}

// writeLine draws one polyline per run of defined values.
func writeLine(b *strings.Builder, f svgFrame, color, dash string, value func(i int) (float64, bool)) {
	dashAttr := ""
	if dash != "" {
		dashAttr = fmt.Sprintf(` stroke-dasharray="%s"`, dash)
	}

	points := make([]string, 0)

	flush := func() {
		if len(points) > 0 {
			fmt.Fprintf(b, `<polyline fill="none" stroke="%s" stroke-width="1.2"%s points="%s"/>`+"\n",
				color, dashAttr, strings.Join(points, " "))
		}

		points = points[:0]
	}

	for i := 0; i < f.n; i++ {
		v, ok := value(i)
		if !ok || math.IsNaN(v) {
			flush()

			continue
		}

		points = append(points, fmt.Sprintf("%.1f,%.1f", f.x(i), f.y(v)))
	}

	flush()
}

func writeMarks(b *strings.Builder, result *strategy.Result, f svgFrame) {
	for _, mark := range result.Marks {
		x, y := f.x(mark.Index), f.y(mark.Value)

		switch mark.Shape {
		case types.MarkShapeTriangleUp:
			fmt.Fprintf(b, `<path class="mark upward" fill="%s" d="M%.1f %.1f L%.1f %.1f L%.1f %.1f Z"><title>%s %s</title></path>`+"\n",
				colorUpward, x, y-svgMarkerSize, x+svgMarkerSize, y+svgMarkerSize, x-svgMarkerSize, y+svgMarkerSize,
				mark.Date.Format(time.DateOnly), html.EscapeString(mark.Title))
		case types.MarkShapeTriangleDown:
			fmt.Fprintf(b, `<path class="mark downward" fill="%s" d="M%.1f %.1f L%.1f %.1f L%.1f %.1f Z"><title>%s %s</title></path>`+"\n",
				colorDownward, x, y+svgMarkerSize, x+svgMarkerSize, y-svgMarkerSize, x-svgMarkerSize, y-svgMarkerSize,
				mark.Date.Format(time.DateOnly), html.EscapeString(mark.Title))
		default:
			fmt.Fprintf(b, `<circle class="mark" fill="%s" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", mark.Color, x, y, svgMarkerSize/2)
		}
	}
}

func writeLegend(b *strings.Builder, result *strategy.Result, f svgFrame) {
	entries := []struct {
		label  string
		color  string
		dashed bool
		marker string
	}{
		{label: shortLabel(result), color: colorShort, dashed: true},
		{label: longLabel(result), color: colorLong, dashed: true},
		{label: closeLabel, color: colorClose},
		{label: upwardLabel, color: colorUpward, marker: "▲"},
		{label: downwardLabel, color: colorDownward, marker: "▼"},
	}

	x, y := svgMarginLeft+10, svgMarginTop+10

	fmt.Fprintf(b, `<g class="legend"><rect x="%.1f" y="%.1f" width="170" height="%d" fill="#ffffff" fill-opacity="0.8" stroke="#cccccc"/>`+"\n",
		x-6, y-8, len(entries)*16+6)

	for k, entry := range entries {
		ey := y + float64(k)*16

		if entry.marker != "" {
			fmt.Fprintf(b, `<text x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n", x+6, ey+4, entry.color, entry.marker)
		} else {
			dash := ""
			if entry.dashed {
				dash = ` stroke-dasharray="6 4"`
			}

			fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"%s/>`+"\n", x, ey, x+24, ey, entry.color, dash)
		}

		fmt.Fprintf(b, `<text x="%.1f" y="%.1f">%s</text>`+"\n", x+32, ey+4, html.EscapeString(entry.label))
	}

	b.WriteString("</g>\n")
}
