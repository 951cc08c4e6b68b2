package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/theme"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

const (
	chartXSteps = 8
	chartYSteps = 3
)

// padRange widens a degenerate [lo, hi] so the chart has a span to scale.
func padRange(lo, hi, pad float64) (float64, float64) {
	if hi-lo < 1e-9 {
		return lo - pad, hi + pad
	}
	return lo, hi
}

func chartStyles() (axis, label lipgloss.Style) {
	return lipgloss.NewStyle().Foreground(theme.ColorBorder), theme.DimStyle
}

// LineChart draws every series on a shared log10 y-axis with rank on x.
// Undefined points break the line and are skipped.
func LineChart(s encode.Spectrum, width, height int) string {
	if s.Empty() {
		return None("No positive values to plot")
	}

	lo, hi := padRange(math.Log10(s.MinY), math.Log10(s.MaxY), 0.5)
	maxX := float64(utils.Max(2, s.MaxRank))
	axis, label := chartStyles()

	lc := linechart.New(utils.Max(16, width), utils.Max(5, height), 1, maxX, lo, hi,
		linechart.WithXYSteps(chartXSteps, chartYSteps),
		linechart.WithStyles(axis, label, lipgloss.NewStyle()),
		linechart.WithXLabelFormatter(func(_ int, v float64) string {
			return strconv.Itoa(int(math.Round(v)))
		}),
		linechart.WithYLabelFormatter(func(_ int, v float64) string {
			return formatTick(math.Pow(10, v))
		}),
	)
	lc.DrawXYAxisAndLabel()

	for i, series := range s.Series {
		style := lipgloss.NewStyle().Foreground(theme.SeriesColor(i))
		var prev *canvas.Float64Point
		for _, p := range series.Points {
			if !p.Defined {
				prev = nil
				continue
			}
			pt := canvas.Float64Point{X: float64(p.X), Y: math.Log10(p.Y)}
			if prev != nil {
				lc.DrawLineWithStyle(*prev, pt, runes.ThinLineStyle, style)
			}
			prev = &pt
		}
	}
	// Markers last so lines never cover a data point.
	for i, series := range s.Series {
		style := lipgloss.NewStyle().Foreground(theme.SeriesColor(i))
		for _, p := range series.Points {
			if p.Defined {
				lc.DrawRuneWithStyle(canvas.Float64Point{X: float64(p.X), Y: math.Log10(p.Y)}, '●', style)
			}
		}
	}
	return lc.View()
}

func formatTick(v float64) string {
	switch {
	case v >= 1000 || v < 0.01:
		return fmt.Sprintf("%.1e", v)
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// SeriesLegend lists series names in their chart colors.
func SeriesLegend(s encode.Spectrum) string {
	labels := make([]string, len(s.Series))
	colors := make([]lipgloss.Color, len(s.Series))
	for i, series := range s.Series {
		labels[i] = series.Name
		colors[i] = theme.SeriesColor(i)
	}
	return Legend(labels, colors)
}

// CategoryColor is the fixed two-color split for embedding points.
func CategoryColor(c encode.Category) lipgloss.Color {
	if c == encode.CategoryFirst {
		return theme.ColorEmbeddingFirst
	}
	return theme.ColorEmbeddingOther
}

// Scatter plots points in data coordinates. The cursor point, when in
// range, is drawn on top as a diamond.
func Scatter(s encode.Scatter, width, height, cursor int) string {
	if s.Empty() {
		return None("No embeddings")
	}

	minX, maxX := padRange(s.MinX, s.MaxX, 1)
	minY, maxY := padRange(s.MinY, s.MaxY, 1)
	axis, label := chartStyles()
	coord := func(_ int, v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	lc := linechart.New(utils.Max(16, width), utils.Max(5, height), minX, maxX, minY, maxY,
		linechart.WithXYSteps(chartXSteps, chartYSteps),
		linechart.WithStyles(axis, label, lipgloss.NewStyle()),
		linechart.WithXLabelFormatter(coord),
		linechart.WithYLabelFormatter(coord),
	)
	lc.DrawXYAxisAndLabel()

	plot := func(p encode.ScatterPoint, r rune, color lipgloss.Color) {
		lc.DrawRuneWithStyle(canvas.Float64Point{X: p.X, Y: p.Y}, r, lipgloss.NewStyle().Foreground(color))
	}

	// Others first so the highlighted category stays visible on overlap.
	for _, p := range s.Points {
		if p.Category == encode.CategoryOther {
			plot(p, '•', CategoryColor(p.Category))
		}
	}
	for _, p := range s.Points {
		if p.Category == encode.CategoryFirst {
			plot(p, '●', CategoryColor(p.Category))
		}
	}
	if cursor >= 0 && cursor < len(s.Points) {
		plot(s.Points[cursor], '◆', theme.ColorHighlight)
	}
	return lc.View()
}
