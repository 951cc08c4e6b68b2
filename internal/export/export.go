// Package export writes spectrum charts to PNG files.
package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/theme"
)

const (
	chartWidth  = 1024
	chartHeight = 600
)

// ErrNothingToPlot is returned when a spectrum has no positive values.
var ErrNothingToPlot = fmt.Errorf("spectrum has no positive values to plot")

// SpectrumPNG renders s as a PNG line chart. The y axis shows log10 of the
// values; undefined points are left out.
func SpectrumPNG(w io.Writer, title string, s encode.Spectrum) error {
	if s.Empty() {
		return ErrNothingToPlot
	}

	series := make([]chart.Series, 0, len(s.Series))
	for i, sr := range s.Series {
		var xs, ys []float64
		for _, p := range sr.Points {
			if !p.Defined {
				continue
			}
			xs = append(xs, float64(p.X))
			ys = append(ys, math.Log10(p.Y))
		}
		if len(xs) == 0 {
			continue
		}
		// go-chart needs two x values to build a range.
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		color := drawing.ColorFromHex(strings.TrimPrefix(string(theme.SeriesColor(i)), "#"))
		series = append(series, chart.ContinuousSeries{
			Name:    sr.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	lo, hi := math.Log10(s.MinY), math.Log10(s.MaxY)
	if hi-lo < 1e-9 {
		lo, hi = lo-0.5, hi+0.5
	}

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Rank",
			Range: &chart.ContinuousRange{Min: 1, Max: math.Max(2, float64(s.MaxRank))},
		},
		YAxis: chart.YAxis{
			Name:  "log10(value)",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteSpectrum renders s into dir and returns the written path. The file
// name is derived from name and the timestamp.
func WriteSpectrum(dir, name string, s encode.Spectrum, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := SpectrumPNG(&buf, title(name), s); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, now.Format("20060102_150405")))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write chart: %w", err)
	}
	return path, nil
}

func title(name string) string {
	switch name {
	case "eigenvalues":
		return "Eigenvalue Spectrum"
	case "weights":
		return "Weight Singular Values"
	}
	return name
}
