package encode

import (
	"fmt"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
)

// Point is one rank position in a spectrum. Points with non-positive values
// are kept but marked undefined so a log axis never sees them.
type Point struct {
	X       int
	Y       float64
	Defined bool
}

// Series is one head's spectrum in rank order.
type Series struct {
	Name   string
	Head   int
	Points []Point
}

// HeadSummary is the eigen summary card for one head.
type HeadSummary struct {
	Head           int
	RankEstimate   int
	NumSignificant int
}

// Spectrum is a multi-series log-y chart encoding.
type Spectrum struct {
	Series    []Series
	Summaries []HeadSummary
	MaxRank   int
	MinY      float64
	MaxY      float64
	Defined   int
}

// Empty reports whether no series has a plottable point.
func (s Spectrum) Empty() bool {
	return s.Defined == 0
}

// EigenSpectrum builds one series per head from eigenvalues.
func EigenSpectrum(spec analysis.EigenSpectrum) Spectrum {
	out := Spectrum{Summaries: make([]HeadSummary, 0, len(spec))}
	for _, h := range spec {
		out.add(h.Head, h.Eigenvalues)
		out.Summaries = append(out.Summaries, HeadSummary{
			Head:           h.Head,
			RankEstimate:   h.RankEstimate,
			NumSignificant: h.NumSignificant,
		})
	}
	return out
}

// WeightSpectrum builds one series per head from singular values.
func WeightSpectrum(spec analysis.WeightSpectrum) Spectrum {
	var out Spectrum
	for _, h := range spec {
		out.add(h.Head, h.SingularValues)
	}
	return out
}

// add appends a series. Shorter series simply end early; nothing is padded.
func (s *Spectrum) add(head int, values []float64) {
	series := Series{
		Name:   fmt.Sprintf("Head %d", head),
		Head:   head,
		Points: make([]Point, len(values)),
	}
	for i, v := range values {
		defined := v > 0
		series.Points[i] = Point{X: i + 1, Y: v, Defined: defined}
		if !defined {
			continue
		}
		if s.Defined == 0 || v < s.MinY {
			s.MinY = v
		}
		if s.Defined == 0 || v > s.MaxY {
			s.MaxY = v
		}
		s.Defined++
	}
	if len(values) > s.MaxRank {
		s.MaxRank = len(values)
	}
	s.Series = append(s.Series, series)
}
