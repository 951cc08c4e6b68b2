package encode

import (
	"fmt"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// HighlightedCount is how many leading embedding points form the "first" category.
const HighlightedCount = 20

// Category is the two-way split of embedding points by insertion order.
type Category int

const (
	CategoryFirst Category = iota
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryFirst:
		return fmt.Sprintf("First %d tokens", HighlightedCount)
	case CategoryOther:
		return "Other tokens"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ScatterPoint is one embedding in data coordinates.
type ScatterPoint struct {
	Token    string
	ID       int
	X        float64
	Y        float64
	Category Category
}

// Scatter is the embedding projection encoding with its data bounds.
type Scatter struct {
	Points []ScatterPoint
	MinX   float64
	MaxX   float64
	MinY   float64
	MaxY   float64
}

// Empty reports whether there are no points.
func (s Scatter) Empty() bool {
	return len(s.Points) == 0
}

// Embeddings plots (x, y) as given. Category depends only on position.
func Embeddings(p analysis.EmbeddingProjection) Scatter {
	out := Scatter{Points: make([]ScatterPoint, len(p))}
	for i, e := range p {
		cat := CategoryOther
		if i < HighlightedCount {
			cat = CategoryFirst
		}
		out.Points[i] = ScatterPoint{
			Token:    utils.FormatInlineToken(e.Token),
			ID:       e.ID,
			X:        e.X,
			Y:        e.Y,
			Category: cat,
		}
		if i == 0 || e.X < out.MinX {
			out.MinX = e.X
		}
		if i == 0 || e.X > out.MaxX {
			out.MaxX = e.X
		}
		if i == 0 || e.Y < out.MinY {
			out.MinY = e.Y
		}
		if i == 0 || e.Y > out.MaxY {
			out.MaxY = e.Y
		}
	}
	return out
}

// Tooltip describes point i.
func (s Scatter) Tooltip(i int) (string, bool) {
	if i < 0 || i >= len(s.Points) {
		return "", false
	}
	p := s.Points[i]
	return fmt.Sprintf("%s  Token ID: %d  Position: (%.2f, %.2f)", p.Token, p.ID, p.X, p.Y), true
}
