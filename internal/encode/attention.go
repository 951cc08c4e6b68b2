package encode

import (
	"fmt"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/selection"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// HeatCell keeps the raw value for tooltips next to its color intensity.
type HeatCell struct {
	Value     float64
	Intensity float64
}

// Heatmap is one head's attention pattern. Rows are query positions and
// columns are key positions.
type Heatmap struct {
	Tokens   []string
	Head     int
	NumHeads int
	Disabled bool
	Max      float64
	Cells    [][]HeatCell
}

// Intensity maps a raw weight onto [0,1] relative to the head maximum.
func Intensity(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return utils.ClampFloat(value/max, 0, 1)
}

// AttentionHeatmap encodes the given head of t. The head is clamped to the
// heads present; a tensor with no heads gives a disabled encoding.
func AttentionHeatmap(t *analysis.AttentionTensor, head int) Heatmap {
	if t == nil || t.NumHeads() == 0 {
		return Heatmap{Disabled: true}
	}

	h := Heatmap{
		NumHeads: t.NumHeads(),
		Head:     selection.ClampHead(head, t.NumHeads()),
		Tokens:   make([]string, len(t.Tokens)),
	}
	for i, tok := range t.Tokens {
		h.Tokens[i] = utils.FormatInlineToken(tok)
	}

	matrix := t.Attention[h.Head]
	for _, row := range matrix {
		for _, v := range row {
			if v > h.Max {
				h.Max = v
			}
		}
	}

	h.Cells = make([][]HeatCell, len(matrix))
	for i, row := range matrix {
		h.Cells[i] = make([]HeatCell, len(row))
		for j, v := range row {
			h.Cells[i][j] = HeatCell{Value: v, Intensity: Intensity(v, h.Max)}
		}
	}
	return h
}

// Empty reports whether the heatmap has no cells.
func (h Heatmap) Empty() bool {
	return h.Disabled || len(h.Cells) == 0
}

// Tooltip describes the cell at (row, col): the key token attended from and
// the query token attending to it.
func (h Heatmap) Tooltip(row, col int) (string, bool) {
	if row < 0 || row >= len(h.Cells) || col < 0 || col >= len(h.Cells[row]) {
		return "", false
	}
	return fmt.Sprintf("From %s → To %s  %.2f%%",
		tokenAt(h.Tokens, col), tokenAt(h.Tokens, row), h.Cells[row][col].Value*100), true
}

func tokenAt(tokens []string, i int) string {
	if i < 0 || i >= len(tokens) {
		return fmt.Sprintf("#%d", i)
	}
	return tokens[i]
}
