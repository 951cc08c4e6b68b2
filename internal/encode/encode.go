// Package encode turns service payloads into bounded visual encodings.
// Every function here is pure: the same payload and selection always give
// the same encoding, and payloads are never modified.
package encode

import (
	"fmt"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// RankedItem is one row of a ranked token list.
type RankedItem struct {
	Rank     int
	Token    string
	Prob     float64
	Fraction float64
	Percent  string
}

// Ranked numbers a prediction set 1..n in service order. Nothing is re-sorted.
func Ranked(set analysis.PredictionSet) []RankedItem {
	items := make([]RankedItem, 0, len(set))
	for i, p := range set {
		items = append(items, RankedItem{
			Rank:     i + 1,
			Token:    utils.FormatInlineToken(p.Token),
			Prob:     p.Prob,
			Fraction: utils.ClampFloat(p.Prob, 0, 1),
			Percent:  Percent(p.Prob),
		})
	}
	return items
}

// Percent formats a [0,1] value as a percentage with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
