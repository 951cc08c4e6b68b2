package encode

import (
	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// LensRow compares predictions before attention with the final ones at one position.
type LensRow struct {
	Position     int
	Token        string
	PreAttention []RankedItem
	Final        []RankedItem
}

// LogitLens encodes a trace position by position, trusting service order.
func LogitLens(trace analysis.LogitLensTrace) []LensRow {
	rows := make([]LensRow, len(trace))
	for i, pos := range trace {
		rows[i] = LensRow{
			Position:     i,
			Token:        utils.FormatToken(pos.Token),
			PreAttention: Ranked(pos.PreAttention),
			Final:        Ranked(pos.Final),
		}
	}
	return rows
}
