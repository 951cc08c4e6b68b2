package encode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// AnalogyRow is one analogy candidate as displayed.
type AnalogyRow struct {
	Rank      int
	Token     string
	Score     float64
	ScoreText string
}

// Analogy keeps the service's order; results arrive already sorted by score.
func Analogy(r analysis.AnalogyResult) []AnalogyRow {
	rows := make([]AnalogyRow, len(r))
	for i, c := range r {
		rows[i] = AnalogyRow{
			Rank:      i + 1,
			Token:     utils.FormatInlineToken(c.Token),
			Score:     c.Score,
			ScoreText: fmt.Sprintf("%.4f", c.Score),
		}
	}
	return rows
}

// Activations indents the opaque activations payload for the inspector.
func Activations(a analysis.Activations) (string, error) {
	if len(a) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, a, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format activations: %w", err)
	}
	return buf.String(), nil
}
