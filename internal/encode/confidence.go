package encode

import (
	"fmt"
	"math"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// MaxAlternatives caps the alternatives listed for a hovered token.
const MaxAlternatives = 5

// ConfidenceIntensity keeps low-probability tokens visible and saturates
// around p = 0.5.
func ConfidenceIntensity(p float64) float64 {
	return math.Min(utils.ClampFloat(p, 0, math.Inf(1))*2, 1)*0.6 + 0.1
}

// ConfidenceToken is one position in the token sequence.
type ConfidenceToken struct {
	Position  int
	Token     string
	ID        int
	Prob      float64
	Intensity float64
	Percent   string
}

// ConfidenceDetail is the tooltip for the hovered token.
type ConfidenceDetail struct {
	Token        ConfidenceToken
	Alternatives []RankedItem
	Footer       string
}

// Confidence is the token sequence encoding.
type Confidence struct {
	Tokens  []ConfidenceToken
	Hovered *ConfidenceDetail
}

// Empty reports whether there are no tokens.
func (c Confidence) Empty() bool {
	return len(c.Tokens) == 0
}

// TokenConfidence encodes a confidence set. When hasHover is set and hovered
// is in range, the detail for that token is included.
func TokenConfidence(set analysis.TokenConfidenceSet, hovered int, hasHover bool) Confidence {
	out := Confidence{Tokens: make([]ConfidenceToken, len(set))}
	for i, tc := range set {
		out.Tokens[i] = ConfidenceToken{
			Position:  i,
			Token:     utils.FormatToken(tc.ActualToken),
			ID:        tc.ActualTokenID,
			Prob:      tc.ActualProb,
			Intensity: ConfidenceIntensity(tc.ActualProb),
			Percent:   Percent(tc.ActualProb),
		}
	}

	if hasHover && hovered >= 0 && hovered < len(set) {
		alts := set[hovered].TopK
		if len(alts) > MaxAlternatives {
			alts = alts[:MaxAlternatives]
		}
		tok := out.Tokens[hovered]
		out.Hovered = &ConfidenceDetail{
			Token:        tok,
			Alternatives: Ranked(alts),
			Footer:       fmt.Sprintf("Position: %d | Token ID: %d", tok.Position, tok.ID),
		}
	}
	return out
}
