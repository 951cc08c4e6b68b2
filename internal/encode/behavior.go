package encode

import (
	"fmt"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/selection"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// BehaviorIcon returns the glyph shown on a head's badge.
func BehaviorIcon(t analysis.BehaviorType) string {
	switch t {
	case analysis.BehaviorCopying:
		return "⧉"
	case analysis.BehaviorInduction:
		return "↻"
	case analysis.BehaviorSelfAttention:
		return "◎"
	case analysis.BehaviorPreviousToken:
		return "←"
	case analysis.BehaviorDiffuse:
		return "∴"
	case analysis.BehaviorMixed:
		return "⇄"
	}
	panic(fmt.Sprintf("encode: unhandled behavior type %d", int(t)))
}

// Badge is one head in the behavior grid.
type Badge struct {
	Head     int
	Type     analysis.BehaviorType
	Icon     string
	Selected bool
}

// Score is one proportional score bar.
type Score struct {
	Label   string
	Percent float64
	Text    string
}

// Example is one copying or induction example line.
type Example struct {
	Title  string
	Detail string
}

// Behavior is the encoding for the selected head's behavior profile.
type Behavior struct {
	Disabled  bool
	Head      int
	NumHeads  int
	Badges    []Badge
	Selected  Badge
	Scores    []Score
	Copying   []Example
	Induction []Example
}

// BehaviorProfile encodes the profile at index head, clamped to the heads
// present. A profile with no heads gives a disabled encoding.
func BehaviorProfile(p analysis.BehaviorProfile, head int) Behavior {
	if len(p) == 0 {
		return Behavior{Disabled: true}
	}

	out := Behavior{
		NumHeads: len(p),
		Head:     selection.ClampHead(head, len(p)),
		Badges:   make([]Badge, len(p)),
	}
	for i, b := range p {
		out.Badges[i] = Badge{
			Head:     b.Head,
			Type:     b.BehaviorType,
			Icon:     BehaviorIcon(b.BehaviorType),
			Selected: i == out.Head,
		}
	}
	out.Selected = out.Badges[out.Head]

	cur := p[out.Head]
	out.Scores = []Score{
		scoreBar("Copying", cur.CopyingScore),
		scoreBar("Induction", cur.InductionScore),
		scoreBar("Self-Attention", cur.DiagonalScore),
		scoreBar("Previous Token", cur.PrevTokenScore),
	}

	for _, ex := range cur.CopyingExamples {
		out.Copying = append(out.Copying, Example{
			Title:  fmt.Sprintf("%q", ex.Token),
			Detail: fmt.Sprintf("Pos %d → %d  %s", ex.FromPos, ex.ToPos, Percent(ex.Attention)),
		})
	}
	for _, ex := range cur.InductionExamples {
		out.Induction = append(out.Induction, Example{
			Title:  fmt.Sprintf("%q → %q", ex.PatternToken, ex.NextToken),
			Detail: fmt.Sprintf("Pattern@%d, Query@%d  %s", ex.PatternPos, ex.QueryPos, Percent(ex.Attention)),
		})
	}
	return out
}

func scoreBar(label string, score float64) Score {
	return Score{
		Label:   label,
		Percent: utils.ClampFloat(score*100, 0, 100),
		Text:    Percent(score),
	}
}
