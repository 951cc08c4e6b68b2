package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
)

var (
	// Dark slate base
	ColorBackground        = lipgloss.Color("#0F172A")
	ColorBackgroundDarker  = lipgloss.Color("#0B1120")
	ColorBackgroundLighter = lipgloss.Color("#1E293B")

	// Text colors
	ColorForeground       = lipgloss.Color("#F1F5F9")
	ColorForegroundDim    = lipgloss.Color("#94A3B8")
	ColorForegroundBright = lipgloss.Color("#FFFFFF")

	// Border colors
	ColorBorder       = lipgloss.Color("#334155")
	ColorBorderActive = lipgloss.Color("#60A5FA")

	// Accents
	ColorAccent    = lipgloss.Color("#60A5FA") // Blue
	ColorSecondary = lipgloss.Color("#A78BFA") // Violet
	ColorSuccess   = lipgloss.Color("#34D399") // Green
	ColorWarning   = lipgloss.Color("#FBBF24") // Amber
	ColorError     = lipgloss.Color("#F87171") // Red
	ColorHighlight = lipgloss.Color("#F9FAFB")

	// Heatmap and confidence ramps blend from background to these
	ColorHeatLow  = lipgloss.Color("#0F172A")
	ColorHeatHigh = lipgloss.Color("#60A5FA")
	ColorConfLow  = lipgloss.Color("#0F172A")
	ColorConfHigh = lipgloss.Color("#3B82F6")

	// Embedding categories
	ColorEmbeddingFirst = lipgloss.Color("#4F46E5")
	ColorEmbeddingOther = lipgloss.Color("#94A3B8")

	// System monitor colors
	ColorCPU    = lipgloss.Color("#60A5FA")
	ColorMemory = lipgloss.Color("#A78BFA")
)

// SeriesColors cycle across chart series, one per head.
var SeriesColors = []lipgloss.Color{
	"#60A5FA", "#34D399", "#F87171", "#FBBF24", "#A78BFA",
	"#EC4899", "#6366F1", "#10B981", "#EF4444", "#F59E0B",
	"#8B5CF6", "#DB2777",
}

// SeriesColor returns the color for the i-th series.
func SeriesColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return SeriesColors[i%len(SeriesColors)]
}

// BehaviorColor maps each head classification to its badge color.
func BehaviorColor(t analysis.BehaviorType) lipgloss.Color {
	switch t {
	case analysis.BehaviorCopying:
		return lipgloss.Color("#34D399")
	case analysis.BehaviorInduction:
		return lipgloss.Color("#A78BFA")
	case analysis.BehaviorSelfAttention:
		return lipgloss.Color("#60A5FA")
	case analysis.BehaviorPreviousToken:
		return lipgloss.Color("#FBBF24")
	case analysis.BehaviorDiffuse:
		return lipgloss.Color("#64748B")
	case analysis.BehaviorMixed:
		return lipgloss.Color("#94A3B8")
	}
	panic("theme: unhandled behavior type " + t.String())
}

// Score bar colors follow the behavior they measure.
var (
	ColorScoreCopying   = BehaviorColor(analysis.BehaviorCopying)
	ColorScoreInduction = BehaviorColor(analysis.BehaviorInduction)
	ColorScoreDiagonal  = BehaviorColor(analysis.BehaviorSelfAttention)
	ColorScorePrevToken = BehaviorColor(analysis.BehaviorPreviousToken)
)

// Icons
const (
	IconPrediction  = "◉"
	IconAttention   = "▦"
	IconTokens      = "◆"
	IconEigen       = "◈"
	IconBehavior    = "↻"
	IconLens        = "◎"
	IconEmbeddings  = "∷"
	IconWeights     = "▥"
	IconAnalogy     = "±"
	IconActivations = "▫"
	IconCheck       = "✓"
	IconCross       = "✗"
	IconDot         = "•"
	IconChevron     = "›"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorForegroundDim).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorForegroundDim)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorForeground)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	ChipStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorBackgroundLighter).
			Padding(0, 1)

	ChipSelectedStyle = ChipStyle.Copy().
				Background(ColorAccent).
				Foreground(ColorBackground)

	TooltipStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	CardSelectedStyle = CardStyle.Copy().
				BorderForeground(ColorAccent)
)
