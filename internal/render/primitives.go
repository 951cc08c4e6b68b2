package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/theme"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// Bar is one labelled horizontal bar.
type Bar struct {
	Label    string
	Fraction float64
	Text     string
	Color    lipgloss.Color
}

// FillBar draws a fixed-width fill bar for a fraction in [0,1].
func FillBar(fraction float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := int(float64(width)*utils.ClampFloat(fraction, 0, 1) + 0.5)
	filled = utils.Clamp(filled, 0, width)

	fill := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	empty := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("░", width-filled))
	return fill + empty
}

// Bars draws labelled bars with aligned labels and trailing text.
func Bars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return None("No data")
	}

	labelW, textW := 0, 0
	for _, b := range bars {
		labelW = utils.Max(labelW, lipgloss.Width(b.Label))
		textW = utils.Max(textW, lipgloss.Width(b.Text))
	}
	labelW = utils.Min(labelW, utils.Max(8, width/3))
	barW := utils.Max(4, width-labelW-textW-2)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		label := utils.PadRight(utils.TruncateString(b.Label, labelW), labelW)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			theme.TextStyle.Render(label),
			FillBar(b.Fraction, barW, b.Color),
			theme.DimStyle.Render(b.Text)))
	}
	return strings.Join(lines, "\n")
}

// ScoreBar draws one percent bar in the style of a stat meter.
func ScoreBar(label string, percent float64, text string, width int, color lipgloss.Color) string {
	labelW := 16
	barW := utils.Max(4, width-labelW-8)
	return fmt.Sprintf("%s %s %s",
		theme.TextStyle.Render(utils.PadRight(label, labelW)),
		FillBar(percent/100, barW, color),
		theme.DimStyle.Render(fmt.Sprintf("%6s", text)))
}

// RankedList draws "rank. token prob" rows.
func RankedList(items []encode.RankedItem, width int) string {
	if len(items) == 0 {
		return None("No predictions")
	}
	tokenW := utils.Max(4, width-12)
	lines := make([]string, 0, len(items))
	for _, it := range items {
		style := theme.TextStyle
		if it.Rank == 1 {
			style = style.Copy().Bold(true).Foreground(theme.ColorHighlight)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			theme.DimStyle.Render(fmt.Sprintf("%2d.", it.Rank)),
			style.Render(utils.PadRight(utils.TruncateString(it.Token, tokenW), tokenW)),
			theme.DimStyle.Render(fmt.Sprintf("%6s", it.Percent))))
	}
	return strings.Join(lines, "\n")
}

// None is the explicit empty state. It always renders something visible.
func None(msg string) string {
	return theme.DimStyle.Copy().Italic(true).Render("∅ " + msg)
}

// Errorf renders an in-place error state.
func Errorf(format string, args ...any) string {
	return theme.ErrorStyle.Render(theme.IconCross + " " + fmt.Sprintf(format, args...))
}

// Wrap word-wraps prose to width.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// Legend draws colored swatches with labels on one line.
func Legend(labels []string, colors []lipgloss.Color) string {
	parts := make([]string, 0, len(labels))
	for i, l := range labels {
		c := theme.ColorForegroundDim
		if i < len(colors) {
			c = colors[i]
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(c).Render("●")+" "+theme.DimStyle.Render(l))
	}
	return strings.Join(parts, "  ")
}
