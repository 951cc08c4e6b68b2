package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/selection"
	"github.com/Yuralo/Attention-Lens/internal/theme"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

const (
	heatCellWidth  = 3
	heatLabelWidth = 8
)

// HeatmapFits reports how many token columns fit in width.
func HeatmapFits(width int) int {
	return utils.Max(1, (width-heatLabelWidth-1)/heatCellWidth)
}

// HeatmapWindow returns the key columns [start, end) drawn at width. When
// not all fit, the window scrolls right far enough to keep the hovered
// column in view.
func HeatmapWindow(total, width int, hovered *selection.Cell) (start, end int) {
	fit := HeatmapFits(width)
	if total <= fit {
		return 0, total
	}
	if hovered != nil && hovered.Col >= fit {
		start = utils.Min(hovered.Col-fit+1, total-fit)
	}
	return start, start + fit
}

// Heatmap draws the attention grid. Rows are query tokens, columns key
// tokens. The hovered cell, if any, is outlined with brackets. Columns that
// do not fit are counted in a marker line above the grid.
func Heatmap(h encode.Heatmap, hovered *selection.Cell, width int) string {
	if h.Disabled {
		return None("No attention heads")
	}
	if h.Empty() {
		return None("No tokens")
	}

	start, end := HeatmapWindow(len(h.Tokens), width, hovered)
	var b strings.Builder

	if hidden := len(h.Tokens) - (end - start); hidden > 0 {
		marker := fmt.Sprintf("+%d columns hidden", hidden)
		if start > 0 {
			marker = "◂ " + marker
		}
		if end < len(h.Tokens) {
			marker += " ▸"
		}
		b.WriteString(theme.DimStyle.Render(marker) + "\n")
	}

	// Column header: first rune of each key token.
	b.WriteString(strings.Repeat(" ", heatLabelWidth+1))
	for j := start; j < end; j++ {
		r := []rune(strings.TrimSpace(h.Tokens[j]) + " ")
		style := theme.DimStyle
		if hovered != nil && hovered.Col == j {
			style = theme.LabelStyle
		}
		b.WriteString(style.Render(" " + string(r[0]) + " "))
	}
	b.WriteString("\n")

	for i, row := range h.Cells {
		label := utils.PadRight(utils.TruncateString(tokenLabel(h.Tokens, i), heatLabelWidth), heatLabelWidth)
		labelStyle := theme.DimStyle
		if hovered != nil && hovered.Row == i {
			labelStyle = theme.LabelStyle
		}
		b.WriteString(labelStyle.Render(label) + " ")

		for j := start; j < end && j < len(row); j++ {
			bg := Blend(theme.ColorHeatLow, theme.ColorHeatHigh, row[j].Intensity)
			text := "   "
			if hovered != nil && hovered.Row == i && hovered.Col == j {
				text = "[ ]"
			}
			b.WriteString(lipgloss.NewStyle().
				Background(bg).
				Foreground(Contrast(bg)).
				Render(text))
		}
		if i < len(h.Cells)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func tokenLabel(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

// HeadSelector draws the head tabs with the selected head highlighted.
func HeadSelector(selected, numHeads int) string {
	if numHeads <= 0 {
		return theme.DimStyle.Render("Head selector disabled")
	}
	parts := make([]string, 0, numHeads)
	for i := 0; i < numHeads; i++ {
		style := theme.ChipStyle
		if i == selected {
			style = theme.ChipSelectedStyle
		}
		parts = append(parts, style.Render(headLabel(i)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, intersperse(parts, " ")...)
}

func headLabel(i int) string {
	return "H" + strconv.Itoa(i)
}

func intersperse(parts []string, sep string) []string {
	if len(parts) < 2 {
		return parts
	}
	out := make([]string, 0, len(parts)*2-1)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
