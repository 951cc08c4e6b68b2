package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/orchestrator"
	"github.com/Yuralo/Attention-Lens/internal/render"
	"github.com/Yuralo/Attention-Lens/internal/theme"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

// renderView draws one view from its slot. Each view reads only its own
// slot, so a failure elsewhere never shows up here.
func (m *Model) renderView(view orchestrator.ViewID, width int) string {
	if view == orchestrator.ViewAnalogy {
		return m.renderAnalogy(width)
	}

	slot := m.orch.Slot(view)
	if body, done := m.renderSlotState(view, slot); done {
		return body
	}

	switch view {
	case orchestrator.ViewPrediction:
		set, _ := orchestrator.PayloadAs[analysis.PredictionSet](slot)
		return m.renderPrediction(set, width)
	case orchestrator.ViewAttention:
		t, _ := orchestrator.PayloadAs[*analysis.AttentionTensor](slot)
		return m.renderAttention(t, width)
	case orchestrator.ViewTokens:
		set, _ := orchestrator.PayloadAs[analysis.TokenConfidenceSet](slot)
		return m.renderTokens(set, width)
	case orchestrator.ViewEigenvalues:
		spec, _ := orchestrator.PayloadAs[analysis.EigenSpectrum](slot)
		return m.renderEigenvalues(spec, width)
	case orchestrator.ViewBehavior:
		p, _ := orchestrator.PayloadAs[analysis.BehaviorProfile](slot)
		return m.renderBehavior(p, width)
	case orchestrator.ViewLogitLens:
		trace, _ := orchestrator.PayloadAs[analysis.LogitLensTrace](slot)
		return m.renderLogitLens(trace, width)
	case orchestrator.ViewEmbeddings:
		p, _ := orchestrator.PayloadAs[analysis.EmbeddingProjection](slot)
		return m.renderEmbeddings(p, width)
	case orchestrator.ViewWeights:
		spec, _ := orchestrator.PayloadAs[analysis.WeightSpectrum](slot)
		return m.renderWeights(spec, width)
	case orchestrator.ViewActivations:
		a, _ := orchestrator.PayloadAs[analysis.Activations](slot)
		return m.renderActivations(a)
	}
	return render.None("Unknown view")
}

// renderSlotState covers every status except ready. done is false when the
// caller should draw the payload.
func (m *Model) renderSlotState(view orchestrator.ViewID, slot orchestrator.Slot) (body string, done bool) {
	switch slot.Status {
	case orchestrator.StatusIdle:
		return render.None(idleMessage(view)), true
	case orchestrator.StatusLoading:
		return m.spinner.View() + " " + theme.DimStyle.Render("Loading "+view.String()+"..."), true
	case orchestrator.StatusError:
		if analysis.KindOf(slot.Err) == analysis.KindEmptyInput {
			return render.None(idleMessage(view)), true
		}
		return render.Errorf("%v", slot.Err) + "\n" + theme.DimStyle.Render("press r to retry"), true
	}
	return "", false
}

func idleMessage(view orchestrator.ViewID) string {
	switch view {
	case orchestrator.ViewEmbeddings, orchestrator.ViewWeights:
		return "Not loaded yet. Press r to load."
	case orchestrator.ViewAnalogy:
		return "Add words and calculate to see results"
	}
	return "Enter text to analyze"
}

func (m *Model) topKLine(view orchestrator.ViewID) string {
	return theme.DimStyle.Render(fmt.Sprintf("top_k = %d   +/- to adjust", m.orch.Params(view).TopK))
}

func (m *Model) renderPrediction(set analysis.PredictionSet, width int) string {
	p := encode.Prediction(set)
	if p.Empty() {
		return render.None("No predictions")
	}

	bars := make([]render.Bar, len(p.Bars))
	for i, b := range p.Bars {
		bars[i] = render.Bar{
			Label:    fmt.Sprintf("%d. %s", b.Rank, b.Token),
			Fraction: b.Fraction,
			Text:     b.Percent,
			Color:    render.Blend(theme.ColorBackgroundLighter, theme.ColorAccent, b.Intensity),
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.LabelStyle.Render("Top Predictions"),
		render.Bars(bars, width),
		"",
		m.topKLine(orchestrator.ViewPrediction),
	)
}

func (m *Model) renderAttention(t *analysis.AttentionTensor, width int) string {
	h := encode.AttentionHeatmap(t, m.sel.Attention.Head)
	parts := []string{
		render.HeadSelector(h.Head, h.NumHeads),
		"",
		render.Heatmap(h, m.sel.Attention.Hovered, width),
		"",
	}

	if c := m.sel.Attention.Hovered; c != nil {
		if tip, ok := h.Tooltip(c.Row, c.Col); ok {
			parts = append(parts, theme.TooltipStyle.Render(tip))
		}
	} else if !h.Empty() {
		parts = append(parts, theme.DimStyle.Render("arrows: inspect a cell   [ ]: change head"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderTokens(set analysis.TokenConfidenceSet, width int) string {
	idx, has := m.sel.Tokens.Index()
	c := encode.TokenConfidence(set, idx, has)
	if c.Empty() {
		return render.None("No tokens")
	}

	chips := make([]string, len(c.Tokens))
	for i, tok := range c.Tokens {
		bg := render.Blend(theme.ColorConfLow, theme.ColorConfHigh, tok.Intensity)
		style := lipgloss.NewStyle().
			Background(bg).
			Foreground(render.Contrast(bg)).
			Padding(0, 1)
		if has && tok.Position == idx {
			style = style.Background(theme.ColorHighlight).Foreground(theme.ColorBackground).Bold(true)
		}
		chips[i] = style.Render(tok.Token)
	}

	parts := []string{flow(chips, width), ""}
	if d := c.Hovered; d != nil {
		detail := lipgloss.JoinVertical(lipgloss.Left,
			theme.LabelStyle.Render(d.Token.Token)+"  "+theme.TextStyle.Render(d.Token.Percent),
			theme.DimStyle.Render("Top Alternatives:"),
			render.RankedList(d.Alternatives, utils.Max(10, width-4)),
			theme.DimStyle.Render(d.Footer),
		)
		parts = append(parts, theme.TooltipStyle.Render(detail))
	} else {
		parts = append(parts, theme.DimStyle.Render("←/→: inspect a token"))
	}
	parts = append(parts, "", m.topKLine(orchestrator.ViewTokens))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) chartHeight() int {
	return utils.Clamp(m.viewport.Height-8, 8, 24)
}

func (m *Model) renderEigenvalues(spec analysis.EigenSpectrum, width int) string {
	s := encode.EigenSpectrum(spec)

	cards := make([]string, len(s.Summaries))
	for i, sum := range s.Summaries {
		cards[i] = theme.CardStyle.Copy().
			BorderForeground(theme.SeriesColor(i)).
			Render(fmt.Sprintf("Head %d\nRank: %d\nSignificant: %d", sum.Head, sum.RankEstimate, sum.NumSignificant))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		flowBlocks(cards, width),
		"",
		render.LineChart(s, width, m.chartHeight()),
		render.SeriesLegend(s),
		"",
		theme.DimStyle.Render("log scale   e: export PNG"),
	)
}

func (m *Model) renderWeights(spec analysis.WeightSpectrum, width int) string {
	s := encode.WeightSpectrum(spec)
	return lipgloss.JoinVertical(lipgloss.Left,
		render.LineChart(s, width, m.chartHeight()),
		render.SeriesLegend(s),
		"",
		theme.DimStyle.Render("log scale   e: export PNG"),
	)
}

func (m *Model) renderBehavior(p analysis.BehaviorProfile, width int) string {
	b := encode.BehaviorProfile(p, m.sel.Behavior.Head)
	if b.Disabled {
		return render.None("No attention heads")
	}

	badges := make([]string, len(b.Badges))
	for i, badge := range b.Badges {
		color := theme.BehaviorColor(badge.Type)
		style := theme.CardStyle
		if badge.Selected {
			style = theme.CardSelectedStyle.Copy().BorderForeground(color)
		}
		badges[i] = style.Render(
			lipgloss.NewStyle().Foreground(color).Render(badge.Icon) + fmt.Sprintf(" H%d", badge.Head) + "\n" +
				theme.DimStyle.Render(badge.Type.String()))
	}

	selColor := theme.BehaviorColor(b.Selected.Type)
	selected := theme.LabelStyle.Render(fmt.Sprintf("Head %d", b.Head)) + "  " +
		lipgloss.NewStyle().Foreground(selColor).Render(b.Selected.Icon+" "+b.Selected.Type.String())

	scoreColors := []lipgloss.Color{
		theme.ColorScoreCopying,
		theme.ColorScoreInduction,
		theme.ColorScoreDiagonal,
		theme.ColorScorePrevToken,
	}
	scores := make([]string, len(b.Scores))
	for i, s := range b.Scores {
		scores[i] = render.ScoreBar(s.Label, s.Percent, s.Text, width, scoreColors[i%len(scoreColors)])
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		flowBlocks(badges, width),
		"",
		selected,
		strings.Join(scores, "\n"),
		"",
		theme.LabelStyle.Render("Copying Examples"),
		examples(b.Copying, "No copying detected"),
		"",
		theme.LabelStyle.Render("Induction Examples"),
		examples(b.Induction, "No induction detected"),
		"",
		theme.DimStyle.Render("[ ]: change head"),
	)
}

func examples(list []encode.Example, empty string) string {
	if len(list) == 0 {
		return render.None(empty)
	}
	lines := make([]string, len(list))
	for i, ex := range list {
		lines[i] = theme.TextStyle.Render(ex.Title) + "  " + theme.DimStyle.Render(ex.Detail)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLogitLens(trace analysis.LogitLensTrace, width int) string {
	rows := encode.LogitLens(trace)
	if len(rows) == 0 {
		return render.None("No positions")
	}

	colWidth := utils.Max(12, (width-5)/2)
	arrow := theme.DimStyle.Render("  →  ")
	blocks := make([]string, 0, len(rows)+1)
	for _, r := range rows {
		head := theme.LabelStyle.Render(fmt.Sprintf("#%d ", r.Position)) + theme.TextStyle.Render(r.Token)
		pre := lipgloss.JoinVertical(lipgloss.Left,
			theme.DimStyle.Render("Before attention"),
			render.RankedList(r.PreAttention, colWidth))
		final := lipgloss.JoinVertical(lipgloss.Left,
			theme.DimStyle.Render("Final"),
			render.RankedList(r.Final, colWidth))
		body := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(colWidth).Render(pre), arrow, final)
		blocks = append(blocks, head+"\n"+body+"\n")
	}
	blocks = append(blocks, m.topKLine(orchestrator.ViewLogitLens))
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *Model) renderEmbeddings(p analysis.EmbeddingProjection, width int) string {
	s := encode.Embeddings(p)
	legend := render.Legend(
		[]string{fmt.Sprintf("First %d tokens", encode.HighlightedCount), "Other tokens"},
		[]lipgloss.Color{render.CategoryColor(encode.CategoryFirst), render.CategoryColor(encode.CategoryOther)},
	)

	parts := []string{render.Scatter(s, width, m.chartHeight(), m.embedCursor), legend, ""}
	if tip, ok := s.Tooltip(m.embedCursor); ok {
		parts = append(parts, theme.TooltipStyle.Render(tip))
	} else if !s.Empty() {
		parts = append(parts, theme.DimStyle.Render("←/→: inspect a point"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderAnalogy(width int) string {
	pos, neg := m.sel.Analogy.Words()
	chips := make([]string, 0, len(pos)+len(neg))
	for i, w := range pos {
		chips = append(chips, m.wordChip("+ "+w, theme.ColorSuccess, i))
	}
	for i, w := range neg {
		chips = append(chips, m.wordChip("− "+w, theme.ColorError, len(pos)+i))
	}

	words := render.None("No words")
	if len(chips) > 0 {
		words = flow(chips, width)
	}

	parts := []string{
		theme.TitleStyle.Render(m.sel.Analogy.Equation()),
		"",
		words,
		"",
	}
	if m.editingWord {
		label := "Add positive word: "
		if m.wordSign == signNegative {
			label = "Add negative word: "
		}
		parts = append(parts, theme.LabelStyle.Render(label)+m.wordInput.View())
	} else {
		parts = append(parts, theme.DimStyle.Render("p/n: add word   ←/→ x: remove   enter: calculate"))
	}
	parts = append(parts, "", m.renderAnalogyResults(), "", m.topKLine(orchestrator.ViewAnalogy))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) wordChip(text string, color lipgloss.Color, i int) string {
	style := theme.ChipStyle.Copy().Foreground(color)
	if i == m.sel.Analogy.Cursor && m.activePanel == MainPanel {
		style = theme.ChipSelectedStyle.Copy().Background(color)
	}
	return style.Render(text)
}

func (m *Model) renderAnalogyResults() string {
	slot := m.orch.Slot(orchestrator.ViewAnalogy)
	if body, done := m.renderSlotState(orchestrator.ViewAnalogy, slot); done {
		return body
	}
	if len(m.analogyTable.Rows()) == 0 {
		return render.None("No results")
	}
	return m.analogyTable.View()
}

// flow lays out inline chips left to right, wrapping at width.
func flow(chips []string, width int) string {
	var lines []string
	var line string
	for _, c := range chips {
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(c) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += c
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// flowBlocks is flow for multi-line blocks such as cards.
func flowBlocks(blocks []string, width int) string {
	var rows []string
	var row []string
	rowWidth := 0
	for _, b := range blocks {
		w := lipgloss.Width(b)
		if len(row) > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, b)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
