package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/config"
	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/orchestrator"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.orch.InputChanged(m.input.Value()),
		m.orch.LoadSnapshots(),
		tickEvery(),
		m.spinner.Tick,
		readStats(),
		m.checkHealth(),
		textinput.Blink,
	)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = utils.Max(10, msg.Width-8)
		m.ready = true

	case tickMsg:
		m.lastUpdate = time.Time(msg)
		cmds = append(cmds, readStats(), m.checkHealth(), tickEvery())

	case statsMsg:
		if msg.err != nil {
			m.logger.Debug("host stats incomplete", "error", msg.err)
		}
		m.stats = msg.stats

	case healthMsg:
		if m.healthKnown && m.healthy != bool(msg) {
			m.logger.Info("service health changed", "healthy", bool(msg))
		}
		m.healthy = bool(msg)
		m.healthKnown = true

	case orchestrator.ResultMsg:
		if m.orch.Apply(msg) {
			m.afterApply(msg.View)
		}

	case exportedMsg:
		if msg.err != nil {
			m.setStatus("Export failed: "+msg.err.Error(), true)
			m.logger.Warn("export failed", "view", msg.view.String(), "error", msg.err)
		} else {
			m.setStatus("Saved "+msg.path, false)
			m.logger.Info("spectrum exported", "view", msg.view.String(), "path", msg.path)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	m.syncContent()
	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// afterApply re-bounds view-local selection against a freshly applied slot.
// Failed fetches leave the selection alone so it survives a retry.
func (m *Model) afterApply(view orchestrator.ViewID) {
	slot := m.orch.Slot(view)
	if slot.Status != orchestrator.StatusReady {
		return
	}

	switch view {
	case orchestrator.ViewAttention:
		t, _ := orchestrator.PayloadAs[*analysis.AttentionTensor](slot)
		n := 0
		if t != nil {
			n = t.NumHeads()
		}
		m.sel.Attention.Clamp(n)
		m.rehoverAttention(t)

	case orchestrator.ViewBehavior:
		p, _ := orchestrator.PayloadAs[analysis.BehaviorProfile](slot)
		m.sel.Behavior.Clamp(len(p))

	case orchestrator.ViewTokens:
		set, _ := orchestrator.PayloadAs[analysis.TokenConfidenceSet](slot)
		if idx, ok := m.sel.Tokens.Index(); ok {
			m.sel.Tokens.Hover(idx, len(set))
		}

	case orchestrator.ViewEmbeddings:
		p, _ := orchestrator.PayloadAs[analysis.EmbeddingProjection](slot)
		if m.embedCursor >= len(p) {
			m.embedCursor = -1
		}

	case orchestrator.ViewAnalogy:
		r, _ := orchestrator.PayloadAs[analysis.AnalogyResult](slot)
		m.setAnalogyRows(encode.Analogy(r))
	}
}

// rehoverAttention keeps a hovered cell that still exists in the new tensor
// and refreshes its value.
func (m *Model) rehoverAttention(t *analysis.AttentionTensor) {
	c := m.sel.Attention.Hovered
	if c == nil {
		return
	}
	h := encode.AttentionHeatmap(t, m.sel.Attention.Head)
	if h.Empty() || c.Row >= len(h.Cells) || c.Col >= len(h.Cells[c.Row]) {
		m.sel.Attention.ClearHover()
		return
	}
	m.sel.Attention.HoverCell(c.Row, c.Col, h.Cells[c.Row][c.Col].Value)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}
	if m.editingWord {
		return m.handleWordKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		return m.focus((m.activePanel + 1) % 3)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.focus((m.activePanel + 2) % 3)
	}

	if m.activePanel == InputPanel {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return nil
	}

	if m.activePanel == SidebarPanel {
		return m.handleSidebarKey(msg)
	}
	return m.handleMainKey(msg)
}

func (m *Model) focus(p Panel) tea.Cmd {
	m.activePanel = p
	if p == InputPanel {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Enter) {
		m.setStatus("", false)
		return m.orch.InputChanged(m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.viewport.GotoTop()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.sidebarItems)-1 {
			m.cursor++
			m.viewport.GotoTop()
		}
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Right):
		return m.focus(MainPanel)
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh(m.currentView())
	}
	return nil
}

func (m *Model) handleMainKey(msg tea.KeyMsg) tea.Cmd {
	view := m.currentView()

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh(view)
	case key.Matches(msg, m.keys.MoreK) && view.UsesTopK():
		return m.adjustTopK(view, 1)
	case key.Matches(msg, m.keys.LessK) && view.UsesTopK():
		return m.adjustTopK(view, -1)
	}

	switch view {
	case orchestrator.ViewAttention:
		if m.attentionKey(msg) {
			return nil
		}
	case orchestrator.ViewBehavior:
		if m.behaviorKey(msg) {
			return nil
		}
	case orchestrator.ViewTokens:
		if m.tokensKey(msg) {
			return nil
		}
	case orchestrator.ViewEmbeddings:
		if m.embeddingsKey(msg) {
			return nil
		}
	case orchestrator.ViewEigenvalues, orchestrator.ViewWeights:
		if key.Matches(msg, m.keys.Export) {
			return m.exportSpectrum(view)
		}
	case orchestrator.ViewAnalogy:
		if cmd, ok := m.analogyKey(msg); ok {
			return cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// refresh refetches one view with its current inputs.
func (m *Model) refresh(view orchestrator.ViewID) tea.Cmd {
	if view == orchestrator.ViewAnalogy {
		return m.calculateAnalogy()
	}
	return m.orch.Refresh(view)
}

func (m *Model) adjustTopK(view orchestrator.ViewID, delta int) tea.Cmd {
	p := m.orch.Params(view)
	k := utils.Clamp(p.TopK+delta, config.MinTopK, config.MaxTopK)
	if k == p.TopK {
		return nil
	}
	p.TopK = k
	return m.orch.ParamChanged(view, p)
}

func (m *Model) attentionKey(msg tea.KeyMsg) bool {
	t, _ := orchestrator.PayloadAs[*analysis.AttentionTensor](m.orch.Slot(orchestrator.ViewAttention))
	n := 0
	if t != nil {
		n = t.NumHeads()
	}

	switch {
	case key.Matches(msg, m.keys.NextHead):
		m.sel.Attention.NextHead(n)
	case key.Matches(msg, m.keys.PrevHead):
		m.sel.Attention.PrevHead(n)
	case key.Matches(msg, m.keys.Back):
		m.sel.Attention.ClearHover()
	case key.Matches(msg, m.keys.Up):
		m.moveAttentionHover(t, -1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveAttentionHover(t, 1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveAttentionHover(t, 0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveAttentionHover(t, 0, 1)
	default:
		return false
	}
	return true
}

func (m *Model) moveAttentionHover(t *analysis.AttentionTensor, dRow, dCol int) {
	h := encode.AttentionHeatmap(t, m.sel.Attention.Head)
	if h.Empty() {
		return
	}
	row, col := 0, 0
	if c := m.sel.Attention.Hovered; c != nil {
		row, col = c.Row+dRow, c.Col+dCol
	}
	row = utils.Clamp(row, 0, len(h.Cells)-1)
	if len(h.Cells[row]) == 0 {
		return
	}
	col = utils.Clamp(col, 0, len(h.Cells[row])-1)
	m.sel.Attention.HoverCell(row, col, h.Cells[row][col].Value)
}

func (m *Model) behaviorKey(msg tea.KeyMsg) bool {
	p, _ := orchestrator.PayloadAs[analysis.BehaviorProfile](m.orch.Slot(orchestrator.ViewBehavior))
	switch {
	case key.Matches(msg, m.keys.NextHead), key.Matches(msg, m.keys.Right):
		m.sel.Behavior.NextHead(len(p))
	case key.Matches(msg, m.keys.PrevHead), key.Matches(msg, m.keys.Left):
		m.sel.Behavior.PrevHead(len(p))
	default:
		return false
	}
	return true
}

func (m *Model) tokensKey(msg tea.KeyMsg) bool {
	set, _ := orchestrator.PayloadAs[analysis.TokenConfidenceSet](m.orch.Slot(orchestrator.ViewTokens))
	switch {
	case key.Matches(msg, m.keys.Right):
		m.sel.Tokens.Move(1, len(set))
	case key.Matches(msg, m.keys.Left):
		m.sel.Tokens.Move(-1, len(set))
	case key.Matches(msg, m.keys.Back):
		m.sel.Tokens.Clear()
	default:
		return false
	}
	return true
}

func (m *Model) embeddingsKey(msg tea.KeyMsg) bool {
	p, _ := orchestrator.PayloadAs[analysis.EmbeddingProjection](m.orch.Slot(orchestrator.ViewEmbeddings))
	n := len(p)
	switch {
	case key.Matches(msg, m.keys.Right):
		if n > 0 {
			m.embedCursor = (m.embedCursor + 1) % n
		}
	case key.Matches(msg, m.keys.Left):
		if n > 0 {
			if m.embedCursor <= 0 {
				m.embedCursor = n - 1
			} else {
				m.embedCursor--
			}
		}
	case key.Matches(msg, m.keys.Back):
		m.embedCursor = -1
	default:
		return false
	}
	return true
}

func (m *Model) analogyKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.AddPositive):
		return m.startWord(signPositive), true
	case key.Matches(msg, m.keys.AddNegative):
		return m.startWord(signNegative), true
	case key.Matches(msg, m.keys.Remove):
		if m.sel.Analogy.RemoveAtCursor() {
			m.syncAnalogyParams()
		}
		return nil, true
	case key.Matches(msg, m.keys.Left):
		m.sel.Analogy.MoveCursor(-1)
		return nil, true
	case key.Matches(msg, m.keys.Right):
		m.sel.Analogy.MoveCursor(1)
		return nil, true
	case key.Matches(msg, m.keys.Enter):
		return m.calculateAnalogy(), true
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.analogyTable, cmd = m.analogyTable.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (m *Model) startWord(sign wordSign) tea.Cmd {
	m.editingWord = true
	m.wordSign = sign
	m.wordInput.Reset()
	return m.wordInput.Focus()
}

func (m *Model) handleWordKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Enter):
		word := m.wordInput.Value()
		var added bool
		if m.wordSign == signPositive {
			added = m.sel.Analogy.AddPositive(word)
		} else {
			added = m.sel.Analogy.AddNegative(word)
		}
		if added {
			m.syncAnalogyParams()
		}
		m.stopWord()
		return nil
	case key.Matches(msg, m.keys.Back):
		m.stopWord()
		return nil
	}
	var cmd tea.Cmd
	m.wordInput, cmd = m.wordInput.Update(msg)
	return cmd
}

func (m *Model) stopWord() {
	m.editingWord = false
	m.wordInput.Blur()
	m.wordInput.Reset()
}

// syncAnalogyParams stores the edited word lists without fetching. The
// query runs only on an explicit calculate.
func (m *Model) syncAnalogyParams() {
	p := m.orch.Params(orchestrator.ViewAnalogy)
	p.Positive, p.Negative = m.sel.Analogy.Words()
	m.orch.SetParams(orchestrator.ViewAnalogy, p)
}

func (m *Model) calculateAnalogy() tea.Cmd {
	p := m.orch.Params(orchestrator.ViewAnalogy)
	p.Positive, p.Negative = m.sel.Analogy.Words()
	return m.orch.ParamChanged(orchestrator.ViewAnalogy, p)
}
