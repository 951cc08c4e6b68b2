package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/orchestrator"
)

type stubClient struct {
	mu            sync.Mutex
	requests      map[string][]analysis.Request
	failAttention bool
	heads         int
	attnTokens    int
	predictions   analysis.PredictionSet
	analogy       analysis.AnalogyResult
}

func newStubClient() *stubClient {
	return &stubClient{requests: make(map[string][]analysis.Request), heads: 2}
}

func (c *stubClient) record(op string, req analysis.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests[op] = append(c.requests[op], req)
}

func (c *stubClient) last(op string) analysis.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	reqs := c.requests[op]
	if len(reqs) == 0 {
		return analysis.Request{}
	}
	return reqs[len(reqs)-1]
}

func (c *stubClient) Predict(_ context.Context, req analysis.Request) (analysis.PredictionSet, error) {
	c.record("predict", req)
	if c.predictions != nil {
		return c.predictions, nil
	}
	return analysis.PredictionSet{{Token: " mat", Prob: 0.6}, {Token: " rug", Prob: 0.2}}, nil
}

func (c *stubClient) Attention(_ context.Context, req analysis.Request) (*analysis.AttentionTensor, error) {
	c.record("attention", req)
	if c.failAttention {
		return nil, &analysis.Error{Code: analysis.CodeStatus, Kind: analysis.KindService, Op: "attention", StatusCode: 500, Message: "boom"}
	}
	if c.attnTokens > 0 {
		tokens := make([]string, c.attnTokens)
		rows := make([][]float64, c.attnTokens)
		for i := range tokens {
			tokens[i] = fmt.Sprintf("w%d", i)
			rows[i] = make([]float64, c.attnTokens)
			rows[i][i] = 1
		}
		return &analysis.AttentionTensor{Tokens: tokens, Attention: [][][]float64{rows}}, nil
	}
	heads := make([][][]float64, c.heads)
	for i := range heads {
		heads[i] = [][]float64{{1, 0}, {0.4, 0.6}}
	}
	return &analysis.AttentionTensor{Tokens: []string{"The", " cat"}, Attention: heads}, nil
}

func (c *stubClient) Embeddings(context.Context) (analysis.EmbeddingProjection, error) {
	c.record("embeddings", analysis.Request{})
	return analysis.EmbeddingProjection{{Token: "a", X: 0, Y: 0}, {Token: "b", ID: 1, X: 1, Y: 1}}, nil
}

func (c *stubClient) Activations(_ context.Context, req analysis.Request) (analysis.Activations, error) {
	c.record("activations", req)
	return analysis.Activations(json.RawMessage(`{"layer":[1,2]}`)), nil
}

func (c *stubClient) Weights(context.Context) (analysis.WeightSpectrum, error) {
	c.record("weights", analysis.Request{})
	return analysis.WeightSpectrum{{Head: 0, SingularValues: []float64{4, 2, 1}}}, nil
}

func (c *stubClient) Analogy(_ context.Context, req analysis.Request) (analysis.AnalogyResult, error) {
	c.record("analogy", req)
	if c.analogy != nil {
		return c.analogy, nil
	}
	return analysis.AnalogyResult{{Token: "queen", Score: 0.91}, {Token: "princess", Score: 0.7}}, nil
}

func (c *stubClient) TokenPredictions(_ context.Context, req analysis.Request) (analysis.TokenConfidenceSet, error) {
	c.record("tokens", req)
	return analysis.TokenConfidenceSet{
		{ActualToken: "The", ActualTokenID: 464, ActualProb: 0.1},
		{ActualToken: " cat", ActualTokenID: 3797, ActualProb: 0.4,
			TopK: analysis.PredictionSet{{Token: " dog", Prob: 0.5}}},
	}, nil
}

func (c *stubClient) Eigenvalues(_ context.Context, req analysis.Request) (analysis.EigenSpectrum, error) {
	c.record("eigenvalues", req)
	return analysis.EigenSpectrum{{Head: 0, Eigenvalues: []float64{3, 1}, RankEstimate: 2, NumSignificant: 1}}, nil
}

func (c *stubClient) InductionScore(_ context.Context, req analysis.Request) (analysis.BehaviorProfile, error) {
	c.record("behavior", req)
	profile := make(analysis.BehaviorProfile, c.heads)
	for i := range profile {
		profile[i] = analysis.HeadBehavior{Head: i, BehaviorType: analysis.BehaviorInduction, InductionScore: 0.5}
	}
	return profile, nil
}

func (c *stubClient) LogitLens(_ context.Context, req analysis.Request) (analysis.LogitLensTrace, error) {
	c.record("lens", req)
	return analysis.LogitLensTrace{{
		Token:        "The",
		PreAttention: analysis.PredictionSet{{Token: " a", Prob: 0.1}},
		Final:        analysis.PredictionSet{{Token: " cat", Prob: 0.3}},
	}}, nil
}

// collect runs cmd and returns its messages, following batches. Only
// commands that return without waiting are expected here.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(t, c)...)
	}
	return out
}

func results(t *testing.T, cmd tea.Cmd) []orchestrator.ResultMsg {
	t.Helper()
	var out []orchestrator.ResultMsg
	for _, msg := range collect(t, cmd) {
		if r, ok := msg.(orchestrator.ResultMsg); ok {
			out = append(out, r)
		}
	}
	return out
}

// feed applies every result produced by cmd to m.
func feed(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range results(t, cmd) {
		m, _ = m.Update(msg)
	}
	return m
}

func newTestModel(t *testing.T, c *stubClient) Model {
	t.Helper()
	m := New(Options{
		Client:    c,
		TopK:      5,
		Positive:  []string{"king", "woman"},
		Negative:  []string{"man"},
		ExportDir: t.TempDir(),
	})
	m.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func submit(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.focus(InputPanel)
	m.input.SetValue(text)
	m, cmd := m.Update(enter)
	return feed(t, m, cmd)
}

func selectView(m Model, view orchestrator.ViewID) Model {
	for i, item := range m.sidebarItems {
		if item.View == view {
			m.cursor = i
		}
	}
	m.focus(MainPanel)
	m.syncContent()
	return m
}

func TestSubmitFillsTextViews(t *testing.T) {
	c := newStubClient()
	m := submit(t, newTestModel(t, c), "The cat")

	for _, v := range orchestrator.TextViews {
		assert.Equal(t, orchestrator.StatusReady, m.orch.Slot(v).Status, v.String())
	}
	assert.Equal(t, "The cat", c.last("predict").Text)
	assert.Equal(t, 5, c.last("predict").TopK)
	assert.Contains(t, m.View(), "mat")
}

func TestEmptyInputLeavesViewsIdle(t *testing.T) {
	c := newStubClient()
	m := submit(t, newTestModel(t, c), "   ")

	assert.Equal(t, orchestrator.StatusIdle, m.orch.Slot(orchestrator.ViewPrediction).Status)
	assert.Empty(t, c.requests["predict"])
	assert.Contains(t, m.View(), "Enter text to analyze")
}

func TestFailureStaysInItsView(t *testing.T) {
	c := newStubClient()
	c.failAttention = true
	m := submit(t, newTestModel(t, c), "The cat")

	assert.Equal(t, orchestrator.StatusReady, m.orch.Slot(orchestrator.ViewPrediction).Status)
	assert.Equal(t, orchestrator.StatusError, m.orch.Slot(orchestrator.ViewAttention).Status)
	assert.NotContains(t, m.View(), "boom")

	m = selectView(m, orchestrator.ViewAttention)
	assert.Contains(t, m.View(), "press r to retry")
}

func TestStaleResultIsIgnored(t *testing.T) {
	c := newStubClient()
	m := newTestModel(t, c)

	m.input.SetValue("first")
	m, first := m.Update(enter)
	m.input.SetValue("second")
	m, second := m.Update(enter)

	m = feed(t, m, second)
	m = feed(t, m, first)

	assert.Equal(t, orchestrator.StatusReady, m.orch.Slot(orchestrator.ViewPrediction).Status)
	assert.Equal(t, uint64(2), m.orch.Generation(orchestrator.ViewPrediction))
}

func TestHeadIsClampedWhenHeadsShrink(t *testing.T) {
	c := newStubClient()
	c.heads = 4
	m := submit(t, newTestModel(t, c), "The cat")
	m = selectView(m, orchestrator.ViewAttention)

	m, _ = m.Update(runes("]"))
	m, _ = m.Update(runes("]"))
	m, _ = m.Update(runes("]"))
	require.Equal(t, 3, m.sel.Attention.Head)

	c.heads = 2
	m = submit(t, m, "The cat")
	assert.Equal(t, 1, m.sel.Attention.Head)
}

func TestBehaviorHeadClampedWhenHeadsShrink(t *testing.T) {
	c := newStubClient()
	m := submit(t, newTestModel(t, c), "The cat")
	m = selectView(m, orchestrator.ViewBehavior)

	m, _ = m.Update(runes("]"))
	require.Equal(t, 1, m.sel.Behavior.Head)

	c.heads = 1
	m = submit(t, m, "The cat")
	assert.Equal(t, 0, m.sel.Behavior.Head)
	assert.Contains(t, m.View(), "Head 0")
}

func TestAttentionHoverShowsTooltip(t *testing.T) {
	m := submit(t, newTestModel(t, newStubClient()), "The cat")
	m = selectView(m, orchestrator.ViewAttention)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, m.sel.Attention.Hovered)
	assert.Equal(t, 1, m.sel.Attention.Hovered.Row)
	assert.Equal(t, 0, m.sel.Attention.Hovered.Col)
	assert.Contains(t, m.View(), "40.00%")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.sel.Attention.Hovered)
}

func TestAttentionHoverScrollsWideHeatmap(t *testing.T) {
	c := newStubClient()
	c.attnTokens = 60
	m := submit(t, newTestModel(t, c), "a long input")
	m = selectView(m, orchestrator.ViewAttention)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	for i := 0; i < 70; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	require.NotNil(t, m.sel.Attention.Hovered)
	assert.Equal(t, 59, m.sel.Attention.Hovered.Col)

	out := m.View()
	assert.Contains(t, out, "[ ]", "the hovered cell is on screen")
	assert.Contains(t, out, "columns hidden")
}

func TestTokensAreFormattedOnce(t *testing.T) {
	c := newStubClient()
	c.predictions = analysis.PredictionSet{{Token: "  in", Prob: 0.5}}
	c.analogy = analysis.AnalogyResult{{Token: "  x", Score: 0.5}}

	m := submit(t, newTestModel(t, c), "The cat")
	m = selectView(m, orchestrator.ViewPrediction)
	assert.Contains(t, m.View(), "1. · in")
	assert.NotContains(t, m.View(), "··in")

	m = selectView(m, orchestrator.ViewAnalogy)
	m, cmd := m.Update(enter)
	m = feed(t, m, cmd)
	require.Len(t, m.analogyTable.Rows(), 1)
	assert.Equal(t, "· x", m.analogyTable.Rows()[0][1])
}

func TestTopKChangeRefetchesOnlyThatView(t *testing.T) {
	c := newStubClient()
	m := submit(t, newTestModel(t, c), "The cat")
	m = selectView(m, orchestrator.ViewPrediction)
	before := len(c.requests["attention"])

	m, cmd := m.Update(runes("+"))
	m = feed(t, m, cmd)

	assert.Equal(t, 6, m.orch.Params(orchestrator.ViewPrediction).TopK)
	assert.Equal(t, 6, c.last("predict").TopK)
	assert.Len(t, c.requests["attention"], before)
}

func TestAnalogyEditAndCalculate(t *testing.T) {
	c := newStubClient()
	m := selectView(newTestModel(t, c), orchestrator.ViewAnalogy)

	m, _ = m.Update(runes("p"))
	require.True(t, m.editingWord)
	m.wordInput.SetValue("queen")
	m, _ = m.Update(enter)
	assert.False(t, m.editingWord)

	pos, _ := m.sel.Analogy.Words()
	assert.Equal(t, []string{"king", "woman", "queen"}, pos)
	assert.Equal(t, orchestrator.StatusIdle, m.orch.Slot(orchestrator.ViewAnalogy).Status, "editing does not fetch")
	assert.Contains(t, m.View(), "king + woman + queen - man = ?")

	m, cmd := m.Update(enter)
	m = feed(t, m, cmd)

	req := c.last("analogy")
	assert.Equal(t, []string{"king", "woman", "queen"}, req.PositiveWords)
	assert.Equal(t, []string{"man"}, req.NegativeWords)
	assert.Len(t, m.analogyTable.Rows(), 2)
	assert.Contains(t, m.View(), "0.9100")
}

func TestAnalogyRemoveWord(t *testing.T) {
	m := selectView(newTestModel(t, newStubClient()), orchestrator.ViewAnalogy)

	m, _ = m.Update(runes("x"))
	pos, neg := m.sel.Analogy.Words()
	assert.Equal(t, []string{"woman"}, pos)
	assert.Equal(t, []string{"man"}, neg)
	assert.Equal(t, []string{"woman"}, m.orch.Params(orchestrator.ViewAnalogy).Positive)
}

func TestExportSpectrum(t *testing.T) {
	m := submit(t, newTestModel(t, newStubClient()), "The cat")
	m = selectView(m, orchestrator.ViewEigenvalues)

	m, cmd := m.Update(runes("e"))
	require.NotNil(t, cmd)
	for _, msg := range collect(t, cmd) {
		m, _ = m.Update(msg)
	}

	assert.False(t, m.statusErr)
	require.True(t, strings.HasPrefix(m.status, "Saved "))
	path := strings.TrimPrefix(m.status, "Saved ")
	assert.True(t, strings.HasSuffix(path, "eigenvalues_20261015_120000.png"))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestExportWithoutDataReportsStatus(t *testing.T) {
	m := selectView(newTestModel(t, newStubClient()), orchestrator.ViewWeights)

	m, _ = m.Update(runes("e"))
	assert.True(t, m.statusErr)
	assert.Equal(t, "Nothing to export yet", m.status)
}

func TestSnapshotsLoadIndependently(t *testing.T) {
	c := newStubClient()
	m := newTestModel(t, c)
	m = feed(t, m, m.orch.LoadSnapshots())

	assert.Equal(t, orchestrator.StatusReady, m.orch.Slot(orchestrator.ViewEmbeddings).Status)
	assert.Equal(t, orchestrator.StatusReady, m.orch.Slot(orchestrator.ViewWeights).Status)
	assert.Equal(t, orchestrator.StatusIdle, m.orch.Slot(orchestrator.ViewPrediction).Status)

	m = selectView(m, orchestrator.ViewEmbeddings)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.embedCursor)
	assert.Contains(t, m.View(), "Token ID: 0")
}

func TestPanelCycleAndQuit(t *testing.T) {
	m := newTestModel(t, newStubClient())
	require.Equal(t, InputPanel, m.activePanel)

	m, _ = m.Update(runes("q"))
	assert.True(t, strings.HasSuffix(m.input.Value(), "q"), "q types into the input")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, MainPanel, m.activePanel)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, SidebarPanel, m.activePanel)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, orchestrator.ViewAttention, m.currentView())

	_, cmd := m.Update(runes("q"))
	assert.Contains(t, collect(t, cmd), tea.Quit())
}

func TestCompactLayout(t *testing.T) {
	m := newTestModel(t, newStubClient())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	out := m.View()
	assert.Contains(t, out, "Attention Lens")
	assert.NotContains(t, out, "Views")
}
