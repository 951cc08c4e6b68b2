package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/logging"
)

// fakeClient answers from canned values and records every request.
type fakeClient struct {
	mu       sync.Mutex
	requests map[string][]analysis.Request
	fail     map[string]error
	heads    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		requests: make(map[string][]analysis.Request),
		fail:     make(map[string]error),
		heads:    2,
	}
}

func (f *fakeClient) record(op string, req analysis.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[op] = append(f.requests[op], req)
	return f.fail[op]
}

func (f *fakeClient) calls(op string) []analysis.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]analysis.Request(nil), f.requests[op]...)
}

func (f *fakeClient) Predict(_ context.Context, req analysis.Request) (analysis.PredictionSet, error) {
	if err := f.record("predict", req); err != nil {
		return nil, err
	}
	set := make(analysis.PredictionSet, req.TopK)
	for i := range set {
		set[i] = analysis.Prediction{Token: req.Text, Prob: 0.1}
	}
	return set, nil
}

func (f *fakeClient) Attention(_ context.Context, req analysis.Request) (*analysis.AttentionTensor, error) {
	if err := f.record("attention", req); err != nil {
		return nil, err
	}
	return &analysis.AttentionTensor{Attention: make([][][]float64, f.heads), Tokens: []string{req.Text}}, nil
}

func (f *fakeClient) Embeddings(context.Context) (analysis.EmbeddingProjection, error) {
	if err := f.record("embeddings", analysis.Request{}); err != nil {
		return nil, err
	}
	return analysis.EmbeddingProjection{{Token: "a"}}, nil
}

func (f *fakeClient) Activations(_ context.Context, req analysis.Request) (analysis.Activations, error) {
	if err := f.record("activations", req); err != nil {
		return nil, err
	}
	return analysis.Activations(`{}`), nil
}

func (f *fakeClient) Weights(context.Context) (analysis.WeightSpectrum, error) {
	if err := f.record("weights", analysis.Request{}); err != nil {
		return nil, err
	}
	return analysis.WeightSpectrum{{Head: 0, SingularValues: []float64{1}}}, nil
}

func (f *fakeClient) Analogy(_ context.Context, req analysis.Request) (analysis.AnalogyResult, error) {
	if err := f.record("analogy", req); err != nil {
		return nil, err
	}
	return analysis.AnalogyResult{{Token: "queen", Score: 0.7}}, nil
}

func (f *fakeClient) TokenPredictions(_ context.Context, req analysis.Request) (analysis.TokenConfidenceSet, error) {
	if err := f.record("tokens", req); err != nil {
		return nil, err
	}
	return analysis.TokenConfidenceSet{{ActualToken: req.Text}}, nil
}

func (f *fakeClient) Eigenvalues(_ context.Context, req analysis.Request) (analysis.EigenSpectrum, error) {
	if err := f.record("eigenvalues", req); err != nil {
		return nil, err
	}
	return analysis.EigenSpectrum{{Head: 0, Eigenvalues: []float64{1}}}, nil
}

func (f *fakeClient) InductionScore(_ context.Context, req analysis.Request) (analysis.BehaviorProfile, error) {
	if err := f.record("induction", req); err != nil {
		return nil, err
	}
	return make(analysis.BehaviorProfile, f.heads), nil
}

func (f *fakeClient) LogitLens(_ context.Context, req analysis.Request) (analysis.LogitLensTrace, error) {
	if err := f.record("lens", req); err != nil {
		return nil, err
	}
	return analysis.LogitLensTrace{{Token: req.Text}}, nil
}

// run executes cmd and flattens batches into result messages.
func run(t *testing.T, cmd tea.Cmd) []ResultMsg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case ResultMsg:
		return []ResultMsg{msg}
	case tea.BatchMsg:
		var out []ResultMsg
		for _, c := range msg {
			out = append(out, run(t, c)...)
		}
		return out
	case nil:
		return nil
	default:
		t.Fatalf("unexpected message %T", msg)
		return nil
	}
}

func byView(msgs []ResultMsg, view ViewID) ResultMsg {
	for _, m := range msgs {
		if m.View == view {
			return m
		}
	}
	return ResultMsg{}
}

func newTestOrchestrator() (*Orchestrator, *fakeClient) {
	client := newFakeClient()
	return New(client, logging.Discard()), client
}

func TestInputChangedFansOutToTextViews(t *testing.T) {
	o, client := newTestOrchestrator()

	msgs := run(t, o.InputChanged("The cat sat on the"))
	require.Len(t, msgs, len(TextViews))

	for _, v := range TextViews {
		assert.Equal(t, uint64(1), o.Generation(v), v.String())
		assert.Equal(t, StatusLoading, o.Slot(v).Status, v.String())
	}
	for _, v := range SnapshotViews {
		assert.Equal(t, uint64(0), o.Generation(v), "snapshots are not text-subscribed")
	}
	assert.Equal(t, uint64(0), o.Generation(ViewAnalogy))
	assert.Equal(t, len(TextViews), o.Loading())

	for _, m := range msgs {
		assert.True(t, o.Apply(m))
	}
	assert.Equal(t, 0, o.Loading())

	preds, ok := PayloadAs[analysis.PredictionSet](o.Slot(ViewPrediction))
	require.True(t, ok)
	assert.Len(t, preds, DefaultTopK)
	assert.Equal(t, DefaultTopK, client.calls("predict")[0].TopK)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	o, _ := newTestOrchestrator()

	first := o.InputChanged("first")
	second := o.InputChanged("second")

	newer := run(t, second)
	older := run(t, first)

	// Newer generation resolves first, then the superseded one arrives.
	for _, m := range newer {
		assert.True(t, o.Apply(m))
	}
	for _, m := range older {
		assert.False(t, o.Apply(m), "generation %d for %s is stale", m.Generation, m.View)
	}

	lens, ok := PayloadAs[analysis.LogitLensTrace](o.Slot(ViewLogitLens))
	require.True(t, ok)
	assert.Equal(t, "second", lens[0].Token)
}

func TestStaleResponseIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	o := New(newFakeClient(), logger)

	first := run(t, o.InputChanged("first"))
	o.InputChanged("second")
	buf.Reset()

	require.False(t, o.Apply(byView(first, ViewPrediction)))
	assert.Contains(t, buf.String(), `"kind":"stale"`)
	assert.Contains(t, buf.String(), analysis.ErrStale.Message)
}

func TestStaleResponseWhilePending(t *testing.T) {
	o, _ := newTestOrchestrator()

	first := run(t, o.InputChanged("first"))
	o.InputChanged("second")

	assert.False(t, o.Apply(byView(first, ViewAttention)))
	slot := o.Slot(ViewAttention)
	assert.Equal(t, StatusLoading, slot.Status, "pending state from the newer request is kept")
	assert.Nil(t, slot.Payload)
}

func TestParamChangedOnlyRefetchesThatView(t *testing.T) {
	o, client := newTestOrchestrator()
	for _, m := range run(t, o.InputChanged("The cat sat on the")) {
		o.Apply(m)
	}

	msgs := run(t, o.ParamChanged(ViewPrediction, Params{TopK: 8}))
	require.Len(t, msgs, 1)
	assert.Equal(t, ViewPrediction, msgs[0].View)
	assert.Equal(t, uint64(2), o.Generation(ViewPrediction))
	assert.Equal(t, uint64(1), o.Generation(ViewTokens))
	assert.Equal(t, StatusReady, o.Slot(ViewTokens).Status)

	require.True(t, o.Apply(msgs[0]))
	calls := client.calls("predict")
	assert.Equal(t, 8, calls[len(calls)-1].TopK)
	assert.Equal(t, "The cat sat on the", calls[len(calls)-1].Text)
}

func TestEmptyInputLeavesSlotsIdle(t *testing.T) {
	o, client := newTestOrchestrator()
	pending := run(t, o.InputChanged("hello"))

	assert.Empty(t, run(t, o.InputChanged("   ")), "no query is issued")
	for _, v := range TextViews {
		slot := o.Slot(v)
		assert.Equal(t, StatusIdle, slot.Status, v.String())
		assert.Nil(t, slot.Payload)
		assert.Nil(t, slot.Err)
		assert.Equal(t, uint64(2), slot.Generation)
	}

	for _, m := range pending {
		assert.False(t, o.Apply(m), "in-flight responses for the old text are stale")
	}
	assert.Len(t, client.calls("predict"), 1)
}

func TestFailureIsScopedToView(t *testing.T) {
	o, client := newTestOrchestrator()
	boom := &analysis.Error{Code: analysis.CodeStatus, Kind: analysis.KindService, Message: "status 500"}
	client.fail["attention"] = boom

	for _, m := range run(t, o.InputChanged("abc")) {
		o.Apply(m)
	}

	slot := o.Slot(ViewAttention)
	assert.Equal(t, StatusError, slot.Status)
	assert.Nil(t, slot.Payload)
	assert.True(t, errors.Is(slot.Err, boom))

	for _, v := range TextViews {
		if v == ViewAttention {
			continue
		}
		assert.Equal(t, StatusReady, o.Slot(v).Status, v.String())
	}
}

func TestSnapshotsAndRefresh(t *testing.T) {
	o, client := newTestOrchestrator()
	msgs := run(t, o.LoadSnapshots())
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.True(t, o.Apply(m))
	}
	_, ok := PayloadAs[analysis.EmbeddingProjection](o.Slot(ViewEmbeddings))
	assert.True(t, ok)
	_, ok = PayloadAs[analysis.WeightSpectrum](o.Slot(ViewWeights))
	assert.True(t, ok)

	refreshed := run(t, o.Refresh(ViewWeights))
	require.Len(t, refreshed, 1)
	assert.Equal(t, uint64(2), refreshed[0].Generation)
	assert.Len(t, client.calls("weights"), 2)
}

func TestAnalogyUsesWordLists(t *testing.T) {
	o, client := newTestOrchestrator()

	assert.Nil(t, o.ParamChanged(ViewAnalogy, Params{TopK: 5}))
	assert.Equal(t, StatusIdle, o.Slot(ViewAnalogy).Status)

	msgs := run(t, o.ParamChanged(ViewAnalogy, Params{
		TopK:     5,
		Positive: []string{"king", "woman"},
		Negative: []string{"man"},
	}))
	require.Len(t, msgs, 1)
	require.True(t, o.Apply(msgs[0]))

	calls := client.calls("analogy")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"king", "woman"}, calls[0].PositiveWords)
	assert.Equal(t, []string{"man"}, calls[0].NegativeWords)
	assert.Empty(t, client.calls("predict"), "analogy does not touch text views")
}

func TestIssuedRequestIsSnapshot(t *testing.T) {
	o, client := newTestOrchestrator()
	words := []string{"king"}
	cmd := o.ParamChanged(ViewAnalogy, Params{Positive: words})
	words[0] = "mutated"

	p := o.Params(ViewAnalogy)
	p.Positive[0] = "also mutated"

	run(t, cmd)
	assert.Equal(t, []string{"king"}, client.calls("analogy")[0].PositiveWords[:1])
}

func TestApplyUnknownView(t *testing.T) {
	o, _ := newTestOrchestrator()
	assert.False(t, o.Apply(ResultMsg{View: ViewID(42), Generation: 0}))
	assert.Equal(t, Slot{}, o.Slot(ViewID(42)))
}

func TestCancelledContextOnSupersede(t *testing.T) {
	client := &blockingClient{fakeClient: newFakeClient(), started: make(chan struct{})}
	o := New(client, logging.Discard())

	first := o.Refresh(ViewEmbeddings)
	done := make(chan []ResultMsg)
	go func() { done <- run(t, first) }()
	<-client.started

	o.Refresh(ViewEmbeddings)
	msgs := <-done
	require.Len(t, msgs, 1)
	assert.ErrorIs(t, msgs[0].Err, context.Canceled)
	assert.False(t, o.Apply(msgs[0]))
}

// blockingClient holds Embeddings open until its context is cancelled.
type blockingClient struct {
	*fakeClient
	started chan struct{}
}

func (b *blockingClient) Embeddings(ctx context.Context) (analysis.EmbeddingProjection, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}
