// Package orchestrator issues analysis queries for each view and decides
// which responses are still current. It is driven entirely from the UI
// event loop and is not safe for use from other goroutines; the tea.Cmd
// closures it returns only touch the client and their own captured values.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
)

// DefaultTopK is the k used by views that rank tokens until changed.
const DefaultTopK = 5

// Status is a slot's fetch state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Slot is one view's fetch state. Payload is set only when Status is
// StatusReady and Err only when Status is StatusError.
type Slot struct {
	Generation uint64
	Status     Status
	Payload    any
	Err        error
}

// Params are the per-view inputs besides the shared text.
type Params struct {
	TopK     int
	Positive []string
	Negative []string
}

// ResultMsg carries one completed query back into the event loop.
type ResultMsg struct {
	View       ViewID
	Generation uint64
	Payload    any
	Err        error
}

// Orchestrator owns the slot arena and generation counters.
type Orchestrator struct {
	client  analysis.Client
	logger  *slog.Logger
	text    string
	params  map[ViewID]Params
	slots   map[ViewID]*Slot
	cancels map[ViewID]context.CancelFunc
}

// New creates an orchestrator with every slot idle at generation 0.
func New(client analysis.Client, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		client:  client,
		logger:  logger,
		params:  make(map[ViewID]Params, len(Views)),
		slots:   make(map[ViewID]*Slot, len(Views)),
		cancels: make(map[ViewID]context.CancelFunc),
	}
	for _, v := range Views {
		o.slots[v] = &Slot{}
		if v.UsesTopK() {
			o.params[v] = Params{TopK: DefaultTopK}
		}
	}
	return o
}

// Text returns the text the last InputChanged committed.
func (o *Orchestrator) Text() string {
	return o.text
}

// Params returns a copy of the view's parameters.
func (o *Orchestrator) Params(view ViewID) Params {
	p := o.params[view]
	p.Positive = append([]string(nil), p.Positive...)
	p.Negative = append([]string(nil), p.Negative...)
	return p
}

// SetParams stores parameters without fetching. Used for startup defaults.
func (o *Orchestrator) SetParams(view ViewID, p Params) {
	p.Positive = append([]string(nil), p.Positive...)
	p.Negative = append([]string(nil), p.Negative...)
	o.params[view] = p
}

// Slot returns a copy of the view's slot.
func (o *Orchestrator) Slot(view ViewID) Slot {
	if s, ok := o.slots[view]; ok {
		return *s
	}
	return Slot{}
}

// Generation returns the view's current generation.
func (o *Orchestrator) Generation(view ViewID) uint64 {
	return o.Slot(view).Generation
}

// Loading counts views with a request in flight.
func (o *Orchestrator) Loading() int {
	n := 0
	for _, s := range o.slots {
		if s.Status == StatusLoading {
			n++
		}
	}
	return n
}

// InputChanged commits new text and refetches every text-subscribed view.
func (o *Orchestrator) InputChanged(text string) tea.Cmd {
	o.text = text
	o.logger.Info("input changed", "text_len", len(text))

	cmds := make([]tea.Cmd, 0, len(TextViews))
	for _, v := range TextViews {
		cmds = append(cmds, o.issue(v))
	}
	return tea.Batch(cmds...)
}

// ParamChanged stores the view's parameters and refetches only that view.
func (o *Orchestrator) ParamChanged(view ViewID, p Params) tea.Cmd {
	o.SetParams(view, p)
	o.logger.Debug("params changed", "view", view.String(), "top_k", p.TopK)
	return o.issue(view)
}

// LoadSnapshots fetches the text-independent views.
func (o *Orchestrator) LoadSnapshots() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(SnapshotViews))
	for _, v := range SnapshotViews {
		cmds = append(cmds, o.issue(v))
	}
	return tea.Batch(cmds...)
}

// Refresh refetches a single view with its current inputs.
func (o *Orchestrator) Refresh(view ViewID) tea.Cmd {
	return o.issue(view)
}

// Apply stores msg in its view's slot if msg is from the current generation.
// It returns false for stale responses, which leave the slot untouched.
func (o *Orchestrator) Apply(msg ResultMsg) bool {
	slot, ok := o.slots[msg.View]
	if !ok {
		return false
	}

	log := o.logger.With("view", msg.View.String(), "generation", msg.Generation)
	if msg.Generation != slot.Generation {
		log.Debug("discarding response",
			"err", analysis.ErrStale,
			"kind", string(analysis.ErrStale.Kind),
			"current", slot.Generation,
		)
		return false
	}

	if cancel, ok := o.cancels[msg.View]; ok {
		cancel()
		delete(o.cancels, msg.View)
	}

	if msg.Err != nil {
		slot.Status = StatusError
		slot.Payload = nil
		slot.Err = msg.Err
		log.Warn("query failed", "kind", string(analysis.KindOf(msg.Err)), "error", msg.Err)
		return true
	}

	slot.Status = StatusReady
	slot.Payload = msg.Payload
	slot.Err = nil
	log.Debug("response applied")
	return true
}

// Close cancels every in-flight request.
func (o *Orchestrator) Close() {
	for v, cancel := range o.cancels {
		cancel()
		delete(o.cancels, v)
	}
}

// issue advances the view's generation and returns the command that runs
// its query. Inputs that would be empty leave the slot idle and return nil.
func (o *Orchestrator) issue(view ViewID) tea.Cmd {
	slot, ok := o.slots[view]
	fetch, hasFetch := fetchers[view]
	if !ok || !hasFetch {
		return nil
	}

	if cancel, ok := o.cancels[view]; ok {
		cancel()
		delete(o.cancels, view)
	}

	slot.Generation++
	slot.Payload = nil
	slot.Err = nil

	req := o.request(view)
	log := o.logger.With("view", view.String(), "generation", slot.Generation)

	if o.emptyInput(view, req) {
		slot.Status = StatusIdle
		log.Debug("skipping query", "kind", string(analysis.KindEmptyInput))
		return nil
	}

	slot.Status = StatusLoading
	ctx, cancel := context.WithCancel(context.Background())
	o.cancels[view] = cancel

	log.Debug("issuing query", "top_k", req.TopK)

	client := o.client
	gen := slot.Generation
	return func() tea.Msg {
		payload, err := fetch(ctx, client, req)
		return ResultMsg{
			View:       view,
			Generation: gen,
			Payload:    payload,
			Err:        err,
		}
	}
}

// request snapshots the inputs so later edits cannot reach an issued query.
func (o *Orchestrator) request(view ViewID) analysis.Request {
	p := o.Params(view)
	return analysis.Request{
		Text:          o.text,
		TopK:          p.TopK,
		PositiveWords: p.Positive,
		NegativeWords: p.Negative,
	}
}

func (o *Orchestrator) emptyInput(view ViewID, req analysis.Request) bool {
	switch {
	case view == ViewAnalogy:
		return len(req.PositiveWords) == 0 && len(req.NegativeWords) == 0
	case view.textSubscribed():
		return strings.TrimSpace(req.Text) == ""
	}
	return false
}

// PayloadAs returns the slot's payload as T when the slot is ready.
func PayloadAs[T any](s Slot) (T, bool) {
	var zero T
	if s.Status != StatusReady {
		return zero, false
	}
	v, ok := s.Payload.(T)
	return v, ok
}
