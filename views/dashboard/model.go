package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/logging"
	"github.com/Yuralo/Attention-Lens/internal/orchestrator"
	"github.com/Yuralo/Attention-Lens/internal/selection"
	"github.com/Yuralo/Attention-Lens/internal/sysinfo"
	"github.com/Yuralo/Attention-Lens/internal/theme"
)

type Panel int

const (
	SidebarPanel Panel = iota
	InputPanel
	MainPanel
)

type MenuItem struct {
	Icon        string
	Title       string
	Description string
	View        orchestrator.ViewID
}

// wordSign says which side of the analogy a typed word joins.
type wordSign int

const (
	signPositive wordSign = iota
	signNegative
)

// Options wires the dashboard to its collaborators.
type Options struct {
	Client      analysis.Client
	Health      func(context.Context) bool
	Logger      *slog.Logger
	InitialText string
	TopK        int
	AnalogyTopK int
	Positive    []string
	Negative    []string
	ExportDir   string
}

type Model struct {
	width        int
	height       int
	activePanel  Panel
	cursor       int
	sidebarItems []MenuItem
	spinner      spinner.Model
	viewport     viewport.Model
	input        textinput.Model
	wordInput    textinput.Model
	analogyTable table.Model
	help         help.Model
	keys         keyMap
	ready        bool
	showHelp     bool

	editingWord bool
	wordSign    wordSign

	stats       sysinfo.Stats
	healthy     bool
	healthKnown bool
	lastUpdate  time.Time
	status      string
	statusErr   bool

	orch        *orchestrator.Orchestrator
	sel         *selection.Store
	embedCursor int

	health    func(context.Context) bool
	exportDir string
	logger    *slog.Logger
	now       func() time.Time
}

type tickMsg time.Time

func tickEvery() tea.Cmd {
	return tea.Every(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func defaultMenu() []MenuItem {
	return []MenuItem{
		{Icon: theme.IconPrediction, Title: "Predictions", View: orchestrator.ViewPrediction,
			Description: "Most likely next tokens for the input, ranked by probability."},
		{Icon: theme.IconAttention, Title: "Attention", View: orchestrator.ViewAttention,
			Description: "Attention weights for one head. Rows are query tokens, columns are the keys they attend to."},
		{Icon: theme.IconTokens, Title: "Token Sequence", View: orchestrator.ViewTokens,
			Description: "Move over each token to see the model's prediction probability and top alternatives."},
		{Icon: theme.IconEigen, Title: "Eigenvalues", View: orchestrator.ViewEigenvalues,
			Description: "Eigenvalue spectrum of attention patterns. Low-rank heads (few dominant eigenvalues) are more specialized."},
		{Icon: theme.IconBehavior, Title: "Head Behavior", View: orchestrator.ViewBehavior,
			Description: "Detecting copying heads (attend to identical tokens) and induction heads (attend to token after previous occurrence)."},
		{Icon: theme.IconLens, Title: "Logit Lens", View: orchestrator.ViewLogitLens,
			Description: "See how predictions evolve through the model: before attention vs. after attention."},
		{Icon: theme.IconEmbeddings, Title: "Embeddings", View: orchestrator.ViewEmbeddings,
			Description: "2D projection of token embeddings using Principal Component Analysis."},
		{Icon: theme.IconWeights, Title: "Weights", View: orchestrator.ViewWeights,
			Description: "Singular values of the OV matrix (W_O × W_V) for each attention head."},
		{Icon: theme.IconAnalogy, Title: "Vector Arithmetic", View: orchestrator.ViewAnalogy,
			Description: `Perform word analogies using vector arithmetic. Example: "king" - "man" + "woman" = "queen".`},
		{Icon: theme.IconActivations, Title: "Activations", View: orchestrator.ViewActivations,
			Description: "Raw intermediate activations returned by the service."},
	}
}

func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorAccent)

	ti := textinput.New()
	ti.Placeholder = "Type text to analyze and press enter"
	ti.CharLimit = 2000
	ti.Prompt = theme.IconChevron + " "
	ti.SetValue(opts.InitialText)
	ti.Focus()

	wi := textinput.New()
	wi.Placeholder = "word"
	wi.CharLimit = 64
	wi.Width = 24

	orch := orchestrator.New(opts.Client, logger)
	topK := opts.TopK
	if topK <= 0 {
		topK = orchestrator.DefaultTopK
	}
	for _, v := range orchestrator.Views {
		if v.UsesTopK() {
			orch.SetParams(v, orchestrator.Params{TopK: topK})
		}
	}
	analogyK := opts.AnalogyTopK
	if analogyK <= 0 {
		analogyK = orchestrator.DefaultTopK
	}
	sel := selection.New(opts.Positive, opts.Negative)
	pos, neg := sel.Analogy.Words()
	orch.SetParams(orchestrator.ViewAnalogy, orchestrator.Params{TopK: analogyK, Positive: pos, Negative: neg})

	return Model{
		activePanel:  InputPanel,
		sidebarItems: defaultMenu(),
		spinner:      s,
		viewport:     viewport.New(0, 0),
		input:        ti,
		wordInput:    wi,
		analogyTable: newAnalogyTable(),
		help:         help.New(),
		keys:         defaultKeyMap(),
		lastUpdate:   time.Now(),
		orch:         orch,
		sel:          sel,
		embedCursor:  -1,
		health:       opts.Health,
		exportDir:    opts.ExportDir,
		logger:       logger,
		now:          time.Now,
	}
}

// Orchestrator exposes the fetch state so the caller can cancel on exit.
func (m Model) Orchestrator() *orchestrator.Orchestrator {
	return m.orch
}

func (m Model) currentView() orchestrator.ViewID {
	return m.sidebarItems[m.cursor].View
}
