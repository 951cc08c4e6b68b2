package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/analysis"
	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/export"
	"github.com/Yuralo/Attention-Lens/internal/orchestrator"
	"github.com/Yuralo/Attention-Lens/internal/sysinfo"
	"github.com/Yuralo/Attention-Lens/internal/theme"
)

const healthTimeout = 3 * time.Second

type statsMsg struct {
	stats sysinfo.Stats
	err   error
}

type healthMsg bool

type exportedMsg struct {
	view orchestrator.ViewID
	path string
	err  error
}

func readStats() tea.Cmd {
	return func() tea.Msg {
		s, err := sysinfo.Read()
		return statsMsg{stats: s, err: err}
	}
}

func (m Model) checkHealth() tea.Cmd {
	probe := m.health
	if probe == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		return healthMsg(probe(ctx))
	}
}

// exportSpectrum writes the ready spectrum of view to a PNG in the export
// directory.
func (m *Model) exportSpectrum(view orchestrator.ViewID) tea.Cmd {
	slot := m.orch.Slot(view)

	var spec encode.Spectrum
	switch view {
	case orchestrator.ViewEigenvalues:
		p, ok := orchestrator.PayloadAs[analysis.EigenSpectrum](slot)
		if !ok {
			m.setStatus("Nothing to export yet", true)
			return nil
		}
		spec = encode.EigenSpectrum(p)
	case orchestrator.ViewWeights:
		p, ok := orchestrator.PayloadAs[analysis.WeightSpectrum](slot)
		if !ok {
			m.setStatus("Nothing to export yet", true)
			return nil
		}
		spec = encode.WeightSpectrum(p)
	default:
		return nil
	}

	dir, name, now := m.exportDir, view.String(), m.now()
	return func() tea.Msg {
		path, err := export.WriteSpectrum(dir, name, spec, now)
		return exportedMsg{view: view, path: path, err: err}
	}
}

// renderSystemStatus is the right-hand side of the banner.
func (m *Model) renderSystemStatus() string {
	service := lipgloss.NewStyle().Foreground(theme.ColorForegroundDim).Render(theme.IconDot + " service ?")
	if m.healthKnown {
		if m.healthy {
			service = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render(theme.IconDot + " service up")
		} else {
			service = lipgloss.NewStyle().Foreground(theme.ColorError).Render(theme.IconDot + " service down")
		}
	}

	load := theme.DimStyle.Render(m.stats.String())
	if m.stats.TotalMem > 0 {
		load += theme.DimStyle.Render(fmt.Sprintf(" (%s / %s)",
			sysinfo.FormatBytes(m.stats.UsedMem), sysinfo.FormatBytes(m.stats.TotalMem)))
	}

	if n := m.orch.Loading(); n > 0 {
		return fmt.Sprintf("%s %d loading | %s | %s", m.spinner.View(), n, service, load)
	}
	return service + " | " + load
}
