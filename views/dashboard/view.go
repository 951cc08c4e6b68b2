package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/orchestrator"
	"github.com/Yuralo/Attention-Lens/internal/render"
	"github.com/Yuralo/Attention-Lens/internal/theme"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

const (
	compactWidth = 80
	bannerHeight = 1
	inputHeight  = 3
)

func (m Model) View() string {
	if !m.ready {
		return "\n  " + m.spinner.View() + " Initializing..."
	}
	if m.width < compactWidth {
		return m.renderCompactLayout()
	}
	return m.renderFullLayout()
}

func (m *Model) sidebarWidth() int {
	if m.width < compactWidth {
		return 0
	}
	return utils.Clamp(m.width/4, 22, 32)
}

// mainSize is the content area inside the main panel's border and padding.
func (m *Model) mainSize() (width, height int) {
	footer := lipgloss.Height(m.renderFooter(m.width))
	height = m.height - bannerHeight - inputHeight - footer - 2
	width = m.width - m.sidebarWidth() - 4
	return utils.Max(10, width), utils.Max(3, height)
}

// syncContent re-renders the current view into the viewport. The header
// sits outside the viewport so it stays put while the body scrolls.
func (m *Model) syncContent() {
	if !m.ready {
		return
	}
	w, h := m.mainSize()
	header := m.renderViewHeader(w)
	m.viewport.Width = w
	m.viewport.Height = utils.Max(1, h-lipgloss.Height(header))
	m.viewport.SetContent(m.renderView(m.currentView(), w))
}

func (m *Model) renderCompactLayout() string {
	banner := m.renderBanner(m.width)
	input := m.renderInput(m.width)
	_, h := m.mainSize()

	body := m.renderMain()
	if m.activePanel == SidebarPanel {
		body = m.renderSidebar(m.width-4, h)
	}

	contentBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(MainPanel, SidebarPanel)).
		Width(m.width-2).
		Height(h).
		Padding(0, 1).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, banner, input, contentBox, m.renderFooter(m.width))
}

func (m *Model) renderFullLayout() string {
	banner := m.renderBanner(m.width)
	input := m.renderInput(m.width)

	sidebarWidth := m.sidebarWidth()
	mainWidth := m.width - sidebarWidth
	_, contentHeight := m.mainSize()

	sidebarBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(SidebarPanel)).
		Width(sidebarWidth - 2).
		Height(contentHeight).
		Render(m.renderSidebar(sidebarWidth-2, contentHeight))

	mainBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(MainPanel)).
		Width(mainWidth-2).
		Height(contentHeight).
		Padding(0, 1).
		Render(m.renderMain())

	content := lipgloss.JoinHorizontal(lipgloss.Top, sidebarBox, mainBox)
	return lipgloss.JoinVertical(lipgloss.Left, banner, input, content, m.renderFooter(m.width))
}

func (m *Model) borderColor(panels ...Panel) lipgloss.Color {
	for _, p := range panels {
		if m.activePanel == p {
			return theme.ColorAccent
		}
	}
	return theme.ColorBorder
}

func (m *Model) renderBanner(width int) string {
	left := theme.TitleStyle.Render(theme.IconEigen+" Attention Lens") + " " +
		theme.SubtitleStyle.Render("language model internals")
	if m.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.ColorSuccess)
		if m.statusErr {
			style = theme.ErrorStyle
		}
		left += "  " + style.Render(m.status)
	}

	status := m.renderSystemStatus()
	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if spacerWidth < 1 {
		left = utils.TruncateString(left, utils.Max(0, width-lipgloss.Width(status)-3))
		spacerWidth = 1
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", spacerWidth) + status)
}

func (m *Model) renderInput(width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(InputPanel)).
		Width(width - 2).
		Render(m.input.View())
}

func (m *Model) renderMain() string {
	w, _ := m.mainSize()
	return m.renderViewHeader(w) + "\n" + m.viewport.View()
}

func (m *Model) renderViewHeader(width int) string {
	item := m.sidebarItems[m.cursor]
	title := theme.TitleStyle.Render(item.Icon + " " + item.Title)
	desc := theme.SubtitleStyle.Render(render.Wrap(item.Description, width))
	return lipgloss.JoinVertical(lipgloss.Left, title, desc, "")
}

func (m *Model) renderSidebar(width, height int) string {
	if width <= 0 {
		width = 20
	}

	headerForeground := theme.ColorForegroundDim
	if m.activePanel == SidebarPanel {
		headerForeground = theme.ColorAccent
	}

	header := lipgloss.NewStyle().
		Foreground(headerForeground).
		Padding(0, 1).
		Width(width).
		Render("Views")

	divider := lipgloss.NewStyle().
		Foreground(m.borderColor(SidebarPanel)).
		Width(width).
		Render(strings.Repeat("─", utils.Max(0, width)))

	items := []string{header, divider, ""}
	for i, item := range m.sidebarItems {
		items = append(items, m.renderSidebarItem(item, i == m.cursor, width))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	if pad := height - lipgloss.Height(content); pad > 0 {
		content += strings.Repeat("\n", pad)
	}
	return content
}

func (m *Model) renderSidebarItem(item MenuItem, selected bool, width int) string {
	dot := lipgloss.NewStyle().Foreground(statusColor(m.orch.Slot(item.View).Status)).Render(theme.IconDot)

	label := " " + item.Icon + " " + utils.TruncateString(item.Title, utils.Max(1, width-6))
	label = utils.PadRight(label, utils.Max(0, width-2))

	style := lipgloss.NewStyle().Width(width - 2)
	switch {
	case selected && m.activePanel == SidebarPanel:
		style = style.Background(theme.ColorAccent).Foreground(theme.ColorBackground)
	case selected:
		style = style.Background(theme.ColorBackgroundLighter).Foreground(theme.ColorForegroundBright)
	case m.activePanel == SidebarPanel:
		style = style.Foreground(theme.ColorForeground)
	default:
		style = style.Foreground(theme.ColorForegroundDim)
	}
	return style.Render(label) + " " + dot
}

func statusColor(s orchestrator.Status) lipgloss.Color {
	switch s {
	case orchestrator.StatusLoading:
		return theme.ColorWarning
	case orchestrator.StatusReady:
		return theme.ColorSuccess
	case orchestrator.StatusError:
		return theme.ColorError
	}
	return theme.ColorBorder
}

func (m *Model) renderFooter(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorSecondary).
		Width(width).
		Align(lipgloss.Center).
		Render(m.help.View(m.keys))
}
