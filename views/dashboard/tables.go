package dashboard

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yuralo/Attention-Lens/internal/encode"
	"github.com/Yuralo/Attention-Lens/internal/theme"
	"github.com/Yuralo/Attention-Lens/internal/utils"
)

const maxAnalogyRows = 10

func newAnalogyTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Token", Width: 20},
		{Title: "Score", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(3),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(theme.ColorBackground).
		Background(theme.ColorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}

// setAnalogyRows replaces the results in service order.
func (m *Model) setAnalogyRows(results []encode.AnalogyRow) {
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Rank),
			r.Token,
			r.ScoreText,
		})
	}
	m.analogyTable.SetRows(rows)
	m.analogyTable.SetHeight(utils.Clamp(len(rows), 1, maxAnalogyRows) + 2)
	m.analogyTable.SetCursor(0)
}
