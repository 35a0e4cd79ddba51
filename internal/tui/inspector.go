// Package tui is an interactive bubbletea inspector for a decoded
// token stream, grounded on the teacher's internal/supercollider
// dialogs for the bubbletea Model/Update/View shape and on
// internal/views' lipgloss style conventions (selected/normal/label
// colors), adapted here to a single scrollable table instead of a
// tracker grid.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Row is one decoded token, the unit the inspector lists.
type Row struct {
	Index int
	Type  string
	Value string
}

// Model is the inspector's bubbletea model: a focused, scrollable
// table over the token rows plus a status line.
type Model struct {
	table  table.Model
	status string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(1, 0, 0, 0)
)

// NewInspector builds a Model over rows, sized for termHeight visible
// lines (0 uses table's default).
func NewInspector(rows []Row, termHeight int) Model {
	columns := []table.Column{
		{Title: "#", Width: 6},
		{Title: "Type", Width: 28},
		{Title: "Value", Width: 40},
	}
	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		trows[i] = table.Row{fmt.Sprintf("%d", r.Index), r.Type, r.Value}
	}

	height := termHeight - 4
	if height < 5 {
		height = 20
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(trows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	style := table.DefaultStyles()
	style.Header = style.Header.Bold(true).Foreground(lipgloss.Color("15"))
	style.Selected = style.Selected.Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0"))
	t.SetStyles(style)

	return Model{table: t, status: fmt.Sprintf("%d tokens — ↑/↓ move, q quits", len(rows))}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return headerStyle.Render("token inspector") + "\n" + m.table.View() + "\n" +
		velocityLegend() + "\n" + statusStyle.Render(m.status)
}

// velocityLegend renders the same low-to-clip gradient swatches
// views.go draws for its level meters, here as a small fixed legend
// rather than a per-cell heatmap (the table widget has no per-cell
// style hook to drive from a token's decoded velocity).
func velocityLegend() string {
	const steps = 10
	var b []byte
	b = append(b, "velocity  "...)
	for i := 0; i <= steps; i++ {
		sw := lipgloss.NewStyle().Background(levelColor(i, steps)).Render("  ")
		b = append(b, sw...)
	}
	return string(b)
}
