package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/farepath/pkg/pricing"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	sideTripStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// BrowserModel - Interactive pu path browser
// =============================================================================

// BrowserModel is the bubbletea model of the browse command. It lists the
// pu paths of a matrix; enter toggles the unit breakdown of the selected
// path.
type BrowserModel struct {
	Title  string
	Paths  []*pricing.PUPath
	Cursor int
	Offset int
	Height int
	Detail bool
}

// NewBrowserModel creates a browser over the paths of m.
func NewBrowserModel(title string, m *pricing.Matrix) BrowserModel {
	return BrowserModel{
		Title:  title,
		Paths:  m.Paths(),
		Height: 15,
	}
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and window resizes.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Paths)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "enter", " ":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

// View renders the path table and, when toggled, the detail of the
// selected path.
func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Paths) == 0 {
		b.WriteString(StyleWarning.Render("no pu paths"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Paths))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		p := m.Paths[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			unitTypes(p),
			fmt.Sprintf("%d", p.TotalPU),
			fmt.Sprintf("%d", p.TotalFC),
			strings.Join(pathFlags(p), " "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Units", "PU", "FC", "Flags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 5 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Paths))))
	b.WriteString("\n")

	if m.Detail {
		b.WriteString("\n")
		b.WriteString(pathDetail(m.Paths[m.Cursor]))
	}
	return b.String()
}

// unitTypes summarizes a path as its unit types, e.g. "RT + OW".
func unitTypes(p *pricing.PUPath) string {
	parts := make([]string, len(p.PUs))
	for i, pu := range p.PUs {
		parts[i] = pu.Type.String()
		if pu.OJType != pricing.NotOpenJaw {
			parts[i] += "/" + pu.OJType.String()
		}
	}
	s := strings.Join(parts, " + ")
	if p.HasSideTrip {
		s += " (st)"
	}
	return s
}

// pathFlags lists the flags set on p for the detail view.
func pathFlags(p *pricing.PUPath) []string {
	var flags []string
	if p.ABATripWithOWPU {
		flags = append(flags, "ABA_OW")
	}
	if p.IntlCTJourneyWithOWPU {
		flags = append(flags, "INTL_CT_OW")
	}
	if p.CxrFarePreferred {
		flags = append(flags, "CXR_PREF")
	}
	return flags
}

// pathDetail lists the units of p, side trips indented under the market
// they leave from.
func pathDetail(p *pricing.PUPath) string {
	var b strings.Builder
	for _, pu := range p.PUs {
		fmt.Fprintf(&b, "  #%d %s\n", pu.Index(), pu.String())
		for _, fm := range pu.Markets {
			for _, st := range p.SideTrips[fm] {
				for _, spu := range st.PUs {
					b.WriteString(sideTripStyle.Render(fmt.Sprintf("      ↳ #%d %s", spu.Index(), spu.String())))
					b.WriteString("\n")
				}
			}
		}
	}
	return b.String()
}
