package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floorgen/pkg/catalog"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// maxPickCount bounds the instances of one type in the picker.
const maxPickCount = 9

// =============================================================================
// RoomPickerModel - Interactive request composition
// =============================================================================

// RoomPickerModel is the bubbletea model for composing a room request.
type RoomPickerModel struct {
	Types     []catalog.RoomType
	Counts    []int
	Cursor    int
	Confirmed bool
}

// NewRoomPickerModel creates a picker over the catalog's types.
func NewRoomPickerModel(cat *catalog.Catalog) RoomPickerModel {
	types := cat.Types()
	return RoomPickerModel{Types: types, Counts: make([]int, len(types))}
}

// Names returns the composed request in catalog order.
func (m RoomPickerModel) Names() []string {
	var names []string
	for i, n := range m.Counts {
		for range n {
			names = append(names, m.Types[i].Name)
		}
	}
	return names
}

func (m RoomPickerModel) total() int {
	n := 0
	for _, c := range m.Counts {
		n += c
	}
	return n
}

func (m RoomPickerModel) Init() tea.Cmd {
	return nil
}

func (m RoomPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Types)-1 {
			m.Cursor++
		}
	case "right", "l", "+":
		if m.Counts[m.Cursor] < maxPickCount {
			m.Counts = bump(m.Counts, m.Cursor, 1)
		}
	case "left", "h", "-":
		if m.Counts[m.Cursor] > 0 {
			m.Counts = bump(m.Counts, m.Cursor, -1)
		}
	case "enter":
		if m.total() == 0 {
			return m, nil
		}
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

// bump returns a copy of counts with counts[i] changed by d, so earlier
// model values stay untouched.
func bump(counts []int, i, d int) []int {
	out := append([]int(nil), counts...)
	out[i] += d
	return out
}

func (m RoomPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Compose Floor Plan"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ count  ⏎ generate  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Types))
	for i, rt := range m.Types {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(rt.Color.Hex())).Render("  ")
		typical := "—"
		if rt.Typical.Set {
			typical = fmt.Sprintf("%d-%d", rt.Typical.Min, rt.Typical.Max)
		}
		count := "·"
		if m.Counts[i] > 0 {
			count = fmt.Sprint(m.Counts[i])
		}
		rows[i] = []string{cursor, swatch + " " + rt.Name, count, typical}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Room", "Count", "Typical").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(m.Types) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			n := m.Counts[row]
			switch {
			case col == 2 && n > 0 && !m.Types[row].Typical.Contains(n):
				base = base.Foreground(colorYellow)
			case n > 0:
				base = base.Foreground(colorGreen)
			default:
				base = base.Foreground(colorDim)
			}
			if row == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d rooms selected", m.total())))

	return b.String()
}
