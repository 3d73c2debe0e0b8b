package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumonlabs/refinery/internal/domain"
)

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	l := computeLayout(m.width, m.height, len(m.ref.Containers()))
	if !l.valid() {
		hint := fmt.Sprintf("Please enlarge your terminal (%dx%d minimum).", MinCols, MinRows)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.st.bright.Render(hint))
	}

	switch m.ref.Phase() {
	case domain.PhaseLoading:
		return m.loadingView()
	case domain.PhaseResetting:
		return m.resetView()
	case domain.PhaseComplete:
		return m.prizeView()
	default:
		return m.activeView(l)
	}
}

// activeView assembles the refinement screen line by line; every block has
// a fixed height so rendered rows match the layout's hit-test regions.
func (m Model) activeView(l layout) string {
	lines := make([]string, 0, m.height)

	lines = append(lines, m.titleLines()...)
	lines = append(lines, m.st.base.Render(strings.Repeat("━", m.width)))
	for _, row := range m.renderGrid(l.grid) {
		lines = append(lines, m.st.base.Render(row))
	}
	lines = append(lines, m.st.base.Render(strings.Repeat("━", m.width)))
	lines = append(lines, m.binLines(l)...)
	lines = append(lines, m.st.base.Render(strings.Repeat("─", m.width)))
	lines = append(lines, m.footerLine())

	return strings.Join(lines, "\n")
}

func (m Model) titleLines() []string {
	inner := m.width - 2
	left := "LUMON INDUSTRIES :: MACRODATA REFINEMENT"
	right := fmt.Sprintf("Refiner: %s   %3.0f%% complete", m.user, m.ref.Overall()*100)

	return []string{
		m.st.base.Render("┌" + strings.Repeat("─", inner) + "┐"),
		m.st.base.Render("│" + padBetween(" "+left, right+" ", inner) + "│"),
		m.st.base.Render("└" + strings.Repeat("─", inner) + "┘"),
	}
}

// binLines renders the numbered bins: a 3-row label box over a 3-row
// progress bar, gap columns between bins.
func (m Model) binLines(l layout) []string {
	bins := m.ref.Containers()
	binW := l.bins[0].w
	lead := l.bins[0].x

	parts := make([][]string, len(bins))
	for i, c := range bins {
		parts[i] = binBlock(c, binW)
	}

	gap := strings.Repeat(" ", binGap)
	lines := make([]string, 0, binRows)
	for row := range binRows {
		cols := make([]string, 0, len(bins))
		for _, p := range parts {
			cols = append(cols, p[row])
		}
		line := strings.Repeat(" ", lead) + strings.Join(cols, gap)
		lines = append(lines, m.st.base.Render(padRight(line, m.width)))
	}
	return lines
}

func binBlock(c *domain.Container, width int) []string {
	inner := width - 2

	label := fmt.Sprintf("0%d", c.ID())
	if last, ok := c.Last(); ok {
		label += " " + string(last.Feel)
	}

	top := "┌" + strings.Repeat("─", inner) + "┐"
	bottom := "└" + strings.Repeat("─", inner) + "┘"

	return []string{
		top,
		"│" + padCenter(label, inner) + "│",
		bottom,
		top,
		"│" + barRow(c.Progress(), inner) + "│",
		bottom,
	}
}

// barRow fills the bar by progress and overlays the centered percentage.
func barRow(progress float64, width int) string {
	pct := fmt.Sprintf("%d%%", int(progress*100))
	filled := int(float64(width) * progress)
	start := (width - len(pct)) / 2

	row := make([]rune, width)
	for i := range row {
		switch {
		case i >= start && i < start+len(pct):
			row[i] = rune(pct[i-start])
		case i < filled:
			row[i] = '█'
		default:
			row[i] = ' '
		}
	}
	return string(row)
}

func (m Model) footerLine() string {
	addr := fmt.Sprintf("0x%016x : 0x%016x", mix(m.seed, 0x51), mix(m.seed, 0x52))
	return m.st.base.Render(padCenter(addr, m.width))
}

func (m Model) resetView() string {
	cue := m.st.flash.Render("   REFINEMENT CYCLE RESET   ")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, cue)
}

func (m Model) prizeView() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.st.bright.Render("REFINEMENT COMPLETE"),
		"",
		m.st.base.Render("The Board is pleased to award you:"),
		"",
		m.st.bright.Render(m.ref.Prize()),
		"",
		m.st.base.Render("[enter] resume refinement    [q] disconnect"),
	)
	box := m.st.titleBox.Padding(1, 3).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Padding helpers count runes, not bytes: frame lines are full of
// box-drawing characters.

func padBetween(left, right string, width int) string {
	gap := width - runeLen(left) - runeLen(right)
	if gap < 1 {
		return padRight(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func padCenter(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	lead := (width - n) / 2
	return strings.Repeat(" ", lead) + s + strings.Repeat(" ", width-n-lead)
}

func padRight(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

func runeLen(s string) int {
	return len([]rune(s))
}
