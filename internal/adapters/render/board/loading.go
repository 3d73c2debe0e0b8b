package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// loadingMessages are shown in order as the warm-up progresses.
var loadingMessages = []string{
	"Initializing MDR protocol",
	"Checking refinement quotas",
	"Verifying department credentials",
	"Preparing macrodata bins",
	"Establishing connection to Lumon mainframe",
	"Running compliance check",
	"Validating severance chip",
	"Please enjoy all amenities equally",
}

var wordmark = []string{
	` _     _   _ __  __  ___  _   _ `,
	`| |   | | | |  \/  |/ _ \| \ | |`,
	`| |   | | | | |\/| | | | |  \| |`,
	`| |___| |_| | |  | | |_| | |\  |`,
	`|_____|\___/|_|  |_|\___/|_| \_|`,
}

func (m Model) loadingView() string {
	pct := m.ref.LoadingProgress()

	lines := make([]string, 0, len(wordmark)+4)
	for _, l := range wordmark {
		lines = append(lines, m.st.base.Render(l))
	}
	lines = append(lines,
		"",
		m.spin.View()+" "+m.st.bright.Render(loadingMessage(pct)),
		"",
		m.st.base.Render(loadingBar(min(m.width-15, 60), pct)),
	)

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// loadingMessage picks the message for the given completion percentage,
// walking the list front to back as warm-up advances.
func loadingMessage(pct float64) string {
	n := len(loadingMessages)
	if pct >= 100 {
		return loadingMessages[n-1]
	}
	idx := int(pct / 100 * float64(n-1))
	if idx < 0 {
		idx = 0
	}
	return loadingMessages[idx]
}

func loadingBar(width int, pct float64) string {
	if width < 4 {
		width = 4
	}
	inner := width - 2
	filled := int(float64(inner) * pct / 100)
	if filled > inner {
		filled = inner
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", inner-filled))
	b.WriteByte(']')
	return fmt.Sprintf("%s %3.0f%%", b.String(), pct)
}
