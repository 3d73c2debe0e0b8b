package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumonlabs/refinery/internal/domain"
)

// Input routing. Commands are valid only while Active; anything arriving
// in another phase is discarded rather than queued, so a loading or
// resetting session never replays a stale input burst. The one exception:
// the first recognized input during Loading ends the warm-up.

func (m Model) routeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.ref.Phase() {
	case domain.PhaseLoading:
		m.ref.Activate()
		return m, nil

	case domain.PhaseComplete:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "r", "enter", " ", "space":
			m.ref.ClaimPrize()
		}
		return m, nil

	case domain.PhaseActive:
		switch key {
		case "q":
			return m, tea.Quit
		case "r":
			_ = m.ref.BeginReset()
		case " ", "space":
			_ = m.ref.AddRandomBatch()
		default:
			if d, ok := digitKey(key); ok {
				// Digits above the bin count are ignored outright.
				_ = m.ref.AddBatch(d)
			}
		}
		return m, nil

	default: // Resetting: discard.
		return m, nil
	}
}

func digitKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}

func (m Model) routeMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	m.mouseX, m.mouseY = msg.X, msg.Y

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	switch m.ref.Phase() {
	case domain.PhaseLoading:
		m.ref.Activate()
		return m, nil

	case domain.PhaseComplete:
		m.ref.ClaimPrize()
		return m, nil

	case domain.PhaseActive:
		l := computeLayout(m.width, m.height, len(m.ref.Containers()))
		if !l.valid() {
			return m, nil
		}
		if id := l.containerAt(msg.X, msg.Y); id > 0 {
			// A click on a bin is the same command as its digit key.
			_ = m.ref.AddBatch(id)
			return m, nil
		}
		if l.inGrid(msg.X, msg.Y) {
			if sum := m.harvestAt(msg.X, msg.Y, l.grid); sum > 0 {
				_ = m.ref.Deposit(sum)
			}
		}
		return m, nil

	default:
		return m, nil
	}
}
