// Package board renders one refinement session as a full-screen terminal
// program. The model owns the session's refinement state; its update loop
// is the input router and its views are pure functions of the state
// snapshot, the tick counter, and the negotiated terminal capabilities.
package board

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumonlabs/refinery/internal/domain"
	"github.com/lumonlabs/refinery/internal/ports"
)

// Params configures one session's board.
type Params struct {
	User         string
	Containers   int
	Capacity     int
	BatchSize    int
	TickInterval time.Duration
	Seed         uint64
	ColorMode    ports.ColorMode
	Window       ports.Winsize
	Theme        Theme
}

type tickMsg time.Time

// Model is the per-session bubbletea model. One exists per connection;
// nothing in it is shared.
type Model struct {
	user     string
	interval time.Duration
	seed     uint64

	ref  *domain.Refinement
	st   styles
	spin spinner.Model

	width, height  int
	tick           uint64
	mouseX, mouseY int
	replaced       map[cell]int
}

func New(p Params) Model {
	if p.Containers <= 0 {
		p.Containers = 5
	}
	if p.Capacity <= 0 {
		p.Capacity = 100
	}
	if p.BatchSize <= 0 {
		p.BatchSize = 5
	}
	if p.TickInterval <= 0 {
		p.TickInterval = 100 * time.Millisecond
	}

	st := newStyles(p.ColorMode, p.Theme)
	return Model{
		user:     p.User,
		interval: p.TickInterval,
		seed:     p.Seed,
		ref:      domain.NewRefinement(p.Containers, p.Capacity, p.BatchSize, domain.NewValueSource(p.Seed)),
		st:       st,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.spinner)),
		width:    p.Window.Cols,
		height:   p.Window.Rows,
		mouseX:   -1,
		mouseY:   -1,
		replaced: make(map[cell]int),
	}
}

// Refinement exposes the owned state for the session handler and tests.
func (m Model) Refinement() *domain.Refinement { return m.ref }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.spin.Tick)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update drains exactly one pending event per call; bubbletea's single
// message loop guarantees input application and rendering never overlap,
// so a frame always reflects every command applied before its tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		m.ref.Tick()
		return m, m.tickCmd()

	case spinner.TickMsg:
		if m.ref.Phase() != domain.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.routeKey(msg)

	case tea.MouseMsg:
		return m.routeMouse(msg)

	default:
		return m, nil
	}
}
