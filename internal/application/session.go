package application

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumonlabs/refinery/internal/adapters/render/board"
	"github.com/lumonlabs/refinery/internal/ports"
)

// RunSession is the default SessionRunner: it drives a board program over
// the terminal until the user quits, the client hangs up, or ctx ends.
func RunSession(ctx context.Context, conn ports.TerminalConn, cfg Settings, seed uint64) error {
	model := board.New(board.Params{
		User:         conn.User(),
		Containers:   cfg.Containers,
		Capacity:     cfg.Capacity,
		BatchSize:    cfg.BatchSize,
		TickInterval: cfg.Tick,
		Seed:         seed,
		ColorMode:    conn.ColorMode(),
		Window:       conn.Window(),
		Theme:        cfg.Theme,
	})

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(conn),
		tea.WithOutput(conn),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// The transport pushes window changes; translate them into resize
	// messages until the channel closes with the connection.
	go func() {
		for ws := range conn.Resizes() {
			p.Send(tea.WindowSizeMsg{Width: ws.Cols, Height: ws.Rows})
		}
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run session program: %w", err)
	}
	return nil
}
