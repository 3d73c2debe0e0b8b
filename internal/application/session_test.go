package application

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumonlabs/refinery/internal/adapters/render/board"
	"github.com/lumonlabs/refinery/internal/ports"
)

// scriptedRunner drives a real board model through a fixed message script
// instead of a live terminal, records the resulting bin totals, and then
// keeps the seat occupied until hold closes.
func scriptedRunner(scripts map[string][]tea.Msg, results *sync.Map, hold <-chan struct{}) SessionRunner {
	return func(ctx context.Context, conn ports.TerminalConn, cfg Settings, seed uint64) error {
		m := board.New(board.Params{
			User:       conn.User(),
			Containers: cfg.Containers,
			Capacity:   cfg.Capacity,
			BatchSize:  cfg.BatchSize,
			Seed:       seed,
			ColorMode:  conn.ColorMode(),
			Window:     conn.Window(),
		})
		m.Refinement().Activate()

		for _, msg := range scripts[conn.User()] {
			next, _ := m.Update(msg)
			m = next.(board.Model)
		}

		totals := make([]int, 0, cfg.Containers)
		progress := make([]float64, 0, cfg.Containers)
		for _, c := range m.Refinement().Containers() {
			totals = append(totals, c.Total())
			progress = append(progress, c.Progress())
		}
		results.Store(conn.User()+"/totals", totals)
		results.Store(conn.User()+"/progress", progress)

		select {
		case <-hold:
		case <-ctx.Done():
		}
		return nil
	}
}

func digit(d rune) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{d}}
}

// Two refiners work side by side on a two-seat floor: A refines twenty
// units into bin 1, B refines and resets, a third connection is refused,
// and neither refiner's bins bleed into the other's.
func TestTwoRefinersStayIsolatedUnderCeiling(t *testing.T) {
	scripts := map[string][]tea.Msg{
		"mark.s":  {digit('1'), digit('1'), digit('1'), digit('1')},
		"helly.r": {digit('2'), digit('3'), digit('r')},
	}
	var results sync.Map
	hold := make(chan struct{})
	defer close(hold)

	cfg := testSettings(2)
	srv, err := NewServer(cfg, slog.New(slog.DiscardHandler),
		WithSessionRunner(scriptedRunner(scripts, &results, hold)))
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	require.NoError(t, srv.Handle(context.Background(), newFakeConn("mark.s")))
	require.NoError(t, srv.Handle(context.Background(), newFakeConn("helly.r")))

	// Both seats stay occupied until hold closes, so the third client
	// must be refused.
	assert.ErrorIs(t, srv.Handle(context.Background(), newFakeConn("dylan.g")), ErrServerFull)

	require.Eventually(t, func() bool {
		_, okA := results.Load("mark.s/totals")
		_, okB := results.Load("helly.r/totals")
		return okA && okB
	}, time.Second, 5*time.Millisecond)

	totalsA, _ := results.Load("mark.s/totals")
	progressA, _ := results.Load("mark.s/progress")
	assert.Equal(t, []int{20, 0, 0, 0, 0}, totalsA)
	assert.InDelta(t, 0.2, progressA.([]float64)[0], 1e-9)

	totalsB, _ := results.Load("helly.r/totals")
	assert.Equal(t, []int{0, 0, 0, 0, 0}, totalsB)
}
