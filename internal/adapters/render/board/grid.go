package board

import (
	"math"
	"strings"
)

// The number grid: a field of slowly drifting digits. Digits near the
// pointer are magnified; clicking harvests the magnified ones into a bin.

const (
	gridSpacingX = 6
	gridSpacingY = 2

	// magnifyRadius is the pointer distance, in cells, within which a
	// digit grows and becomes harvestable.
	magnifyRadius = 5.0
)

type cell struct {
	col, row int
}

// mix folds the inputs into a well-spread 64-bit hash (splitmix64 over a
// running state). It keeps the grid pure: the digit shown at a slot is a
// function of the session seed and the slot alone.
func mix(vals ...uint64) uint64 {
	h := uint64(0x9e3779b97f4a7c15)
	for _, v := range vals {
		h ^= v + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
		z := h
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		h = z ^ (z >> 31)
	}
	return h
}

func (m Model) digitAt(c cell) int {
	if d, ok := m.replaced[c]; ok {
		return d
	}
	return int(mix(m.seed, uint64(c.col), uint64(c.row)) % 10)
}

func gridDims(r rect) (cols, rows int) {
	cols = max((r.w-2)/gridSpacingX, 0)
	rows = max(r.h/gridSpacingY, 0)
	return cols, rows
}

// cellBase is a slot's resting position relative to the grid origin.
// Hit-testing uses resting positions; the one-cell drift never moves a
// digit far enough to matter.
func cellBase(c cell) (x, y int) {
	return 2 + c.col*gridSpacingX, gridSpacingY/2 + c.row*gridSpacingY
}

// cellDrift is the animated offset for a slot at the given tick. Each slot
// drifts on one axis only, by at most one cell.
func cellDrift(c cell, digit int, tick uint64) (dx, dy int) {
	phase := float64(c.row)*0.73 + float64(c.col)*0.37 + float64(digit)*0.19
	movement := int(math.Round(math.Sin(float64(tick)*0.1+phase) * 0.8))
	if (c.col+c.row+digit)%2 == 0 {
		return movement, 0
	}
	return 0, movement
}

// renderGrid draws the digit field into exactly r.h lines of r.w cells.
func (m Model) renderGrid(r rect) []string {
	buf := make([][]rune, r.h)
	for i := range buf {
		buf[i] = []rune(strings.Repeat(" ", r.w))
	}

	put := func(x, y int, ch rune) {
		if x >= 0 && x < r.w && y >= 0 && y < r.h {
			buf[y][x] = ch
		}
	}

	cols, rows := gridDims(r)
	for row := range rows {
		for col := range cols {
			c := cell{col: col, row: row}
			digit := m.digitAt(c)
			x, y := cellBase(c)
			dx, dy := cellDrift(c, digit, m.tick)
			x, y = x+dx, y+dy

			ch := rune('0' + digit)
			if m.magnified(r.x+x, r.y+y) {
				put(x, y, ch)
				put(x+1, y, ch)
				put(x, y+1, ch)
				put(x+1, y+1, ch)
				continue
			}
			put(x, y, ch)
		}
	}

	lines := make([]string, r.h)
	for i, row := range buf {
		lines[i] = string(row)
	}
	return lines
}

// magnified reports whether the pointer is close enough to the given
// absolute cell to grow it.
func (m Model) magnified(x, y int) bool {
	if m.mouseX < 0 {
		return false
	}
	return distance(x, y, m.mouseX, m.mouseY) < magnifyRadius
}

// harvestAt collects every digit within the magnify radius of the click,
// replaces each with a fresh one, and returns their sum.
func (m Model) harvestAt(x, y int, grid rect) int {
	cols, rows := gridDims(grid)
	sum := 0
	for row := range rows {
		for col := range cols {
			c := cell{col: col, row: row}
			bx, by := cellBase(c)
			if distance(grid.x+bx, grid.y+by, x, y) >= magnifyRadius {
				continue
			}
			sum += m.digitAt(c)
			m.replaced[c] = int(mix(m.seed, uint64(c.col), uint64(c.row), m.tick, 0xf2ef) % 10)
		}
	}
	return sum
}

func distance(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Sqrt(dx*dx + dy*dy)
}
