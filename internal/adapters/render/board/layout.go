package board

// Frame geometry. The active screen is assembled line by line so mouse
// coordinates map back onto rendered regions with plain integer math.

const (
	titleRows   = 3
	binRows     = 6
	binGap      = 5
	footerRows  = 1
	dividerRows = 1

	// MinCols and MinRows bound the smallest window the active screen can
	// be laid out in; anything smaller gets a resize hint instead.
	MinCols = 60
	MinRows = 20
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type layout struct {
	width, height int
	title         rect
	grid          rect
	bins          []rect
	footer        rect
}

// computeLayout splits the window into the fixed chrome rows and the
// flexible grid. Top to bottom: title box, thick divider, number grid,
// thick divider, bins, thin divider, footer.
func computeLayout(width, height, bins int) layout {
	l := layout{width: width, height: height}
	if width < MinCols || height < MinRows {
		return l
	}

	l.title = rect{x: 0, y: 0, w: width, h: titleRows}

	binsTop := height - footerRows - dividerRows - binRows
	gridTop := titleRows + dividerRows
	l.grid = rect{x: 0, y: gridTop, w: width, h: binsTop - dividerRows - gridTop}
	l.footer = rect{x: 0, y: height - footerRows, w: width, h: footerRows}

	binW := (width - binGap*(bins-1)) / bins
	lead := (width - (binW*bins + binGap*(bins-1))) / 2
	l.bins = make([]rect, 0, bins)
	for i := range bins {
		l.bins = append(l.bins, rect{
			x: lead + i*(binW+binGap),
			y: binsTop,
			w: binW,
			h: binRows,
		})
	}
	return l
}

func (l layout) valid() bool {
	return len(l.bins) > 0 && l.grid.h > 0
}

// containerAt returns the 1-based id of the bin rendered under the given
// cell, or 0 when the cell is outside every bin.
func (l layout) containerAt(x, y int) int {
	for i, r := range l.bins {
		if r.contains(x, y) {
			return i + 1
		}
	}
	return 0
}

func (l layout) inGrid(x, y int) bool {
	return l.grid.contains(x, y)
}
