package grid

import (
	"math/rand"
)

// NameSource supplies widget names and action labels during generation.
//
// GenerateCommandName must return names that are unique for the lifetime of
// the source; it returns ok=false when no unique names remain. role selects
// the themed word pool the name is drawn from.
type NameSource interface {
	GenerateCommandName(role int) (name string, ok bool)
	GenerateAction() string
}

// Grid is a player's widget layout: a width×height occupancy matrix and the
// ordered list of widgets placed on it.
type Grid struct {
	Width   int
	Height  int
	Cells   [][]Cell
	Widgets []*Widget
}

// Widget returns the widget with the given name, or nil.
func (g *Grid) Widget(name string) *Widget {
	for _, w := range g.Widgets {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// Generate builds a fully populated grid for the given role and level.
//
// Cells are scanned in row-major order. Every still-empty cell seeds a block
// whose shape is drawn from the shapes that fit the free space to the right
// and below, and the block is populated with a widget from a shape-specific
// pool. Generation stops early, without error, when names runs out of unique
// names; the partial grid placed so far is returned.
func Generate(width, height, role, level int, names NameSource, rng *rand.Rand) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		Cells:  make([][]Cell, height),
	}
	for y := range g.Cells {
		g.Cells[y] = make([]Cell, width)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if g.Cells[y][x] != CellEmpty {
				continue
			}
			if !g.placeRandomBlock(y, x, role, level, names, rng) {
				// No unique names left; stop placing.
				return g
			}
		}
	}
	return g
}

// placeRandomBlock picks a shape and size for the block anchored at (y, x),
// populates it with a widget and stamps the occupancy matrix. It returns
// false when the name source is exhausted; in that case nothing is stamped.
func (g *Grid) placeRandomBlock(y, x, role, level int, names NameSource, rng *rand.Rand) bool {
	spacesRight := g.spacesRight(y, x)
	spacesDown := g.spacesDown(y, x)

	pool := []Cell{CellSquare}
	if spacesRight > 0 {
		pool = append(pool, CellHorizontalRect)
	}
	if spacesDown > 0 {
		pool = append(pool, CellVerticalRect)
	}
	if spacesRight > 0 && spacesDown > 0 {
		pool = append(pool, CellBigSquare)
	}
	shape := pool[rng.Intn(len(pool))]
	size := g.blockSize(shape, y, x, spacesRight, spacesDown, level, rng)

	widget, ok := g.buildWidget(shape, y, x, size, role, names, rng)
	if !ok {
		return false
	}

	g.stamp(shape, y, x, size)
	g.Widgets = append(g.Widgets, widget)
	return true
}

// blockSize picks the footprint size for a shape anchored at (y, x). Level 0
// always uses the minimum size of 2 for multi-cell shapes. The size is capped
// so the block stays inside the contiguous empty run, which keeps widgets
// disjoint.
func (g *Grid) blockSize(shape Cell, y, x, spacesRight, spacesDown, level int, rng *rand.Rand) int {
	switch shape {
	case CellHorizontalRect:
		if level == 0 {
			return 2
		}
		hi := spacesRight + 1
		if limit := g.Width - 1 - x; limit >= 2 && limit < hi {
			hi = limit
		}
		return 2 + rng.Intn(hi-1)
	case CellVerticalRect:
		if level == 0 {
			return 2
		}
		hi := spacesDown + 1
		if limit := g.Height - 1 - y; limit >= 2 && limit < hi {
			hi = limit
		}
		return 2 + rng.Intn(hi-1)
	case CellBigSquare:
		if level == 0 {
			return 2
		}
		hi := spacesRight + 1
		if spacesDown < spacesRight {
			hi = spacesDown + 1
		}
		if hi > 3 {
			hi = 3
		}
		return 2 + rng.Intn(hi-1)
	}
	return 1
}

// stamp writes the block's occupancy: the anchor carries the shape tag,
// rectangle interiors are marked occupied, and big squares repeat their tag
// over the whole footprint.
func (g *Grid) stamp(shape Cell, y, x, size int) {
	g.Cells[y][x] = shape
	switch shape {
	case CellVerticalRect:
		for i := y + 1; i < y+size; i++ {
			g.Cells[i][x] = CellOccupied
		}
	case CellHorizontalRect:
		for i := x + 1; i < x+size; i++ {
			g.Cells[y][i] = CellOccupied
		}
	case CellBigSquare:
		for dy := 0; dy < size; dy++ {
			for dx := 0; dx < size; dx++ {
				g.Cells[y+dy][x+dx] = CellBigSquare
			}
		}
	}
}

// buildWidget draws a widget variant from the shape's pool and constructs it.
// The unique name is requested before any state changes so an exhausted
// source leaves the grid untouched.
func (g *Grid) buildWidget(shape Cell, y, x, size, role int, names NameSource, rng *rand.Rand) (*Widget, bool) {
	var pool []Kind
	switch shape {
	case CellSquare:
		pool = []Kind{KindButton, KindSwitch}
	case CellBigSquare:
		pool = []Kind{KindButton, KindSwitch, KindCircularSlider, KindCircularSlider, KindCircularSlider}
	case CellVerticalRect:
		pool = []Kind{KindSlider}
		if size == 2 {
			pool = append(pool, KindActions, KindActions)
		}
	case CellHorizontalRect:
		pool = []Kind{KindSlider, KindButtonsSlider, KindButtonsSlider}
	}
	kind := pool[rng.Intn(len(pool))]

	name, ok := names.GenerateCommandName(role)
	if !ok {
		return nil, false
	}

	w := &Widget{
		Kind: kind,
		Name: name,
		X:    x,
		Y:    y,
		W:    1,
		H:    1,
	}
	switch shape {
	case CellVerticalRect:
		w.H = size
	case CellHorizontalRect:
		w.W = size
	case CellBigSquare:
		w.W = size
		w.H = size
	}

	switch kind {
	case KindSlider, KindButtonsSlider:
		w.Min = 0
		w.Max = 3 + rng.Intn(3)
		w.Value = w.Min
	case KindCircularSlider:
		w.Min = 0
		w.Max = 4 + rng.Intn(4)
		w.Value = w.Min
	case KindActions:
		n := 2 + rng.Intn(3)
		w.Actions = make([]string, 0, n)
		for i := 0; i < n; i++ {
			w.Actions = append(w.Actions, names.GenerateAction())
		}
	}
	return w, true
}

// spacesRight counts contiguous empty cells strictly to the right of (y, x).
func (g *Grid) spacesRight(y, x int) int {
	count := 0
	for i := x + 1; i < g.Width; i++ {
		if g.Cells[y][i] != CellEmpty {
			return count
		}
		count++
	}
	return count
}

// spacesDown counts contiguous empty cells strictly below (y, x).
func (g *Grid) spacesDown(y, x int) int {
	count := 0
	for i := y + 1; i < g.Height; i++ {
		if g.Cells[i][x] != CellEmpty {
			return count
		}
		count++
	}
	return count
}
